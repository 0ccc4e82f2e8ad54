package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"plangen/config"
	"plangen/middleware"
	"plangen/models"
	"plangen/models/roadmap"
	"plangen/store"
	validators "plangen/validators/roadmap"
)

type testEnv struct {
	app   *fiber.App
	store *store.Store
	token string
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{JWTKey: "test-secret", StepPageSize: 5}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Profile{}, &models.Dashboard{},
		&roadmap.Module{}, &roadmap.Step{},
		&roadmap.QuizItem{}, &roadmap.QuizProgress{},
		&roadmap.ChecklistItem{}, &roadmap.ChecklistProgress{},
		&roadmap.StepProgress{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	st := store.New(db)
	ctrl := NewRoadmapController(st, cfg, nil)

	app := fiber.New()
	group := app.Group("/api/roadmap", middleware.JWTMiddleware(cfg))
	group.Post("/dashboards", ctrl.CreateDashboard)
	group.Get("/dashboards", ctrl.ListDashboards)
	group.Get("/:moduleId/steps", ctrl.GetSteps)
	group.Get("/steps/:stepId/content", ctrl.GetStepContent)
	group.Put("/steps/:stepId/status", validators.StepStatus(), ctrl.SetStepStatus)
	group.Post("/steps/:stepId/quiz", validators.SubmitQuiz(), ctrl.SubmitQuiz)
	group.Get("/steps/:stepId/quiz", ctrl.GetQuizResult)
	group.Get("/steps/:stepId/checklist", ctrl.GetChecklist)
	group.Put("/checklist/:itemId", validators.ToggleChecklist(), ctrl.ToggleChecklist)

	token, err := middleware.GenerateJWT(cfg, 1, "Test Learner", "learner@example.com", false)
	require.NoError(t, err)

	return &testEnv{app: app, store: st, token: "Bearer " + token}
}

// seedModule creates a two-step module. The first step carries two quiz
// items (answers {0} and {1,2}) and two checklist items.
func (e *testEnv) seedModule(t *testing.T) (step1, step2 roadmap.Step, quiz []roadmap.QuizItem, checklist []roadmap.ChecklistItem) {
	t.Helper()
	db := e.store.DB()

	module := roadmap.Module{InterestArea: "real_estate", Title: "Find Your Path", OrderIndex: 1}
	require.NoError(t, db.Create(&module).Error)

	step1 = roadmap.Step{ModuleID: module.ID, Title: "Learn the basics", OrderIndex: 1,
		Description: "Intro text [quiz:QZAA0001] and [checklist:CLAA0001]"}
	step2 = roadmap.Step{ModuleID: module.ID, Title: "Pick a niche", OrderIndex: 2}
	require.NoError(t, db.Create(&step1).Error)
	require.NoError(t, db.Create(&step2).Error)

	quiz = []roadmap.QuizItem{
		{RoadmapID: step1.ID, Question: "Pick one", OrderIndex: 1, Shortcode: "QZAA0001",
			Options:        datatypes.NewJSONSlice([]string{"a", "b", "c"}),
			CorrectAnswers: datatypes.NewJSONSlice([]int{0})},
		{RoadmapID: step1.ID, Question: "Pick two", OrderIndex: 2, Shortcode: "QZAA0002",
			Options:        datatypes.NewJSONSlice([]string{"a", "b", "c"}),
			CorrectAnswers: datatypes.NewJSONSlice([]int{1, 2})},
	}
	for i := range quiz {
		require.NoError(t, db.Create(&quiz[i]).Error)
	}

	checklist = []roadmap.ChecklistItem{
		{RoadmapID: step1.ID, Title: "Read the guide", OrderIndex: 1, Shortcode: "CLAA0001"},
		{RoadmapID: step1.ID, Title: "Make notes", OrderIndex: 2, Shortcode: "CLAA0002"},
	}
	for i := range checklist {
		require.NoError(t, db.Create(&checklist[i]).Error)
	}
	return step1, step2, quiz, checklist
}

func (e *testEnv) request(t *testing.T, method, url string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", e.token)

	resp, err := e.app.Test(req)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func data(result map[string]any) map[string]any {
	d, _ := result["data"].(map[string]any)
	return d
}

func TestCreateDashboard(t *testing.T) {
	env := setupTest(t)

	code, result := env.request(t, "POST", "/api/roadmap/dashboards",
		map[string]any{"interest_area": "real_estate"})
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "real_estate", data(result)["interest_area"])

	// Same interest area twice is rejected
	code, _ = env.request(t, "POST", "/api/roadmap/dashboards",
		map[string]any{"interest_area": "real_estate"})
	assert.Equal(t, fiber.StatusConflict, code)

	// A different track is a second dashboard
	code, _ = env.request(t, "POST", "/api/roadmap/dashboards",
		map[string]any{"interest_area": "stocks"})
	require.Equal(t, fiber.StatusCreated, code)

	code, result = env.request(t, "GET", "/api/roadmap/dashboards", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, result["data"].([]any), 2)
}

func TestGetStepsInitialState(t *testing.T) {
	env := setupTest(t)
	step1, _, _, _ := env.seedModule(t)

	code, result := env.request(t, "GET", "/api/roadmap/1/steps?dashboard_id=1", nil)
	require.Equal(t, fiber.StatusOK, code)

	d := data(result)
	assert.Equal(t, float64(0), d["percentage"])
	assert.Equal(t, float64(step1.ID), d["expanded_step_id"], "first step expands when nothing is completed")

	steps := d["steps"].([]any)
	require.Len(t, steps, 2)
	first := steps[0].(map[string]any)
	assert.Equal(t, "not_started", first["status"])
	assert.Equal(t, float64(1), first["step_number"])
}

func TestGetStepsRequiresAuth(t *testing.T) {
	env := setupTest(t)
	env.seedModule(t)

	req := httptest.NewRequest("GET", "/api/roadmap/1/steps?dashboard_id=1", nil)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSetStepStatusFlow(t *testing.T) {
	env := setupTest(t)
	step1, step2, _, _ := env.seedModule(t)

	// Completing the first of two steps lands the module at 50%
	code, result := env.request(t, "PUT", fmt.Sprintf("/api/roadmap/steps/%d/status", step1.ID),
		map[string]any{"dashboard_id": 1, "status": "completed"})
	require.Equal(t, fiber.StatusOK, code)
	d := data(result)
	assert.Equal(t, float64(50), d["percentage"])
	assert.Equal(t, float64(step2.ID), d["next_step_id"])

	// Completing the second finishes the module
	code, result = env.request(t, "PUT", fmt.Sprintf("/api/roadmap/steps/%d/status", step2.ID),
		map[string]any{"dashboard_id": 1, "status": "completed"})
	require.Equal(t, fiber.StatusOK, code)
	d = data(result)
	assert.Equal(t, float64(100), d["percentage"])
	assert.Equal(t, float64(0), d["next_step_id"])

	// The listing reflects the writes and collapses the expansion
	code, result = env.request(t, "GET", "/api/roadmap/1/steps?dashboard_id=1", nil)
	require.Equal(t, fiber.StatusOK, code)
	d = data(result)
	assert.Equal(t, float64(100), d["percentage"])
	assert.Equal(t, float64(0), d["expanded_step_id"])
}

func TestSetStepStatusSkippedUnlocksButDoesNotCount(t *testing.T) {
	env := setupTest(t)
	step1, step2, _, _ := env.seedModule(t)

	code, result := env.request(t, "PUT", fmt.Sprintf("/api/roadmap/steps/%d/status", step1.ID),
		map[string]any{"dashboard_id": 1, "status": "skipped"})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(0), data(result)["percentage"], "skipped steps never count toward completion")

	// Completing step2 still leaves the module at 50%
	code, result = env.request(t, "PUT", fmt.Sprintf("/api/roadmap/steps/%d/status", step2.ID),
		map[string]any{"dashboard_id": 1, "status": "completed"})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(50), data(result)["percentage"])
}

func TestSetStepStatusValidation(t *testing.T) {
	env := setupTest(t)
	step1, _, _, _ := env.seedModule(t)

	code, result := env.request(t, "PUT", fmt.Sprintf("/api/roadmap/steps/%d/status", step1.ID),
		map[string]any{"dashboard_id": 1, "status": "done"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, data(result), "status")
}

func TestSubmitQuizUnansweredWritesNothing(t *testing.T) {
	env := setupTest(t)
	step1, _, quiz, _ := env.seedModule(t)

	code, _ := env.request(t, "POST", fmt.Sprintf("/api/roadmap/steps/%d/quiz", step1.ID),
		map[string]any{"dashboard_id": 1, "answers": []map[string]any{
			{"quiz_id": quiz[0].ID, "selected_answers": []int{0}},
		}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	// The validation gate must leave the store untouched
	var count int64
	env.store.DB().Model(&roadmap.QuizProgress{}).Count(&count)
	assert.Equal(t, int64(0), count)
	var statusCount int64
	env.store.DB().Model(&roadmap.StepProgress{}).Count(&statusCount)
	assert.Equal(t, int64(0), statusCount)
}

func TestSubmitQuizAllCorrectCompletesStep(t *testing.T) {
	env := setupTest(t)
	step1, step2, quiz, _ := env.seedModule(t)

	// Start the step the way the UI does before the quiz opens
	env.request(t, "PUT", fmt.Sprintf("/api/roadmap/steps/%d/status", step1.ID),
		map[string]any{"dashboard_id": 1, "status": "in_progress"})

	// Answer order must not matter
	code, result := env.request(t, "POST", fmt.Sprintf("/api/roadmap/steps/%d/quiz", step1.ID),
		map[string]any{"dashboard_id": 1, "answers": []map[string]any{
			{"quiz_id": quiz[0].ID, "selected_answers": []int{0}},
			{"quiz_id": quiz[1].ID, "selected_answers": []int{2, 1}},
		}})
	require.Equal(t, fiber.StatusOK, code)

	d := data(result)
	assert.Equal(t, true, d["all_correct"])
	assert.Equal(t, "completed", d["status"])
	assert.Equal(t, float64(50), d["percentage"])
	assert.Equal(t, float64(step2.ID), d["next_step_id"], "auto-advance points at the next incomplete step")
}

func TestSubmitQuizWrongAnswerKeepsStatus(t *testing.T) {
	env := setupTest(t)
	step1, _, quiz, _ := env.seedModule(t)

	env.request(t, "PUT", fmt.Sprintf("/api/roadmap/steps/%d/status", step1.ID),
		map[string]any{"dashboard_id": 1, "status": "in_progress"})

	// A subset of the correct answers earns no credit
	code, result := env.request(t, "POST", fmt.Sprintf("/api/roadmap/steps/%d/quiz", step1.ID),
		map[string]any{"dashboard_id": 1, "answers": []map[string]any{
			{"quiz_id": quiz[0].ID, "selected_answers": []int{0}},
			{"quiz_id": quiz[1].ID, "selected_answers": []int{1}},
		}})
	require.Equal(t, fiber.StatusOK, code)

	d := data(result)
	assert.Equal(t, false, d["all_correct"])
	assert.Equal(t, "in_progress", d["status"])

	// Graded rows persist for the stored-result view
	var count int64
	env.store.DB().Model(&roadmap.QuizProgress{}).Count(&count)
	assert.Equal(t, int64(2), count)

	code, result = env.request(t, "GET",
		fmt.Sprintf("/api/roadmap/steps/%d/quiz?dashboard_id=1", step1.ID), nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, false, data(result)["all_correct"])
	assert.Equal(t, float64(2), data(result)["answered"])
}

func TestSubmitQuizNeverReopensSkippedStep(t *testing.T) {
	env := setupTest(t)
	step1, _, quiz, _ := env.seedModule(t)

	env.request(t, "PUT", fmt.Sprintf("/api/roadmap/steps/%d/status", step1.ID),
		map[string]any{"dashboard_id": 1, "status": "skipped"})

	code, result := env.request(t, "POST", fmt.Sprintf("/api/roadmap/steps/%d/quiz", step1.ID),
		map[string]any{"dashboard_id": 1, "answers": []map[string]any{
			{"quiz_id": quiz[0].ID, "selected_answers": []int{0}},
			{"quiz_id": quiz[1].ID, "selected_answers": []int{1, 2}},
		}})
	require.Equal(t, fiber.StatusOK, code)

	d := data(result)
	assert.Equal(t, true, d["all_correct"])
	assert.Equal(t, "skipped", d["status"], "skipped is a sink state for automatic transitions")
}

func TestToggleChecklistCompletesOnLastItemOnly(t *testing.T) {
	env := setupTest(t)
	_, step2, _, checklist := env.seedModule(t)

	// First of two items: step stays open
	code, result := env.request(t, "PUT", fmt.Sprintf("/api/roadmap/checklist/%d", checklist[0].ID),
		map[string]any{"dashboard_id": 1, "is_completed": true})
	require.Equal(t, fiber.StatusOK, code)
	d := data(result)
	assert.NotEqual(t, "completed", d["step_status"])
	assert.Equal(t, float64(50), d["step_percentage"])

	// Last item: gate fires, step completes, next step offered
	code, result = env.request(t, "PUT", fmt.Sprintf("/api/roadmap/checklist/%d", checklist[1].ID),
		map[string]any{"dashboard_id": 1, "is_completed": true})
	require.Equal(t, fiber.StatusOK, code)
	d = data(result)
	assert.Equal(t, "completed", d["step_status"])
	assert.Equal(t, float64(100), d["step_percentage"])
	assert.Equal(t, float64(50), d["percentage"])
	assert.Equal(t, float64(step2.ID), d["next_step_id"])
}

func TestToggleChecklistUncheckDoesNotRevert(t *testing.T) {
	env := setupTest(t)
	_, _, _, checklist := env.seedModule(t)

	env.request(t, "PUT", fmt.Sprintf("/api/roadmap/checklist/%d", checklist[0].ID),
		map[string]any{"dashboard_id": 1, "is_completed": true})
	env.request(t, "PUT", fmt.Sprintf("/api/roadmap/checklist/%d", checklist[1].ID),
		map[string]any{"dashboard_id": 1, "is_completed": true})

	// Unchecking after completion leaves the step status alone
	code, result := env.request(t, "PUT", fmt.Sprintf("/api/roadmap/checklist/%d", checklist[0].ID),
		map[string]any{"dashboard_id": 1, "is_completed": false})
	require.Equal(t, fiber.StatusOK, code)
	d := data(result)
	assert.Equal(t, false, d["is_completed"])
	assert.Equal(t, "completed", d["step_status"])
}

func TestGetStepContentHidesCorrectAnswers(t *testing.T) {
	env := setupTest(t)
	step1, _, _, _ := env.seedModule(t)

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/roadmap/steps/%d/content", step1.ID), nil)
	req.Header.Set("Authorization", env.token)
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	body := buf.String()

	assert.NotContains(t, body, "correct_answers", "grading data must stay server side")
	assert.Contains(t, body, "\"kind\":\"quiz\"")
	assert.Contains(t, body, "\"kind\":\"checklist\"")
}

func TestGetStepsPaginationGrowsToExpandedStep(t *testing.T) {
	env := setupTest(t)
	db := env.store.DB()

	module := roadmap.Module{InterestArea: "stocks", Title: "Long module", OrderIndex: 1}
	require.NoError(t, db.Create(&module).Error)
	steps := make([]roadmap.Step, 8)
	for i := range steps {
		steps[i] = roadmap.Step{ModuleID: module.ID, Title: fmt.Sprintf("Step %d", i+1), OrderIndex: i + 1}
		require.NoError(t, db.Create(&steps[i]).Error)
	}
	// Completing step 6 pushes the expanded step beyond the first page
	for i := 0; i < 6; i++ {
		env.request(t, "PUT", fmt.Sprintf("/api/roadmap/steps/%d/status", steps[i].ID),
			map[string]any{"dashboard_id": 1, "status": "completed"})
	}

	code, result := env.request(t, "GET", fmt.Sprintf("/api/roadmap/%d/steps?dashboard_id=1", module.ID), nil)
	require.Equal(t, fiber.StatusOK, code)
	d := data(result)

	assert.Equal(t, float64(steps[6].ID), d["expanded_step_id"])
	assert.Equal(t, float64(7), d["visible"], "the page grows to keep the expanded step visible")
	assert.Equal(t, float64(1), d["remaining"])
	assert.Equal(t, float64(75), d["percentage"])
}
