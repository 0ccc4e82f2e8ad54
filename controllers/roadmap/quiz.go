package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"plangen/middleware"
	"plangen/models/roadmap"
	"plangen/progress"
	roadmapValidator "plangen/validators/roadmap"
)

// SubmitQuiz grades a step's quiz submission. Every question must carry at
// least one selected answer before anything is written; an incomplete
// submission is a validation error, not a fault. When all items grade
// correct the step auto-completes.
func (rc *RoadmapController) SubmitQuiz(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*roadmapValidator.SubmitQuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	stepID, err := strconv.Atoi(c.Params("stepId"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid step ID!", nil)
	}

	step, err := rc.Store.StepByID(uint(stepID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Step not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load step!", nil)
	}

	items, err := rc.Store.QuizItemsForStep(step.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load quiz items!", nil)
	}
	if len(items) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This step has no quiz!", nil)
	}

	selectedByQuiz := make(map[uint][]int, len(reqData.Answers))
	for _, answer := range reqData.Answers {
		selectedByQuiz[answer.QuizID] = answer.SelectedAnswers
	}

	// gate before grading: nothing is persisted for a partial submission
	if !progress.ValidateAllAnswered(items, selectedByQuiz) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"answers": "Select at least one answer for every question before sending for review.",
		})
	}

	summary := progress.CheckAnswers(items, selectedByQuiz)

	rows := make([]roadmap.QuizProgress, len(summary.Results))
	for i, result := range summary.Results {
		rows[i] = roadmap.QuizProgress{
			QuizID:          result.QuizID,
			ProfileID:       profileID,
			DashboardID:     reqData.DashboardID,
			SelectedAnswers: result.SelectedAnswers,
			IsCorrect:       result.IsCorrect,
		}
	}
	if err := rc.Store.UpsertQuizProgress(rows); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not save quiz progress!", nil)
	}

	status := rc.currentStepStatus(step.ID, profileID, reqData.DashboardID)
	percentage := 0
	var nextID uint

	if summary.AllCorrect && progress.CanAutoComplete(status) {
		percentage, nextID, err = rc.completeStep(step, profileID, reqData.DashboardID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not complete step!", nil)
		}
		status = progress.StatusCompleted
	} else {
		percentage, _, err = rc.moduleStateAfter(step, profileID, reqData.DashboardID, false)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not recompute module progress!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"results":      summary.Results,
		"all_correct":  summary.AllCorrect,
		"status":       status,
		"percentage":   percentage,
		"next_step_id": nextID,
	})
}

// GetQuizResult returns the stored grading view for a step, built from
// persisted progress rows.
func (rc *RoadmapController) GetQuizResult(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	stepID, err := strconv.Atoi(c.Params("stepId"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid step ID!", nil)
	}
	dashboardID := uint(c.QueryInt("dashboard_id"))
	if dashboardID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "dashboard_id is required!", nil)
	}

	items, err := rc.Store.QuizItemsForStep(uint(stepID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load quiz items!", nil)
	}

	quizIDs := make([]uint, len(items))
	for i, item := range items {
		quizIDs[i] = item.ID
	}
	stored, err := rc.Store.QuizProgressFor(profileID, dashboardID, quizIDs)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load quiz progress!", nil)
	}

	summary := progress.ComputeQuizResult(items, stored)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz result fetched successfully!", fiber.Map{
		"results":     summary.Results,
		"all_correct": summary.AllCorrect,
		"answered":    len(stored),
	})
}

func (rc *RoadmapController) currentStepStatus(stepID, profileID, dashboardID uint) progress.Status {
	statusByStep, err := rc.Store.StepProgressFor(profileID, dashboardID)
	if err != nil {
		return progress.StatusNotStarted
	}
	if status, ok := statusByStep[stepID]; ok {
		return status
	}
	return progress.StatusNotStarted
}
