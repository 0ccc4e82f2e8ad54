package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"plangen/config"
	"plangen/middleware"
	"plangen/models/roadmap"
	"plangen/progress"
	"plangen/store"
	"plangen/utils"
	roadmapValidator "plangen/validators/roadmap"
)

// RoadmapController serves a learner's roadmap: step definitions merged with
// progress, status changes, quiz grading and checklist toggles. All writes
// go through the injected Store's upserts.
type RoadmapController struct {
	Store *store.Store
	Cfg   *config.Config
	Email *utils.EmailService
}

func NewRoadmapController(st *store.Store, cfg *config.Config, email *utils.EmailService) *RoadmapController {
	return &RoadmapController{Store: st, Cfg: cfg, Email: email}
}

type stepView struct {
	ID         uint                `json:"id"`
	Title      string              `json:"title"`
	OrderIndex int                 `json:"order_index"`
	VideoLinks []roadmap.VideoLink `json:"video_links"`
	Status     progress.Status     `json:"status"`
	StepNumber int                 `json:"step_number"`
}

// GetSteps loads a module's steps with the caller's progress merged in,
// plus the module percentage, the auto-expanded step and pagination meta.
func (rc *RoadmapController) GetSteps(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID, err := strconv.Atoi(c.Params("moduleId"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
	}
	dashboardID := uint(c.QueryInt("dashboard_id"))
	if dashboardID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "dashboard_id is required!", nil)
	}

	module, err := rc.Store.ModuleByID(uint(moduleID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load roadmap module!", nil)
	}

	steps, err := rc.Store.StepsByModule(module.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load roadmap steps!", nil)
	}

	statusByStep, err := rc.Store.StepProgressFor(profileID, dashboardID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load step progress!", nil)
	}

	stepIDs := make([]uint, len(steps))
	views := make([]stepView, len(steps))
	for i, step := range steps {
		stepIDs[i] = step.ID
		status := statusByStep[step.ID]
		if status == "" {
			status = progress.StatusNotStarted
		}
		views[i] = stepView{
			ID:         step.ID,
			Title:      step.Title,
			OrderIndex: step.OrderIndex,
			VideoLinks: step.VideoLinks,
			Status:     status,
			StepNumber: i + 1,
		}
	}

	percentage := progress.ComputeModuleProgress(stepIDs, statusByStep)
	expandedID, _ := progress.ExpandedStep(stepIDs, statusByStep)

	pageSize := rc.Cfg.StepPageSize
	visible := c.QueryInt("visible", pageSize)
	if visible < pageSize {
		visible = pageSize
	}
	// keep the auto-expanded step on the visible page
	for i, id := range stepIDs {
		if id == expandedID && i+1 > visible {
			visible = i + 1
		}
	}
	if visible > len(views) {
		visible = len(views)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Roadmap steps fetched successfully!", fiber.Map{
		"module":           fiber.Map{"id": module.ID, "title": module.Title},
		"steps":            views[:visible],
		"percentage":       percentage,
		"expanded_step_id": expandedID,
		"visible":          visible,
		"remaining":        len(views) - visible,
		"page_size":        pageSize,
	})
}

// SetStepStatus upserts the caller's status for one step. On a completed
// status the next incomplete step id is returned for auto-expansion.
func (rc *RoadmapController) SetStepStatus(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedStatus").(*roadmapValidator.StepStatusInput)
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

	newStatus := progress.Status(reqData.Status)
	if err := rc.Store.UpsertStepProgress(roadmap.StepProgress{
		RoadmapID:   step.ID,
		ProfileID:   profileID,
		DashboardID: reqData.DashboardID,
		Status:      string(newStatus),
	}); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not update step status!", nil)
	}

	percentage, nextID, err := rc.moduleStateAfter(step, profileID, reqData.DashboardID, newStatus == progress.StatusCompleted)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not recompute module progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Step status updated!", fiber.Map{
		"status":       newStatus,
		"percentage":   percentage,
		"next_step_id": nextID,
	})
}

// completeStep applies the automatic completed transition fired by a gate
// (all quiz correct, or all checklist items done).
func (rc *RoadmapController) completeStep(step roadmap.Step, profileID, dashboardID uint) (int, uint, error) {
	err := rc.Store.UpsertStepProgress(roadmap.StepProgress{
		RoadmapID:   step.ID,
		ProfileID:   profileID,
		DashboardID: dashboardID,
		Status:      string(progress.StatusCompleted),
	})
	if err != nil {
		return 0, 0, err
	}
	return rc.moduleStateAfter(step, profileID, dashboardID, true)
}

// moduleStateAfter recomputes the module percentage and, when the step just
// completed, the next incomplete step to expand.
func (rc *RoadmapController) moduleStateAfter(step roadmap.Step, profileID, dashboardID uint, completed bool) (int, uint, error) {
	steps, err := rc.Store.StepsByModule(step.ModuleID)
	if err != nil {
		return 0, 0, err
	}
	statusByStep, err := rc.Store.StepProgressFor(profileID, dashboardID)
	if err != nil {
		return 0, 0, err
	}

	stepIDs := make([]uint, len(steps))
	currentIdx := -1
	for i, s := range steps {
		stepIDs[i] = s.ID
		if s.ID == step.ID {
			currentIdx = i
		}
	}

	percentage := progress.ComputeModuleProgress(stepIDs, statusByStep)
	var nextID uint
	if completed && currentIdx >= 0 {
		nextID, _ = progress.NextIncompleteStep(stepIDs, statusByStep, currentIdx)
	}
	return percentage, nextID, nil
}
