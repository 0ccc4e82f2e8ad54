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

// ToggleChecklist flips one checklist checkbox. When the toggle makes every
// item on the step complete, the step auto-completes; unchecking never
// reverts a status.
func (rc *RoadmapController) ToggleChecklist(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedChecklist").(*roadmapValidator.ToggleChecklistInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	itemID, err := strconv.Atoi(c.Params("itemId"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid checklist item ID!", nil)
	}

	item, err := rc.Store.ChecklistItemByID(uint(itemID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Checklist item not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load checklist item!", nil)
	}

	isCompleted := *reqData.IsCompleted
	if err := rc.Store.UpsertChecklistProgress(roadmap.ChecklistProgress{
		ChecklistID: item.ID,
		ProfileID:   profileID,
		DashboardID: reqData.DashboardID,
		IsCompleted: isCompleted,
	}); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not update checklist progress!", nil)
	}

	step, err := rc.Store.StepByID(item.RoadmapID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load step!", nil)
	}

	allComplete, stepPct, err := rc.checklistState(step.ID, profileID, reqData.DashboardID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load checklist progress!", nil)
	}

	status := rc.currentStepStatus(step.ID, profileID, reqData.DashboardID)
	percentage := 0
	var nextID uint

	if isCompleted && allComplete && progress.CanAutoComplete(status) {
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

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checklist updated!", fiber.Map{
		"is_completed":    isCompleted,
		"step_status":     status,
		"step_percentage": stepPct,
		"percentage":      percentage,
		"next_step_id":    nextID,
	})
}

// GetChecklist returns a step's checklist items with the caller's progress
// merged in, plus the per-step completion percentage.
func (rc *RoadmapController) GetChecklist(c *fiber.Ctx) error {
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

	items, err := rc.Store.ChecklistItemsForStep(uint(stepID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load checklist items!", nil)
	}

	itemIDs := make([]uint, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}
	stored, err := rc.Store.ChecklistProgressFor(profileID, dashboardID, itemIDs)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load checklist progress!", nil)
	}

	type checklistView struct {
		ID          uint   `json:"id"`
		Title       string `json:"title"`
		OrderIndex  int    `json:"order_index"`
		Shortcode   string `json:"shortcode"`
		IsCompleted bool   `json:"is_completed"`
	}

	completed := 0
	views := make([]checklistView, len(items))
	for i, item := range items {
		done := stored[item.ID].IsCompleted
		if done {
			completed++
		}
		views[i] = checklistView{
			ID:          item.ID,
			Title:       item.Title,
			OrderIndex:  item.OrderIndex,
			Shortcode:   item.Shortcode,
			IsCompleted: done,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checklist fetched successfully!", fiber.Map{
		"items":      views,
		"percentage": progress.ComputeStepPercentage(len(items), completed),
	})
}

// checklistState reports whether every checklist item on the step is
// complete, along with the step's checklist percentage.
func (rc *RoadmapController) checklistState(stepID, profileID, dashboardID uint) (bool, int, error) {
	items, err := rc.Store.ChecklistItemsForStep(stepID)
	if err != nil {
		return false, 0, err
	}
	itemIDs := make([]uint, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}
	stored, err := rc.Store.ChecklistProgressFor(profileID, dashboardID, itemIDs)
	if err != nil {
		return false, 0, err
	}

	completed := 0
	for _, item := range items {
		if stored[item.ID].IsCompleted {
			completed++
		}
	}
	allComplete := len(items) > 0 && completed == len(items)
	return allComplete, progress.ComputeStepPercentage(len(items), completed), nil
}
