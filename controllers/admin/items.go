package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"plangen/middleware"
	"plangen/models/roadmap"
	"plangen/utils"
	adminValidator "plangen/validators/admin"
)

// AddQuizItem attaches a question to a step. Correct answer indices must
// point inside the options list.
func (ctrl *AdminController) AddQuizItem(c *fiber.Ctx) error {
	stepID, err := c.ParamsInt("stepId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid step id!", nil)
	}
	if _, err := ctrl.Store.StepByID(uint(stepID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Step not found!", nil)
	}

	input := c.Locals("validatedQuizItem").(*adminValidator.CreateQuizItemInput)
	for _, idx := range input.CorrectAnswers {
		if idx >= len(input.Options) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"correct_answers": "Correct answer index is out of range!",
			})
		}
	}

	item := roadmap.QuizItem{
		RoadmapID:      uint(stepID),
		Question:       input.Question,
		Options:        datatypes.NewJSONSlice(input.Options),
		CorrectAnswers: datatypes.NewJSONSlice(input.CorrectAnswers),
		Explanation:    input.Explanation,
		OrderIndex:     input.OrderIndex,
		Shortcode:      utils.NewShortcode(),
	}
	if err := ctrl.Store.DB().Create(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz item created successfully!", item)
}

// UpdateQuizItem replaces a question's content. The shortcode is stable so
// step descriptions referencing it keep working.
func (ctrl *AdminController) UpdateQuizItem(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("quizId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	var item roadmap.QuizItem
	if err := ctrl.Store.DB().Where("id = ? AND is_deleted = false", quizID).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz item not found!", nil)
	}

	input := c.Locals("validatedQuizItem").(*adminValidator.CreateQuizItemInput)
	for _, idx := range input.CorrectAnswers {
		if idx >= len(input.Options) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"correct_answers": "Correct answer index is out of range!",
			})
		}
	}

	item.Question = input.Question
	item.Options = datatypes.NewJSONSlice(input.Options)
	item.CorrectAnswers = datatypes.NewJSONSlice(input.CorrectAnswers)
	item.Explanation = input.Explanation
	item.OrderIndex = input.OrderIndex

	if err := ctrl.Store.DB().Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz item updated successfully!", item)
}

// DeleteQuizItem soft deletes a question.
func (ctrl *AdminController) DeleteQuizItem(c *fiber.Ctx) error {
	quizID, err := c.ParamsInt("quizId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz id!", nil)
	}

	var item roadmap.QuizItem
	if err := ctrl.Store.DB().Where("id = ? AND is_deleted = false", quizID).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz item not found!", nil)
	}

	item.IsDeleted = true
	if err := ctrl.Store.DB().Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz item deleted successfully!", nil)
}

// AddChecklistItem attaches a checklist entry to a step.
func (ctrl *AdminController) AddChecklistItem(c *fiber.Ctx) error {
	stepID, err := c.ParamsInt("stepId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid step id!", nil)
	}
	if _, err := ctrl.Store.StepByID(uint(stepID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Step not found!", nil)
	}

	input := c.Locals("validatedChecklistItem").(*adminValidator.CreateChecklistItemInput)

	item := roadmap.ChecklistItem{
		RoadmapID:  uint(stepID),
		Title:      input.Title,
		OrderIndex: input.OrderIndex,
		Shortcode:  utils.NewShortcode(),
	}
	if err := ctrl.Store.DB().Create(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create checklist item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Checklist item created successfully!", item)
}

// UpdateChecklistItem edits a checklist entry's title or position.
func (ctrl *AdminController) UpdateChecklistItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid item id!", nil)
	}

	var item roadmap.ChecklistItem
	if err := ctrl.Store.DB().Where("id = ? AND is_deleted = false", itemID).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Checklist item not found!", nil)
	}

	input := c.Locals("validatedChecklistItem").(*adminValidator.CreateChecklistItemInput)
	item.Title = input.Title
	item.OrderIndex = input.OrderIndex

	if err := ctrl.Store.DB().Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update checklist item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checklist item updated successfully!", item)
}

// DeleteChecklistItem soft deletes a checklist entry.
func (ctrl *AdminController) DeleteChecklistItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid item id!", nil)
	}

	var item roadmap.ChecklistItem
	if err := ctrl.Store.DB().Where("id = ? AND is_deleted = false", itemID).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Checklist item not found!", nil)
	}

	item.IsDeleted = true
	if err := ctrl.Store.DB().Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete checklist item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checklist item deleted successfully!", nil)
}
