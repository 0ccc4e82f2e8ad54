package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"plangen/middleware"
	"plangen/models/roadmap"
	"plangen/utils"
	adminValidator "plangen/validators/admin"
)

// CreateStep adds a step to a module. Each video link gets a fresh shortcode
// unless the admin supplied one, so descriptions can embed it right away.
func (ctrl *AdminController) CreateStep(c *fiber.Ctx) error {
	input := c.Locals("validatedStep").(*adminValidator.CreateStepInput)

	if _, err := ctrl.Store.ModuleByID(input.ModuleID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	step := roadmap.Step{
		ModuleID:    input.ModuleID,
		Title:       input.Title,
		Description: input.Description,
		OrderIndex:  input.OrderIndex,
		VideoLinks:  videoLinksFromInput(input.VideoLinks),
	}
	if err := ctrl.Store.DB().Create(&step).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create step!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Step created successfully!", step)
}

// UpdateStep edits a step. Empty fields in the payload leave the stored
// value alone.
func (ctrl *AdminController) UpdateStep(c *fiber.Ctx) error {
	stepID, err := c.ParamsInt("stepId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid step id!", nil)
	}

	step, err := ctrl.Store.StepByID(uint(stepID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Step not found!", nil)
	}

	input := c.Locals("validatedStepUpdate").(*adminValidator.UpdateStepInput)
	if input.Title != "" {
		step.Title = input.Title
	}
	if input.Description != "" {
		step.Description = input.Description
	}
	if input.OrderIndex != nil {
		step.OrderIndex = *input.OrderIndex
	}
	if input.VideoLinks != nil {
		step.VideoLinks = videoLinksFromInput(input.VideoLinks)
	}

	if err := ctrl.Store.DB().Save(&step).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update step!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Step updated successfully!", step)
}

// DeleteStep soft deletes a step.
func (ctrl *AdminController) DeleteStep(c *fiber.Ctx) error {
	stepID, err := c.ParamsInt("stepId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid step id!", nil)
	}

	step, err := ctrl.Store.StepByID(uint(stepID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Step not found!", nil)
	}

	step.IsDeleted = true
	if err := ctrl.Store.DB().Save(&step).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete step!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Step deleted successfully!", nil)
}

func videoLinksFromInput(inputs []adminValidator.VideoLinkInput) datatypes.JSONSlice[roadmap.VideoLink] {
	links := make([]roadmap.VideoLink, 0, len(inputs))
	for _, in := range inputs {
		code := in.Shortcode
		if code == "" {
			code = utils.NewShortcode()
		}
		links = append(links, roadmap.VideoLink{URL: in.URL, Shortcode: code})
	}
	return datatypes.NewJSONSlice(links)
}
