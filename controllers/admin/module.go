package controllers

import (
	"github.com/gofiber/fiber/v2"

	"plangen/config"
	"plangen/middleware"
	"plangen/models/roadmap"
	"plangen/store"
	"plangen/utils"
	adminValidator "plangen/validators/admin"
)

type AdminController struct {
	Store *store.Store
	Cfg   *config.Config
	Email *utils.EmailService
}

func NewAdminController(s *store.Store, cfg *config.Config, email *utils.EmailService) *AdminController {
	return &AdminController{Store: s, Cfg: cfg, Email: email}
}

// CreateModule adds a roadmap module to an interest area.
func (ctrl *AdminController) CreateModule(c *fiber.Ctx) error {
	input := c.Locals("validatedModule").(*adminValidator.CreateModuleInput)

	module := roadmap.Module{
		InterestArea: input.InterestArea,
		Title:        input.Title,
		Description:  input.Description,
		OrderIndex:   input.OrderIndex,
	}
	if err := ctrl.Store.DB().Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// ListModules returns the modules of an interest area ordered for display.
func (ctrl *AdminController) ListModules(c *fiber.Ctx) error {
	interestArea := c.Query("interest_area")

	query := ctrl.Store.DB().Where("is_deleted = false")
	if interestArea != "" {
		query = query.Where("interest_area = ?", interestArea)
	}

	var modules []roadmap.Module
	if err := query.Order("order_index ASC").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}

// UpdateModule edits title, description or position of a module.
func (ctrl *AdminController) UpdateModule(c *fiber.Ctx) error {
	moduleID, err := c.ParamsInt("moduleId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
	}

	module, err := ctrl.Store.ModuleByID(uint(moduleID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	input := c.Locals("validatedModule").(*adminValidator.CreateModuleInput)
	module.InterestArea = input.InterestArea
	module.Title = input.Title
	module.Description = input.Description
	module.OrderIndex = input.OrderIndex

	if err := ctrl.Store.DB().Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// DeleteModule soft deletes a module and its steps.
func (ctrl *AdminController) DeleteModule(c *fiber.Ctx) error {
	moduleID, err := c.ParamsInt("moduleId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
	}

	module, err := ctrl.Store.ModuleByID(uint(moduleID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	module.IsDeleted = true
	if err := ctrl.Store.DB().Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}
	if err := ctrl.Store.DB().Model(&roadmap.Step{}).
		Where("module_id = ?", module.ID).
		Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module steps!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}
