package controllers

import (
	"github.com/gofiber/fiber/v2"

	"plangen/middleware"
	"plangen/models"
)

// UpdateSettings stores the ClickFunnels credentials used for order
// validation. A single settings row is kept, created on first save.
func (ctrl *AdminController) UpdateSettings(c *fiber.Ctx) error {
	reqData := new(struct {
		CFApiKey      string `json:"cf_api_key"`
		CFWorkspaceID string `json:"cf_workspace_id"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var setting models.Setting
	err := ctrl.Store.DB().First(&setting).Error
	if err != nil {
		setting = models.Setting{CFApiKey: reqData.CFApiKey, CFWorkspaceID: reqData.CFWorkspaceID}
		if err := ctrl.Store.DB().Create(&setting).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save settings!", nil)
		}
	} else {
		setting.CFApiKey = reqData.CFApiKey
		setting.CFWorkspaceID = reqData.CFWorkspaceID
		if err := ctrl.Store.DB().Save(&setting).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save settings!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings saved successfully!", nil)
}

// SendTestEmail delivers a test message so the admin can verify the email
// provider configuration.
func (ctrl *AdminController) SendTestEmail(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Email == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Email is required!", nil)
	}

	result := ctrl.Email.SendTestEmail(reqData.Email)
	if !result.Success {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Test email failed!", result)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Test email sent successfully!", result)
}
