package controllers

import (
	"github.com/gofiber/fiber/v2"

	"plangen/middleware"
	"plangen/models"
)

// CreateDashboard enrolls the caller in an interest-area track. Progress is
// scoped per dashboard, so a learner can work the same steps independently
// under different tracks.
func (rc *RoadmapController) CreateDashboard(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		InterestArea string `json:"interest_area"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.InterestArea == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "interest_area is required!", nil)
	}

	var existing int64
	rc.Store.DB().Model(&models.Dashboard{}).
		Where("profile_id = ? AND is_deleted = false", profileID).
		Count(&existing)

	var duplicate models.Dashboard
	err := rc.Store.DB().
		Where("profile_id = ? AND interest_area = ? AND is_deleted = false", profileID, reqData.InterestArea).
		First(&duplicate).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already have a dashboard for this interest area!", duplicate)
	}

	dashboard := models.Dashboard{ProfileID: profileID, InterestArea: reqData.InterestArea}
	if err := rc.Store.DB().Create(&dashboard).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create dashboard!", nil)
	}

	// First enrollment doubles as onboarding
	if existing == 0 && rc.Email != nil {
		var profile models.Profile
		if err := rc.Store.DB().First(&profile, profileID).Error; err == nil && profile.Email != "" {
			rc.Email.SendWelcomeEmail(profile.Email, profile.Name)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Dashboard created successfully!", dashboard)
}

// ListDashboards returns the caller's tracks.
func (rc *RoadmapController) ListDashboards(c *fiber.Ctx) error {
	profileID, ok := c.Locals("profileId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var dashboards []models.Dashboard
	if err := rc.Store.DB().
		Where("profile_id = ? AND is_deleted = false", profileID).
		Order("created_at").
		Find(&dashboards).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboards!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboards fetched successfully!", dashboards)
}
