package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"plangen/config"
	"plangen/middleware"
	"plangen/models"
	"plangen/progress"
	"plangen/store"
	calendarValidator "plangen/validators/calendar"
)

type CalendarController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewCalendarController(s *store.Store, cfg *config.Config) *CalendarController {
	return &CalendarController{Store: s, Cfg: cfg}
}

// AddEvent schedules a roadmap step on the learner's calendar. The event
// title defaults to the step title when none is given.
func (ctrl *CalendarController) AddEvent(c *fiber.Ctx) error {
	profileID := c.Locals("profileId").(uint)
	input := c.Locals("validatedEvent").(*calendarValidator.AddEventInput)

	step, err := ctrl.Store.StepByID(input.RoadmapID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Step not found!", nil)
	}

	title := input.Title
	if title == "" {
		title = step.Title
	}

	event := models.CalendarEvent{
		ProfileID:   profileID,
		DashboardID: input.DashboardID,
		RoadmapID:   input.RoadmapID,
		Title:       title,
		Date:        input.ParsedDate,
	}
	if err := ctrl.Store.DB().Create(&event).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to schedule step!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Step scheduled successfully!", event)
}

// ListEvents returns the learner's calendar, optionally scoped to one
// dashboard, ordered by date.
func (ctrl *CalendarController) ListEvents(c *fiber.Ctx) error {
	profileID := c.Locals("profileId").(uint)

	query := ctrl.Store.DB().Where("profile_id = ? AND is_deleted = false", profileID)
	if dashboardID := c.QueryInt("dashboard_id"); dashboardID > 0 {
		query = query.Where("dashboard_id = ?", dashboardID)
	}

	var events []models.CalendarEvent
	if err := query.Order("date ASC").Find(&events).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch events!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Events fetched successfully!", events)
}

// DeleteEvent removes an event from the learner's own calendar.
func (ctrl *CalendarController) DeleteEvent(c *fiber.Ctx) error {
	profileID := c.Locals("profileId").(uint)
	eventID, err := c.ParamsInt("eventId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid event id!", nil)
	}

	var event models.CalendarEvent
	if err := ctrl.Store.DB().
		Where("id = ? AND profile_id = ? AND is_deleted = false", eventID, profileID).
		First(&event).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Event not found!", nil)
	}

	event.IsDeleted = true
	if err := ctrl.Store.DB().Save(&event).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete event!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event deleted successfully!", nil)
}

type notificationView struct {
	EventID   uint      `json:"event_id"`
	RoadmapID uint      `json:"roadmap_id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Overdue   bool      `json:"overdue"`
}

// Notifications lists scheduled steps whose date has passed and which are
// still neither completed nor skipped.
func (ctrl *CalendarController) Notifications(c *fiber.Ctx) error {
	profileID := c.Locals("profileId").(uint)
	now := time.Now()

	var events []models.CalendarEvent
	if err := ctrl.Store.DB().
		Where("profile_id = ? AND date <= ? AND is_deleted = false", profileID, now).
		Order("date ASC").
		Find(&events).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	notifications := make([]notificationView, 0, len(events))
	for _, event := range events {
		statusByStep, err := ctrl.Store.StepProgressFor(event.ProfileID, event.DashboardID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
		}
		status := progress.StatusNotStarted
		if s, ok := statusByStep[event.RoadmapID]; ok {
			status = s
		}
		if progress.Finished(status) {
			continue
		}
		notifications = append(notifications, notificationView{
			EventID:   event.ID,
			RoadmapID: event.RoadmapID,
			Title:     event.Title,
			Date:      event.Date,
			Overdue:   true,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", notifications)
}
