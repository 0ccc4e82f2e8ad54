package calendarRoutes

import (
	"github.com/gofiber/fiber/v2"

	"plangen/config"
	controllers "plangen/controllers/calendar"
	"plangen/middleware"
	validators "plangen/validators/calendar"
)

// SetupCalendarRoutes sets up the learner calendar routes
func SetupCalendarRoutes(app *fiber.App, cfg *config.Config, ctrl *controllers.CalendarController) {
	group := app.Group("/api/calendar", middleware.JWTMiddleware(cfg))

	group.Post("/events", validators.AddEvent(), ctrl.AddEvent)
	group.Get("/events", ctrl.ListEvents)
	group.Delete("/events/:eventId", ctrl.DeleteEvent)
	group.Get("/notifications", ctrl.Notifications)
}
