package calendarValidator

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"plangen/middleware"
)

type AddEventInput struct {
	DashboardID uint   `json:"dashboard_id"`
	RoadmapID   uint   `json:"roadmap_id"`
	Title       string `json:"title"`
	Date        string `json:"date"`

	// Parsed form of Date, set by the validator.
	ParsedDate time.Time `json:"-"`
}

// AddEvent checks the scheduling payload. Date accepts a plain day or a
// full RFC3339 timestamp.
func AddEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddEventInput)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.DashboardID == 0 {
			errors["dashboard_id"] = "Dashboard is required!"
		}
		if reqData.RoadmapID == 0 {
			errors["roadmap_id"] = "Step is required!"
		}
		if reqData.Date == "" {
			errors["date"] = "Date is required!"
		} else {
			parsed, err := time.Parse("2006-01-02", reqData.Date)
			if err != nil {
				parsed, err = time.Parse(time.RFC3339, reqData.Date)
			}
			if err != nil {
				errors["date"] = "Date must be YYYY-MM-DD or RFC3339!"
			} else {
				reqData.ParsedDate = parsed
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEvent", reqData)
		return c.Next()
	}
}
