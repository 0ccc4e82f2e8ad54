package roadmapValidator

import (
	"github.com/gofiber/fiber/v2"

	"plangen/middleware"
	"plangen/progress"
)

// StepStatusInput is the validated body for a manual status change. The
// select control allows free choice among the four statuses, so any valid
// status is accepted, including reverting out of completed.
type StepStatusInput struct {
	DashboardID uint   `json:"dashboard_id"`
	Status      string `json:"status"`
}

// QuizAnswerInput carries one question's selected option indexes.
type QuizAnswerInput struct {
	QuizID          uint  `json:"quiz_id"`
	SelectedAnswers []int `json:"selected_answers"`
}

// SubmitQuizInput is the validated body for a quiz submission.
type SubmitQuizInput struct {
	DashboardID uint              `json:"dashboard_id"`
	Answers     []QuizAnswerInput `json:"answers"`
}

// ToggleChecklistInput is the validated body for a checklist toggle.
type ToggleChecklistInput struct {
	DashboardID uint  `json:"dashboard_id"`
	IsCompleted *bool `json:"is_completed"`
}

func StepStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StepStatusInput)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.DashboardID == 0 {
			errors["dashboard_id"] = "Dashboard ID is required!"
		}
		if !progress.Status(reqData.Status).Valid() {
			errors["status"] = "Status must be one of not_started, in_progress, completed, skipped!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitQuizInput)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.DashboardID == 0 {
			errors["dashboard_id"] = "Dashboard ID is required!"
		}
		if len(reqData.Answers) == 0 {
			errors["answers"] = "Answers are required!"
		}
		for _, answer := range reqData.Answers {
			if answer.QuizID == 0 {
				errors["answers"] = "Every answer needs a quiz_id!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func ToggleChecklist() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ToggleChecklistInput)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.DashboardID == 0 {
			errors["dashboard_id"] = "Dashboard ID is required!"
		}
		if reqData.IsCompleted == nil {
			errors["is_completed"] = "is_completed is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChecklist", reqData)
		return c.Next()
	}
}
