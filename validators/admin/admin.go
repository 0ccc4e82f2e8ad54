package adminValidator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"plangen/middleware"
)

var validate = validator.New()

type VideoLinkInput struct {
	URL       string `json:"url" validate:"required,url"`
	Shortcode string `json:"shortcode"`
}

type CreateModuleInput struct {
	InterestArea string `json:"interest_area" validate:"required"`
	Title        string `json:"title" validate:"required,min=3"`
	Description  string `json:"description"`
	OrderIndex   int    `json:"order_index"`
}

type CreateStepInput struct {
	ModuleID    uint             `json:"module_id" validate:"required"`
	Title       string           `json:"title" validate:"required,min=3"`
	Description string           `json:"description"`
	OrderIndex  int              `json:"order_index"`
	VideoLinks  []VideoLinkInput `json:"video_links" validate:"dive"`
}

type UpdateStepInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	OrderIndex  *int             `json:"order_index"`
	VideoLinks  []VideoLinkInput `json:"video_links" validate:"dive"`
}

type CreateQuizItemInput struct {
	Question       string   `json:"question" validate:"required,min=3"`
	Options        []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswers []int    `json:"correct_answers" validate:"required,min=1,dive,gte=0"`
	Explanation    string   `json:"explanation"`
	OrderIndex     int      `json:"order_index"`
}

type CreateChecklistItemInput struct {
	Title      string `json:"title" validate:"required"`
	OrderIndex int    `json:"order_index"`
}

func CreateModule() fiber.Handler {
	return structValidator("validatedModule", func() any { return new(CreateModuleInput) })
}

func CreateStep() fiber.Handler {
	return structValidator("validatedStep", func() any { return new(CreateStepInput) })
}

func UpdateStep() fiber.Handler {
	return structValidator("validatedStepUpdate", func() any { return new(UpdateStepInput) })
}

func CreateQuizItem() fiber.Handler {
	return structValidator("validatedQuizItem", func() any { return new(CreateQuizItemInput) })
}

func CreateChecklistItem() fiber.Handler {
	return structValidator("validatedChecklistItem", func() any { return new(CreateChecklistItemInput) })
}

// structValidator parses the body into a fresh input struct, runs the tag
// rules and stores the result under key on success.
func structValidator(key string, newInput func() any) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := newInput()

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			invalid, ok := err.(validator.ValidationErrors)
			if !ok {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
			errors := make(map[string]string)
			for _, fe := range invalid {
				errors[strings.ToLower(fe.Field())] = fieldMessage(fe)
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(key, reqData)
		return c.Next()
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s characters or elements!", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s!", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL!", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid!", fe.Field())
	}
}
