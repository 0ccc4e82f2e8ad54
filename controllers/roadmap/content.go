package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"plangen/middleware"
	"plangen/progress"
)

// GetStepContent returns a step's description parsed into structured
// directives plus its quiz and checklist definitions. Correct answer
// indexes never leave the server; grading happens in SubmitQuiz.
func (rc *RoadmapController) GetStepContent(c *fiber.Ctx) error {
	stepID, err := strconv.Atoi(c.Params("stepId"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid step ID!", nil)
	}

	step, err := rc.Store.StepByID(uint(stepID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Step not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load step!", nil)
	}

	quizItems, err := rc.Store.QuizItemsForStep(step.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load quiz items!", nil)
	}
	checklistItems, err := rc.Store.ChecklistItemsForStep(step.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not load checklist items!", nil)
	}

	directives := progress.ParseDirectives(step.Description, step.VideoLinks, quizItems, checklistItems)

	type quizView struct {
		ID         uint     `json:"id"`
		Question   string   `json:"question"`
		Options    []string `json:"options"`
		OrderIndex int      `json:"order_index"`
		Shortcode  string   `json:"shortcode"`
	}
	quizzes := make([]quizView, len(quizItems))
	for i, item := range quizItems {
		quizzes[i] = quizView{
			ID:         item.ID,
			Question:   item.Question,
			Options:    item.Options,
			OrderIndex: item.OrderIndex,
			Shortcode:  item.Shortcode,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Step content fetched successfully!", fiber.Map{
		"step": fiber.Map{
			"id":          step.ID,
			"title":       step.Title,
			"order_index": step.OrderIndex,
			"video_links": step.VideoLinks,
		},
		"directives": directives,
		"quiz_items": quizzes,
		"checklist":  checklistItems,
	})
}
