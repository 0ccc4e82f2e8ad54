package roadmapRoutes

import (
	"github.com/gofiber/fiber/v2"

	"plangen/config"
	controllers "plangen/controllers/roadmap"
	"plangen/middleware"
	validators "plangen/validators/roadmap"
)

// SetupRoadmapRoutes sets up all learner-facing roadmap routes
func SetupRoadmapRoutes(app *fiber.App, cfg *config.Config, ctrl *controllers.RoadmapController) {
	group := app.Group("/api/roadmap", middleware.JWTMiddleware(cfg))

	// Interest-area enrollments
	group.Post("/dashboards", ctrl.CreateDashboard)
	group.Get("/dashboards", ctrl.ListDashboards)

	// Step listing with merged progress and pagination
	group.Get("/:moduleId/steps", ctrl.GetSteps)

	// Step content with resolved shortcode directives
	group.Get("/steps/:stepId/content", ctrl.GetStepContent)

	// Status transitions
	group.Put("/steps/:stepId/status", validators.StepStatus(), ctrl.SetStepStatus)

	// Quiz submission and stored results
	group.Post("/steps/:stepId/quiz", validators.SubmitQuiz(), ctrl.SubmitQuiz)
	group.Get("/steps/:stepId/quiz", ctrl.GetQuizResult)

	// Checklist
	group.Get("/steps/:stepId/checklist", ctrl.GetChecklist)
	group.Put("/checklist/:itemId", validators.ToggleChecklist(), ctrl.ToggleChecklist)

	// Change feed for concurrent edits (other tabs/devices)
	group.Get("/stream", ctrl.Stream)
}
