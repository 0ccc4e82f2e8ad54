package adminRoutes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"plangen/config"
	controllers "plangen/controllers/admin"
	"plangen/middleware"
	validators "plangen/validators/admin"
)

// SetupAdminRoutes sets up the back-office content management routes
func SetupAdminRoutes(app *fiber.App, cfg *config.Config, db *gorm.DB, ctrl *controllers.AdminController) {
	group := app.Group("/api/admin", middleware.JWTMiddleware(cfg), middleware.AdminMiddleware(db))

	// Modules
	group.Post("/modules", validators.CreateModule(), ctrl.CreateModule)
	group.Get("/modules", ctrl.ListModules)
	group.Put("/modules/:moduleId", validators.CreateModule(), ctrl.UpdateModule)
	group.Delete("/modules/:moduleId", ctrl.DeleteModule)

	// Steps
	group.Post("/steps", validators.CreateStep(), ctrl.CreateStep)
	group.Put("/steps/:stepId", validators.UpdateStep(), ctrl.UpdateStep)
	group.Delete("/steps/:stepId", ctrl.DeleteStep)

	// Quiz items
	group.Post("/steps/:stepId/quiz", validators.CreateQuizItem(), ctrl.AddQuizItem)
	group.Put("/quiz/:quizId", validators.CreateQuizItem(), ctrl.UpdateQuizItem)
	group.Delete("/quiz/:quizId", ctrl.DeleteQuizItem)

	// Checklist items
	group.Post("/steps/:stepId/checklist", validators.CreateChecklistItem(), ctrl.AddChecklistItem)
	group.Put("/checklist/:itemId", validators.CreateChecklistItem(), ctrl.UpdateChecklistItem)
	group.Delete("/checklist/:itemId", ctrl.DeleteChecklistItem)

	// Integration settings and email check
	group.Put("/settings", ctrl.UpdateSettings)
	group.Post("/settings/test-email", ctrl.SendTestEmail)
}
