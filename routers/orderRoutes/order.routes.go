package orderRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "plangen/controllers/orders"
)

// SetupOrderRoutes sets up the payment-side endpoints. The webhook is
// authenticated by signature, not JWT, so both routes stay outside the
// auth middleware.
func SetupOrderRoutes(app *fiber.App, ctrl *controllers.OrderController) {
	group := app.Group("/api/orders")

	group.Post("/stripe/webhook", ctrl.StripeWebhook)
	group.Get("/validate", ctrl.ValidateOrder)
}
