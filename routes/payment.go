package routes

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/controllers"
	"urbanserve/middleware"
)

// SetupPaymentRoutes configures all payment related routes
func SetupPaymentRoutes(app *fiber.App) {
	payment := app.Group("/payment", middleware.Protected())
	payment.Post("/orders", controllers.CreateOrder)
	payment.Post("/verify", controllers.VerifyPayment)
}
