package routes

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/controllers"
	"urbanserve/middleware"
	"urbanserve/models"
)

// SetupBookingRoutes configures all booking related routes
func SetupBookingRoutes(app *fiber.App) {
	booking := app.Group("/bookings", middleware.Protected())

	booking.Post("/", middleware.RequireRoles(models.RoleCustomer), controllers.CreateBooking)
	booking.Get("/my", middleware.RequireRoles(models.RoleCustomer), controllers.GetMyBookings)
	booking.Get("/provider", middleware.RequireRoles(models.RoleProvider), controllers.GetProviderBookings)
	booking.Get("/provider/stats", middleware.RequireRoles(models.RoleProvider), controllers.GetProviderStats)
	booking.Get("/all", middleware.RequireRoles(models.RoleAdmin), controllers.ListBookingsByStatus)
	booking.Get("/:id", controllers.GetBooking)
	booking.Put("/:id/status", middleware.RequireRoles(models.RoleProvider, models.RoleAdmin), controllers.UpdateBookingStatus)
}
