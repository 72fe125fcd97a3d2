package routes

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/controllers"
	"urbanserve/middleware"
	"urbanserve/models"
)

// SetupProviderRoutes configures provider profile and discovery routes
func SetupProviderRoutes(app *fiber.App) {
	provider := app.Group("/providers")

	provider.Get("/nearby", controllers.GetNearbyProviders)
	provider.Get("/me", middleware.Protected(), middleware.RequireRoles(models.RoleProvider), controllers.GetProviderProfile)
	provider.Patch("/me", middleware.Protected(), middleware.RequireRoles(models.RoleProvider), controllers.UpdateProviderProfile)
}
