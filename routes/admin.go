package routes

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/controllers"
	"urbanserve/middleware"
	"urbanserve/models"
)

// SetupAdminRoutes configures moderation and platform stats routes
func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.Protected(), middleware.RequireRoles(models.RoleAdmin))

	admin.Get("/users", controllers.GetUsers)
	admin.Delete("/users/:id", controllers.DeleteUser)
	admin.Put("/providers/:id/approve", controllers.ApproveProvider)
	admin.Get("/stats", controllers.GetAdminStats)
}
