package routes

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/controllers"
	"urbanserve/middleware"
	"urbanserve/models"
)

// SetupServiceRoutes configures catalog and review routes
func SetupServiceRoutes(app *fiber.App) {
	service := app.Group("/services")

	service.Get("/", controllers.GetServices)
	service.Get("/featured", controllers.GetFeaturedServices)
	service.Get("/:id", controllers.GetService)
	service.Get("/:id/reviews", controllers.GetServiceReviews)

	service.Post("/", middleware.Protected(), middleware.RequireRoles(models.RoleProvider), controllers.CreateService)
	service.Put("/:id", middleware.Protected(), middleware.RequireRoles(models.RoleProvider), controllers.UpdateService)
	service.Post("/:id/image", middleware.Protected(), middleware.RequireRoles(models.RoleProvider), controllers.UploadServiceImage)
	service.Delete("/:id", middleware.Protected(), middleware.RequireRoles(models.RoleProvider, models.RoleAdmin), controllers.DeleteService)

	review := app.Group("/reviews", middleware.Protected())
	review.Post("/", middleware.RequireRoles(models.RoleCustomer), controllers.CreateReview)
	review.Get("/my", middleware.RequireRoles(models.RoleCustomer), controllers.GetMyReviews)
}
