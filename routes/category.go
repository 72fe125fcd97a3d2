package routes

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/controllers"
	"urbanserve/middleware"
	"urbanserve/models"
)

// SetupCategoryRoutes configures category routes; mutations are admin only
func SetupCategoryRoutes(app *fiber.App) {
	category := app.Group("/categories")

	category.Get("/", controllers.GetCategories)
	category.Post("/", middleware.Protected(), middleware.RequireRoles(models.RoleAdmin), controllers.CreateCategory)
	category.Put("/:id", middleware.Protected(), middleware.RequireRoles(models.RoleAdmin), controllers.UpdateCategory)
	category.Post("/:id/image", middleware.Protected(), middleware.RequireRoles(models.RoleAdmin), controllers.UploadCategoryImage)
	category.Delete("/:id", middleware.Protected(), middleware.RequireRoles(models.RoleAdmin), controllers.DeleteCategory)
}
