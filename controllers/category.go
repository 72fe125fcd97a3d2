package controllers

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/db"
	"urbanserve/models"
	"urbanserve/utils"
)

// GetCategories lists all service categories.
func GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := db.DB.Find(&categories).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(categories)
}

type categoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateCategory adds a category; admin only (enforced at the route).
func CreateCategory(c *fiber.Ctx) error {
	input := new(categoryInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if appErr := utils.ValidateStruct(input); appErr != nil {
		return utils.RespondError(c, appErr)
	}

	var existing models.Category
	if db.DB.Where("name = ?", input.Name).First(&existing).RowsAffected > 0 {
		return utils.RespondError(c, utils.Conflict("Category with this name already exists"))
	}

	category := models.Category{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := db.DB.Create(&category).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory edits a category's name/description/image.
func UpdateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := db.DB.First(&category, c.Params("id")).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Category not found"))
	}

	input := new(categoryInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	if input.Name != "" && input.Name != category.Name {
		var existing models.Category
		if db.DB.Where("name = ?", input.Name).First(&existing).RowsAffected > 0 {
			return utils.RespondError(c, utils.Conflict("Category with this name already exists"))
		}
		category.Name = input.Name
	}
	if input.Description != "" {
		category.Description = input.Description
	}

	if err := db.DB.Save(&category).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory removes a category. Deletion is restricted while services
// still reference it, so the catalog never holds orphans.
func DeleteCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := db.DB.First(&category, c.Params("id")).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Category not found"))
	}

	var inUse int64
	if err := db.DB.Model(&models.Service{}).Where("category_id = ?", category.ID).Count(&inUse).Error; err != nil {
		return utils.RespondError(c, err)
	}
	if inUse > 0 {
		return utils.RespondError(c, utils.Conflict("Category still has services; move or delete them first"))
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category removed"})
}

// UploadCategoryImage stores the category image and saves its URL.
func UploadCategoryImage(c *fiber.Ctx) error {
	var category models.Category
	if err := db.DB.First(&category, c.Params("id")).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Category not found"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.RespondError(c, utils.Validation("Image file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.RespondError(c, err)
	}
	defer file.Close()

	url, err := utils.UploadImage(file, "", "categoryPictures")
	if err != nil {
		return utils.RespondError(c, utils.External("Image upload failed"))
	}

	category.Image = url
	if err := db.DB.Save(&category).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"image": url})
}
