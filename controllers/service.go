package controllers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"urbanserve/db"
	"urbanserve/middleware"
	"urbanserve/models"
	"urbanserve/redis"
	"urbanserve/utils"
)

const featuredCacheKey = "services:featured"

// GetServices lists the catalog with keyword/category/provider filters
// combined with AND semantics, paginated.
func GetServices(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "8"))
	categoryID, _ := strconv.Atoi(c.Query("category", "0"))
	providerID, _ := strconv.Atoi(c.Query("provider", "0"))

	result, err := models.ListServices(db.DB, models.ServiceFilter{
		Keyword:    c.Query("keyword"),
		CategoryID: uint(categoryID),
		ProviderID: uint(providerID),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(result)
}

// GetFeaturedServices returns the top-rated services, cached for 5 minutes.
func GetFeaturedServices(c *fiber.Ctx) error {
	if redis.Client != nil {
		if cached, err := redis.Client.Get(redis.Ctx, featuredCacheKey).Result(); err == nil {
			c.Set("Content-Type", "application/json")
			return c.SendString(cached)
		}
	}

	services, err := models.FeaturedServices(db.DB)
	if err != nil {
		return utils.RespondError(c, err)
	}

	if redis.Client != nil {
		if payload, err := json.Marshal(services); err == nil {
			redis.Client.Set(redis.Ctx, featuredCacheKey, payload, 5*time.Minute)
		}
	}
	return c.JSON(services)
}

func invalidateFeaturedCache() {
	if redis.Client != nil {
		redis.Client.Del(redis.Ctx, featuredCacheKey)
	}
}

// GetService returns one service together with its reviews.
func GetService(c *fiber.Ctx) error {
	var service models.Service
	err := db.DB.
		Preload("Category").
		Preload("Provider.User").
		First(&service, c.Params("id")).Error
	if err != nil {
		return utils.RespondError(c, utils.NotFound("Service not found"))
	}

	var reviews []models.Review
	db.DB.Preload("Customer").Where("service_id = ?", service.ID).Order("created_at DESC").Find(&reviews)

	return c.JSON(fiber.Map{
		"service": service,
		"reviews": reviews,
	})
}

type serviceInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	PriceType   string  `json:"price_type"`
	CategoryID  uint    `json:"category_id" validate:"required"`
}

// CreateService adds a new offering owned by the authenticated provider.
func CreateService(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	input := new(serviceInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if appErr := utils.ValidateStruct(input); appErr != nil {
		return utils.RespondError(c, appErr)
	}

	var category models.Category
	if err := db.DB.First(&category, input.CategoryID).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Category not found"))
	}

	service := models.Service{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		PriceType:   input.PriceType,
		CategoryID:  category.ID,
		ProviderID:  actor.ProviderID,
	}
	if err := db.DB.Create(&service).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// UpdateService edits a service; only the owning provider may.
func UpdateService(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var service models.Service
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Service not found"))
	}
	if service.ProviderID != actor.ProviderID {
		return utils.RespondError(c, utils.Forbidden("Not authorized to update this service"))
	}

	input := new(serviceInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	if input.Name != "" {
		service.Name = input.Name
	}
	if input.Description != "" {
		service.Description = input.Description
	}
	if input.Price > 0 {
		service.Price = input.Price
	}
	if input.PriceType != "" {
		service.PriceType = input.PriceType
	}
	if input.CategoryID != 0 {
		var category models.Category
		if err := db.DB.First(&category, input.CategoryID).Error; err != nil {
			return utils.RespondError(c, utils.NotFound("Category not found"))
		}
		service.CategoryID = category.ID
	}

	if err := db.DB.Save(&service).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(service)
}

// DeleteService removes a service; the owning provider or an admin may.
func DeleteService(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var service models.Service
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Service not found"))
	}
	if actor.Role != models.RoleAdmin && service.ProviderID != actor.ProviderID {
		return utils.RespondError(c, utils.Forbidden("Not authorized to delete this service"))
	}

	if err := db.DB.Delete(&service).Error; err != nil {
		return utils.RespondError(c, err)
	}
	invalidateFeaturedCache()
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadServiceImage stores the service image and saves its URL.
func UploadServiceImage(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var service models.Service
	if err := db.DB.First(&service, c.Params("id")).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Service not found"))
	}
	if service.ProviderID != actor.ProviderID {
		return utils.RespondError(c, utils.Forbidden("Not authorized to update this service"))
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

	url, err := utils.UploadImage(file, "", "servicePictures")
	if err != nil {
		return utils.RespondError(c, utils.External("Image upload failed"))
	}

	service.Image = url
	if err := db.DB.Save(&service).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"image": url})
}
