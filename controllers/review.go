package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"urbanserve/db"
	"urbanserve/models"
	"urbanserve/utils"
)

// CreateReview lets a customer review their own completed booking, once.
// The service aggregate rating is recomputed in the same transaction.
func CreateReview(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	input := new(models.ReviewInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if appErr := utils.ValidateStruct(input); appErr != nil {
		return utils.RespondError(c, appErr)
	}

	review, err := models.CreateReview(db.DB, userID, *input)
	if err != nil {
		return utils.RespondError(c, err)
	}

	invalidateFeaturedCache()
	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetServiceReviews lists a service's reviews, newest first, paginated.
func GetServiceReviews(c *fiber.Ctx) error {
	serviceID := c.Params("id")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var reviews []models.Review
	err := db.DB.
		Preload("Customer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, profile_picture, created_at")
		}).
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error
	if err != nil {
		return utils.RespondError(c, err)
	}

	var count int64
	db.DB.Model(&models.Review{}).Where("service_id = ?", serviceID).Count(&count)

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"total":   count,
		"page":    page,
		"limit":   limit,
		"pages":   (int(count) + limit - 1) / limit,
	})
}

// GetMyReviews returns the bookings the customer has already reviewed.
func GetMyReviews(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var reviews []models.Review
	err := db.DB.
		Select("id, booking_id, rating, created_at").
		Where("customer_id = ?", userID).
		Find(&reviews).Error
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(reviews)
}
