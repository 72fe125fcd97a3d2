package controllers

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/db"
	"urbanserve/middleware"
	"urbanserve/models"
	"urbanserve/utils"
)

// CreateBooking books a service for the authenticated customer.
func CreateBooking(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	input := new(models.BookingInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if appErr := utils.ValidateStruct(input); appErr != nil {
		return utils.RespondError(c, appErr)
	}

	booking, err := models.CreateBooking(db.DB, userID, *input)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetMyBookings lists the authenticated customer's bookings, newest first.
func GetMyBookings(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var bookings []models.Booking
	err := db.DB.
		Preload("Service").
		Preload("Provider.User").
		Order("created_at DESC").
		Where("customer_id = ?", userID).
		Find(&bookings).Error
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(bookings)
}

// GetProviderBookings lists bookings against the authenticated provider.
func GetProviderBookings(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var bookings []models.Booking
	err = db.DB.
		Preload("Service").
		Preload("Customer").
		Order("created_at DESC").
		Where("provider_id = ?", actor.ProviderID).
		Find(&bookings).Error
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(bookings)
}

// ListBookingsByStatus is the admin view over all bookings, optionally
// narrowed to one status.
func ListBookingsByStatus(c *fiber.Ctx) error {
	query := db.DB.
		Preload("Service").
		Preload("Customer").
		Preload("Provider.User").
		Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(bookings)
}

// GetBooking fetches one booking, role-scoped: customers and providers only
// see their own, admins see all.
func GetBooking(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var booking models.Booking
	err = db.DB.
		Preload("Service").
		Preload("Customer").
		Preload("Provider.User").
		First(&booking, c.Params("id")).Error
	if err != nil {
		return utils.RespondError(c, utils.NotFound("Booking not found"))
	}

	if !booking.CanView(actor) {
		return utils.RespondError(c, utils.Forbidden("Not authorized to view this booking"))
	}
	return c.JSON(booking)
}

// UpdateBookingStatus applies a state transition on behalf of the booking's
// provider (or an admin).
func UpdateBookingStatus(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	type statusInput struct {
		Status models.BookingStatus `json:"status" validate:"required"`
	}
	input := new(statusInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}
	if appErr := utils.ValidateStruct(input); appErr != nil {
		return utils.RespondError(c, appErr)
	}

	var booking models.Booking
	if err := db.DB.First(&booking, c.Params("id")).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Booking not found"))
	}

	if err := booking.Transition(db.DB, actor, input.Status); err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(booking)
}

// GetProviderStats returns the provider dashboard counters.
func GetProviderStats(c *fiber.Ctx) error {
	actor, err := middleware.CurrentActor(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	stats, err := models.ComputeProviderStats(db.DB, actor.ProviderID)
	if err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(stats)
}
