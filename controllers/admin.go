package controllers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"urbanserve/db"
	"urbanserve/models"
	"urbanserve/utils"
)

// GetUsers lists platform users for moderation, paginated 10 per page.
// Admin accounts are excluded unless a role filter asks for them.
func GetUsers(c *fiber.Ctx) error {
	const pageSize = 10
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	query := db.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	} else {
		query = query.Where("role <> ?", models.RoleAdmin)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return utils.RespondError(c, err)
	}

	var users []models.User
	if err := query.Limit(pageSize).Offset(pageSize * (page - 1)).Find(&users).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"users": users,
		"page":  page,
		"pages": (int(count) + pageSize - 1) / pageSize,
		"total": count,
	})
}

// ApproveProvider flips the provider's approval gate and notifies them.
func ApproveProvider(c *fiber.Ctx) error {
	var provider models.Provider
	err := db.DB.Preload("User").Where("user_id = ?", c.Params("id")).First(&provider).Error
	if err != nil {
		return utils.RespondError(c, utils.NotFound("Provider not found"))
	}

	provider.IsApproved = true
	if err := db.DB.Save(&provider).Error; err != nil {
		return utils.RespondError(c, err)
	}

	go func(email, name string) {
		body := fmt.Sprintf("<p>Hi %s,</p><p>Your provider account has been approved. You can now log in and list your services.</p>", name)
		if err := utils.SendEmail(email, "Provider account approved", body); err != nil {
			log.Printf("Failed to send approval email to %s: %v", email, err)
		}
	}(provider.User.Email, provider.User.Name)

	return c.JSON(fiber.Map{
		"message":  "Provider approved successfully",
		"provider": provider,
	})
}

// DeleteUser removes a user account. Admin accounts cannot be deleted.
func DeleteUser(c *fiber.Ctx) error {
	var user models.User
	if err := db.DB.First(&user, c.Params("id")).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("User not found"))
	}
	if user.Role == models.RoleAdmin {
		return utils.RespondError(c, utils.Validation("Cannot delete an admin user"))
	}

	if user.Role == models.RoleProvider {
		db.DB.Where("user_id = ?", user.ID).Delete(&models.Provider{})
	}
	if err := db.DB.Delete(&user).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User removed successfully"})
}

// GetAdminStats returns platform-wide counters for the admin dashboard.
func GetAdminStats(c *fiber.Ctx) error {
	var totalCustomers, totalProviders, totalServices, totalBookings int64
	db.DB.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&totalCustomers)
	db.DB.Model(&models.Provider{}).Count(&totalProviders)
	db.DB.Model(&models.Service{}).Count(&totalServices)
	db.DB.Model(&models.Booking{}).Count(&totalBookings)

	var totalRevenue float64
	err := db.DB.Model(&models.Booking{}).
		Where("status = ? AND is_paid = ?", models.StatusCompleted, true).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue).Error
	if err != nil {
		return utils.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"total_users":     totalCustomers,
		"total_providers": totalProviders,
		"total_services":  totalServices,
		"total_bookings":  totalBookings,
		"total_revenue":   totalRevenue,
	})
}
