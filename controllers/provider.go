package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"urbanserve/db"
	"urbanserve/models"
	"urbanserve/utils"
)

// GetProviderProfile returns the authenticated provider's business profile.
func GetProviderProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var provider models.Provider
	if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&provider).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Provider profile not found"))
	}
	return c.JSON(provider)
}

type providerUpdateInput struct {
	CompanyName  string          `json:"company_name"`
	Description  string          `json:"description"`
	Availability string          `json:"availability"`
	Schedule     models.Schedule `json:"schedule"`
	Longitude    *float64        `json:"longitude"`
	Latitude     *float64        `json:"latitude"`
}

// UpdateProviderProfile edits the business profile, availability and
// location of the authenticated provider.
func UpdateProviderProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var provider models.Provider
	if err := db.DB.Where("user_id = ?", userID).First(&provider).Error; err != nil {
		return utils.RespondError(c, utils.NotFound("Provider profile not found"))
	}

	input := new(providerUpdateInput)
	if err := c.BodyParser(input); err != nil {
		return utils.RespondError(c, utils.Validation("Cannot parse JSON"))
	}

	if input.CompanyName != "" {
		provider.CompanyName = input.CompanyName
	}
	if input.Description != "" {
		provider.Description = input.Description
	}
	if input.Availability != "" {
		provider.Availability = input.Availability
	}
	if input.Schedule != nil {
		provider.Schedule = input.Schedule
	}
	if input.Longitude != nil {
		provider.Longitude = *input.Longitude
	}
	if input.Latitude != nil {
		provider.Latitude = *input.Latitude
	}

	if err := db.DB.Save(&provider).Error; err != nil {
		return utils.RespondError(c, err)
	}
	return c.JSON(provider)
}

// GetNearbyProviders is the public discovery endpoint: approved providers
// within radius_km of (lng, lat), closest first.
func GetNearbyProviders(c *fiber.Ctx) error {
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	if errLng != nil || errLat != nil {
		return utils.RespondError(c, utils.Validation("lng and lat query parameters are required"))
	}
	radius, err := strconv.ParseFloat(c.Query("radius_km", "25"), 64)
	if err != nil || radius <= 0 {
		return utils.RespondError(c, utils.Validation("radius_km must be a positive number"))
	}

	providers, distances, err := models.ProvidersNear(db.DB, lng, lat, radius)
	if err != nil {
		return utils.RespondError(c, err)
	}

	type nearbyProvider struct {
		models.Provider
		DistanceKM float64 `json:"distance_km"`
	}
	results := make([]nearbyProvider, 0, len(providers))
	for i := range providers {
		results = append(results, nearbyProvider{Provider: providers[i], DistanceKM: distances[i]})
	}
	return c.JSON(results)
}
