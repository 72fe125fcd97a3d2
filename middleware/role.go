package middleware

import (
	"github.com/gofiber/fiber/v2"

	"urbanserve/db"
	"urbanserve/models"
)

// RequireRoles lets the request through only when the authenticated role is
// in the given set. Applied uniformly before every state-mutating handler
// instead of ad-hoc per-field role checks.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, allowed := range roles {
			if models.Role(role) == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"kind":  "forbidden",
			"error": "You don't have permission to perform this action",
		})
	}
}

// CurrentActor builds the acting principal from locals, resolving the
// provider aggregate for provider-role users.
func CurrentActor(c *fiber.Ctx) (models.Actor, error) {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	actor := models.Actor{UserID: userID, Role: models.Role(role)}
	if actor.Role == models.RoleProvider {
		var provider models.Provider
		if err := db.DB.Where("user_id = ?", userID).First(&provider).Error; err != nil {
			return actor, err
		}
		actor.ProviderID = provider.ID
	}
	return actor, nil
}
