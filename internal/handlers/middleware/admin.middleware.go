package middleware

import (
	"github.com/gofiber/fiber/v2"
)

func (m *Middleware) RequireSuperuser() fiber.Handler {
	log := m.log.Function("RequireSuperuser")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			log.Info("user not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !user.IsSuperuser {
			log.Info("user is not superuser", "userID", user.ID, "username", user.Username)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Administrator access required",
			})
		}

		return c.Next()
	}
}

// RequireStaff admits staff and superusers.
func (m *Middleware) RequireStaff() fiber.Handler {
	log := m.log.Function("RequireStaff")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			log.Info("user not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !user.CanSeeAllConversations() {
			log.Info("user is not staff", "userID", user.ID, "username", user.Username)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Staff access required",
			})
		}

		return c.Next()
	}
}
