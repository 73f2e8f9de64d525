package middleware

import (
	"github.com/gofiber/fiber/v2"

	"learnio/backend/config"
	"learnio/backend/utils"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := utils.ExtractUIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		c.Locals("uid", uid)
		return c.Next()
	}
}
