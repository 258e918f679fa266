package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// EnsurePlayerID stores the caller's player ID in Locals("playerID"). The
// ID comes from the X-Player-ID header, or the playerId query parameter
// for websocket clients that cannot set headers.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}

		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals("playerID", playerID)
		return c.Next()
	}
}
