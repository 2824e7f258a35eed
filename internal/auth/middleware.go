package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderAPIKey     = "x-api-key"
	forbiddenMessage = "Forbidden: Invalid API Key"
)

// APIKeyMiddleware admits requests whose x-api-key header matches the
// configured key. An empty configured key rejects everything.
func APIKeyMiddleware(expected string) fiber.Handler {
	expectedBytes := []byte(expected)
	return func(c *fiber.Ctx) error {
		if !VerifyAPIKey(c.Get(HeaderAPIKey), expectedBytes) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": forbiddenMessage})
		}
		return c.Next()
	}
}

// VerifyAPIKey compares in constant time.
func VerifyAPIKey(provided string, expected []byte) bool {
	if len(provided) == 0 || len(expected) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), expected) == 1
}
