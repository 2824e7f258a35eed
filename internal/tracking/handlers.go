package tracking

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, tracker *Tracker, ledger *Ledger, authMiddleware fiber.Handler) {
	r.Post("/start-session", authMiddleware, func(c *fiber.Ctx) error {
		if _, err := ledger.StartSession(c.Context()); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"message": "Session started successfully"})
	})

	r.Post("/end-session", authMiddleware, func(c *fiber.Ctx) error {
		if _, err := ledger.EndSession(c.Context()); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"message": "Session ended successfully"})
	})

	r.Get("/get-session", func(c *fiber.Ctx) error {
		summary, err := tracker.CurrentSummary(c.Context())
		if err != nil {
			return httpError(err)
		}
		return c.JSON(summary)
	})

	r.Post("/update-location", authMiddleware, func(c *fiber.Ctx) error {
		var req SampleInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Latitude and Longitude are required")
		}
		if _, err := tracker.RecordSample(c.Context(), req); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"message": "Location updated successfully"})
	})

	r.Get("/get-location", func(c *fiber.Ctx) error {
		sample, err := tracker.LatestLocation(c.Context())
		if err != nil {
			return httpError(err)
		}
		return c.JSON(sample)
	})

	r.Post("/wipe-data", authMiddleware, func(c *fiber.Ctx) error {
		var req WipeInput
		_ = c.BodyParser(&req)
		if err := tracker.WipeAll(c.Context(), req.Confirm); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"message": "Data wiped successfully"})
	})
}

func httpError(err error) error {
	switch KindOf(err) {
	case KindValidation, KindConflict, KindNoActiveSession:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("tracking: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
}
