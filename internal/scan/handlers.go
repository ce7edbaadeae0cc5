package scan

import (
	"errors"

	"github.com/Aryasuta/Elliptical-Backend/internal/log"
	"github.com/Aryasuta/Elliptical-Backend/internal/observability"

	"github.com/gofiber/fiber/v2"
)

type scanRequest struct {
	CardID   string `json:"cardId"`
	DeviceID string `json:"deviceId"`
}

// RegisterRoutes mounts the card scan endpoints. Requests without a device id use defaultDevice.
func RegisterRoutes(r fiber.Router, marker Marker, defaultDevice string) {
	logger := log.WithComponent("scan")
	device := func(id string) string {
		if id == "" {
			return defaultDevice
		}
		return id
	}

	r.Post("/card", func(c *fiber.Ctx) error {
		var req scanRequest
		if err := c.BodyParser(&req); err != nil || req.CardID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Card ID is required")
		}
		deviceID := device(req.DeviceID)
		if err := marker.Set(c.Context(), deviceID, req.CardID); err != nil {
			logger.Error().Err(err).Str(log.FieldDeviceID, deviceID).Msg("store scanned card failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Error scanning card")
		}
		observability.RecordScan()
		logger.Info().Str(log.FieldCardID, req.CardID).Str(log.FieldDeviceID, deviceID).Msg("card detected")
		return c.JSON(fiber.Map{"cardId": req.CardID})
	})

	r.Get("/card", func(c *fiber.Ctx) error {
		cardID, err := marker.Get(c.Context(), device(c.Query("deviceId")))
		if errors.Is(err, ErrNoPendingCard) {
			return fiber.NewError(fiber.StatusNotFound, "No card scanned")
		}
		if err != nil {
			logger.Error().Err(err).Msg("read scanned card failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Error reading scanned card")
		}
		return c.JSON(fiber.Map{"cardId": cardID})
	})

	r.Delete("/card", func(c *fiber.Ctx) error {
		if err := marker.Clear(c.Context(), device(c.Query("deviceId"))); err != nil {
			logger.Error().Err(err).Msg("clear scanned card failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Error clearing scanned card")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
