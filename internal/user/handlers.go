package user

import (
	"errors"

	"github.com/Aryasuta/Elliptical-Backend/internal/log"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	logger := log.WithComponent("user")

	r.Post("/", func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.CardID == "" || req.Name == "" || req.Weight == nil || req.Gender == "" {
			return fiber.NewError(fiber.StatusBadRequest, "cardId, name, weight and gender are required")
		}

		created, err := svc.Create(c.Context(), req)
		switch {
		case errors.Is(err, ErrInvalidUser), errors.Is(err, ErrInvalidWeight), errors.Is(err, ErrCardTaken):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			logger.Error().Err(err).Str(log.FieldCardID, req.CardID).Msg("register user failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Error registering user")
		}

		logger.Info().Str(log.FieldUserID, created.ID).Str(log.FieldCardID, created.CardID).Msg("user registered")
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User registered",
			"newUser": created,
		})
	})
}
