package session

import (
	"errors"

	"github.com/Aryasuta/Elliptical-Backend/internal/log"
	"github.com/Aryasuta/Elliptical-Backend/internal/user"

	"github.com/gofiber/fiber/v2"
)

type cardRequest struct {
	CardID string `json:"cardId"`
}

type endRequest struct {
	CardID    string `json:"cardId"`
	TickCount *int64 `json:"tickCount"`
	DeviceID  string `json:"deviceId"`
}

func RegisterRoutes(r fiber.Router, m *Manager) {
	logger := log.WithComponent("session")

	r.Post("/start", func(c *fiber.Ctx) error {
		var req cardRequest
		if err := c.BodyParser(&req); err != nil || req.CardID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "cardId is required")
		}

		sess, err := m.StartSession(c.Context(), req.CardID)
		var conflict *ConflictError
		switch {
		case errors.As(err, &conflict):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message":   "Previous session has not finished",
				"sessionId": conflict.Existing.ID,
				"startTime": conflict.Existing.StartTime,
			})
		case errors.Is(err, user.ErrUserNotFound):
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		case errors.Is(err, ErrActiveSessionExists):
			return fiber.NewError(fiber.StatusBadRequest, "Previous session has not finished")
		case err != nil:
			logger.Error().Err(err).Str(log.FieldCardID, req.CardID).Msg("start session failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Error starting session")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":   "Session started",
			"sessionId": sess.ID,
			"startTime": sess.StartTime,
		})
	})

	r.Post("/end", func(c *fiber.Ctx) error {
		var req endRequest
		if err := c.BodyParser(&req); err != nil || req.CardID == "" || req.TickCount == nil {
			return fiber.NewError(fiber.StatusBadRequest, "cardId and tickCount are required")
		}

		sess, err := m.EndSession(c.Context(), EndRequest{CardID: req.CardID, DeviceID: req.DeviceID, TickCount: *req.TickCount})
		switch {
		case errors.Is(err, ErrInvalidTickCount):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrUserNotFound):
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		case errors.Is(err, ErrNoActiveSession):
			return fiber.NewError(fiber.StatusNotFound, "No active session found")
		case err != nil:
			logger.Error().Err(err).Str(log.FieldCardID, req.CardID).Msg("end session failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Error ending session")
		}

		view := sess.Rounded()
		return c.JSON(fiber.Map{
			"message":   "Session ended",
			"sessionId": view.ID,
			"tickCount": view.TickCount,
			"distance":  view.Distance,
			"calories":  view.Calories,
			"avgSpeed":  view.AvgSpeed,
			"startTime": view.StartTime,
			"endTime":   view.EndTime,
		})
	})

	r.Post("/check-user", func(c *fiber.Ctx) error {
		var req cardRequest
		if err := c.BodyParser(&req); err != nil || req.CardID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "cardId is required")
		}
		exists, err := m.CheckUserExists(c.Context(), req.CardID)
		if err != nil {
			logger.Error().Err(err).Str(log.FieldCardID, req.CardID).Msg("check user failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Error checking user existence")
		}
		return c.JSON(fiber.Map{"userExists": exists})
	})

	r.Get("/:cardId", func(c *fiber.Ctx) error {
		cardID := c.Params("cardId")
		sessions, err := m.History(c.Context(), cardID)
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		case err != nil:
			logger.Error().Err(err).Str(log.FieldCardID, cardID).Msg("session history failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Error fetching session history")
		}

		views := make([]Session, 0, len(sessions))
		for _, s := range sessions {
			views = append(views, s.Rounded())
		}
		return c.JSON(fiber.Map{"cardId": cardID, "sessions": views})
	})
}
