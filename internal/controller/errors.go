package controller

import (
	"errors"

	"github.com/benbeisheim/draughts-backend/internal/connect4"
	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/selection"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/benbeisheim/draughts-backend/internal/tictactoe"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrAlreadyQueued),
		errors.Is(err, service.ErrNotMatchmaking):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotInGame),
		errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrInvalidBoard),
		errors.Is(err, model.ErrInvalidSide),
		errors.Is(err, model.ErrInvalidMove),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, connect4.ErrInvalidBoard),
		errors.Is(err, tictactoe.ErrInvalidBoard),
		errors.Is(err, selection.ErrUnknownAgent),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrInvalidPlayer),
		errors.Is(err, service.ErrNoLegalMoves),
		errors.Is(err, service.ErrGameFinished):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// clientMessage is the short "error" text the game clients expect.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidBoard),
		errors.Is(err, connect4.ErrInvalidBoard),
		errors.Is(err, tictactoe.ErrInvalidBoard):
		return "Invalid board"
	case errors.Is(err, model.ErrInvalidSide), errors.Is(err, service.ErrInvalidPlayer):
		return "Invalid aiPlaysAs"
	case errors.Is(err, selection.ErrUnknownAgent):
		return "Invalid model"
	case errors.Is(err, service.ErrNoLegalMoves):
		return "No legal moves"
	case errors.Is(err, service.ErrGameFinished):
		return "Game already finished"
	}
	if statusFor(err) == fiber.StatusInternalServerError {
		return "Server error"
	}
	return err.Error()
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": clientMessage(err),
	})
}
