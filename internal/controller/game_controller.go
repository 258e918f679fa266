package controller

import (
	"context"
	"time"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

const defaultMatchWait = 30 * time.Second

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	Mode       string `json:"mode"`
	BlackAgent string `json:"blackAgent"`
	WhiteAgent string `json:"whiteAgent"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}
	mode, ok := model.ParseMode(req.Mode)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid mode",
		})
	}

	state, color, err := gc.gameService.CreateGame(playerID, mode, req.BlackAgent, req.WhiteAgent)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"gameId":  state.ID,
		"color":   color,
		"state":   state,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.LeaveMatchmaking(playerID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "left",
	})
}

// WaitForMatch long-polls until the player is paired or the wait runs out.
// The wait is taken from ?timeout= (a Go duration), default 30s.
func (gc *GameController) WaitForMatch(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	wait := defaultMatchWait
	if raw := c.Query("timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid timeout",
			})
		}
		wait = d
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), wait)
	defer cancel()
	event, ok := gc.gameService.WaitForMatch(ctx, playerID)
	if !ok {
		return c.JSON(fiber.Map{
			"status": "waiting",
		})
	}
	return c.JSON(fiber.Map{
		"status": "matched",
		"gameId": event.GameID,
		"color":  event.Color,
	})
}
