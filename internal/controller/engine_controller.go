package controller

import (
	"errors"

	"github.com/benbeisheim/draughts-backend/internal/connect4"
	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/benbeisheim/draughts-backend/internal/tictactoe"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EngineController serves the stateless rules endpoints. Nothing here needs
// a player ID.
type EngineController struct {
	engine *service.EngineService
	logger *zap.Logger
}

func NewEngineController(engine *service.EngineService, logger *zap.Logger) *EngineController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngineController{engine: engine, logger: logger}
}

// parseBody decodes the JSON body, reporting decode failures of the board
// as ErrInvalidBoard so clients get "Invalid board".
func parseBody(c *fiber.Ctx, out any, boardErr error) error {
	if err := c.BodyParser(out); err != nil {
		if errors.Is(err, boardErr) {
			return err
		}
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

func (ec *EngineController) fail(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	if statusFor(err) == fiber.StatusInternalServerError {
		ec.logger.Error("engine request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return respondError(c, err)
}

type checkersMovesRequest struct {
	Board *model.Board `json:"board"`
	Side  string       `json:"side"`
}

func (ec *EngineController) CheckersMoves(c *fiber.Ctx) error {
	var req checkersMovesRequest
	if err := parseBody(c, &req, model.ErrInvalidBoard); err != nil {
		return ec.fail(c, err)
	}
	if req.Board == nil {
		return ec.fail(c, model.ErrInvalidBoard)
	}
	side, err := model.ParseColor(req.Side)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid side"})
	}
	return c.JSON(fiber.Map{
		"moves": ec.engine.LegalMoves(*req.Board, side),
	})
}

type checkersApplyRequest struct {
	Board *model.Board `json:"board"`
	Move  *model.Move  `json:"move"`
}

func (ec *EngineController) CheckersApply(c *fiber.Ctx) error {
	var req checkersApplyRequest
	if err := parseBody(c, &req, model.ErrInvalidBoard); err != nil {
		return ec.fail(c, err)
	}
	if req.Board == nil {
		return ec.fail(c, model.ErrInvalidBoard)
	}
	if req.Move == nil {
		return ec.fail(c, fiber.NewError(fiber.StatusBadRequest, "move is required"))
	}
	next, err := ec.engine.Apply(*req.Board, *req.Move)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"board": next})
}

type aiMoveRequest[B any, S any] struct {
	Board     B      `json:"board"`
	AIPlaysAs S      `json:"aiPlaysAs"`
	Model     string `json:"model"`
}

func (ec *EngineController) CheckersAI(c *fiber.Ctx) error {
	var req aiMoveRequest[*model.Board, string]
	if err := parseBody(c, &req, model.ErrInvalidBoard); err != nil {
		return ec.fail(c, err)
	}
	if req.Board == nil {
		return ec.fail(c, model.ErrInvalidBoard)
	}
	side, err := model.ParseColor(req.AIPlaysAs)
	if err != nil {
		return ec.fail(c, err)
	}
	move, err := ec.engine.CheckersAIMove(c.UserContext(), *req.Board, side, req.Model)
	if errors.Is(err, service.ErrNoLegalMoves) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "No legal moves",
			"gameOver": true,
		})
	}
	if err != nil {
		return ec.fail(c, err)
	}
	return c.JSON(move)
}

func connect4Player(v any) connect4.Player {
	if n, ok := v.(float64); ok {
		switch n {
		case 1:
			return connect4.Player1
		case 2:
			return connect4.Player2
		}
	}
	return connect4.None
}

func (ec *EngineController) Connect4AI(c *fiber.Ctx) error {
	var req aiMoveRequest[connect4.Board, any]
	if err := c.BodyParser(&req); err != nil {
		// Only the board is strictly typed, so a decode failure means a bad board.
		return ec.fail(c, connect4.ErrInvalidBoard)
	}
	col, err := ec.engine.Connect4AIMove(c.UserContext(), req.Board, connect4Player(req.AIPlaysAs), req.Model)
	if errors.Is(err, service.ErrGameFinished) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Game already finished",
			"winner": req.Board.Winner(),
		})
	}
	if err != nil {
		return ec.fail(c, err)
	}
	return c.JSON(fiber.Map{"col": col})
}

func (ec *EngineController) TicTacToeAI(c *fiber.Ctx) error {
	var req aiMoveRequest[*tictactoe.Board, tictactoe.Mark]
	if err := parseBody(c, &req, tictactoe.ErrInvalidBoard); err != nil {
		return ec.fail(c, err)
	}
	if req.Board == nil {
		return ec.fail(c, tictactoe.ErrInvalidBoard)
	}
	cell, err := ec.engine.TicTacToeAIMove(c.UserContext(), *req.Board, req.AIPlaysAs, req.Model)
	if errors.Is(err, service.ErrGameFinished) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Game already finished",
			"winner": req.Board.Result(),
		})
	}
	if err != nil {
		return ec.fail(c, err)
	}
	return c.JSON(fiber.Map{"row": cell.Row, "col": cell.Col})
}

func (ec *EngineController) Agents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"agents": ec.engine.Agents()})
}

func (ec *EngineController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
