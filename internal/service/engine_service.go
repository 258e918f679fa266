package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbeisheim/draughts-backend/internal/connect4"
	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/selection"
	"github.com/benbeisheim/draughts-backend/internal/tictactoe"
	"go.uber.org/zap"
)

var (
	ErrNoLegalMoves  = errors.New("no legal moves")
	ErrGameFinished  = errors.New("game is already finished")
	ErrInvalidPlayer = errors.New("invalid player")
)

var checkersRules = []string{
	"Rules: International draughts on a 10x10 board. Captures are mandatory.",
	"Men move one square diagonally forward but capture in all four directions.",
	"Kings fly along diagonals and may land on any empty square beyond a captured piece.",
	"When several captures exist only the longest chains are legal; every listed move is already legal.",
	"Prefer moves that capture more pieces, then promotions, then moves that keep pieces safe.",
}

var connect4Rules = []string{
	"Rules: Connect-4. Pieces drop to the lowest empty cell of a column; four in a row wins.",
	"Every listed column is already safe from an immediate reply win when such columns exist.",
	"Prefer central columns and moves that build your own lines.",
}

var tictactoeRules = []string{
	"Rules: Tic-tac-toe on a 3x3 grid; three in a row wins.",
	"Win if you can, block the opponent's three if you must, prefer the centre, then corners.",
}

// EngineService runs the stateless rules operations and the one-shot AI
// move requests behind the REST API.
type EngineService struct {
	selector *selection.Selector
	logger   *zap.Logger
}

func NewEngineService(selector *selection.Selector, logger *zap.Logger) *EngineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngineService{selector: selector, logger: logger}
}

func (es *EngineService) Agents() []string {
	return es.selector.Agents()
}

func (es *EngineService) checkAgent(agent string) error {
	if !es.selector.Allowed(agent) {
		return fmt.Errorf("%w: %q", selection.ErrUnknownAgent, agent)
	}
	return nil
}

func (es *EngineService) LegalMoves(board model.Board, side model.Color) []model.Move {
	return model.GenerateAllMoves(board, side)
}

func (es *EngineService) Apply(board model.Board, move model.Move) (model.Board, error) {
	return model.ApplyLegal(board, move)
}

func checkersRequest(board model.Board, side model.Color, legal []model.Move) selection.Request {
	return selection.Request{
		Game:    "checkers",
		Rules:   checkersRules,
		Board:   board.ASCII(),
		Side:    side.Name(),
		Choices: model.Choices(legal),
		N:       len(legal),
	}
}

// CheckersAIMove asks agent to pick one of side's legal moves.
func (es *EngineService) CheckersAIMove(ctx context.Context, board model.Board, side model.Color, agent string) (model.Move, error) {
	if err := es.checkAgent(agent); err != nil {
		return model.Move{}, err
	}
	legal := model.GenerateAllMoves(board, side)
	if len(legal) == 0 {
		return model.Move{}, ErrNoLegalMoves
	}
	idx := es.selector.Select(ctx, agent, checkersRequest(board, side, legal))
	return legal[idx], nil
}

type connect4Choice struct {
	Idx int `json:"idx"`
	Col int `json:"col"`
}

// Connect4AIMove wins at once if it can, blocks the opponent's immediate
// win otherwise, and only then asks agent among the safe columns.
func (es *EngineService) Connect4AIMove(ctx context.Context, board connect4.Board, ai connect4.Player, agent string) (int, error) {
	if err := board.Validate(); err != nil {
		return 0, err
	}
	if ai != connect4.Player1 && ai != connect4.Player2 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPlayer, ai)
	}
	if err := es.checkAgent(agent); err != nil {
		return 0, err
	}
	legal := board.LegalColumns()
	if len(legal) == 0 {
		return 0, ErrNoLegalMoves
	}
	if board.Winner() != connect4.None {
		return 0, ErrGameFinished
	}
	if board.CurrentTurn() != ai {
		return legal[0], nil
	}
	if wins := connect4.SortByCenter(board.WinningColumns(ai), board.Cols()); len(wins) > 0 {
		return wins[0], nil
	}
	if blocks := connect4.SortByCenter(board.WinningColumns(ai.Opponent()), board.Cols()); len(blocks) > 0 {
		return blocks[0], nil
	}

	candidates := board.Candidates(ai)
	choices := make([]connect4Choice, len(candidates))
	for i, c := range candidates {
		choices[i] = connect4Choice{Idx: i, Col: c}
	}
	idx := es.selector.Select(ctx, agent, selection.Request{
		Game:    "connect4",
		Rules:   connect4Rules,
		Board:   board.Grid(),
		Side:    fmt.Sprintf("player %d", ai),
		Choices: choices,
		N:       len(choices),
	})
	return candidates[idx], nil
}

type tictactoeChoice struct {
	Idx int `json:"idx"`
	Row int `json:"row"`
	Col int `json:"col"`
}

func (es *EngineService) TicTacToeAIMove(ctx context.Context, board tictactoe.Board, ai tictactoe.Mark, agent string) (tictactoe.Cell, error) {
	if ai != tictactoe.X && ai != tictactoe.O {
		return tictactoe.Cell{}, fmt.Errorf("%w: %q", ErrInvalidPlayer, ai)
	}
	if err := es.checkAgent(agent); err != nil {
		return tictactoe.Cell{}, err
	}
	if board.Result() != "" {
		return tictactoe.Cell{}, ErrGameFinished
	}
	legal := board.LegalMoves()
	if board.CurrentTurn() != ai {
		return legal[0], nil
	}

	choices := make([]tictactoeChoice, len(legal))
	for i, c := range legal {
		choices[i] = tictactoeChoice{Idx: i, Row: c.Row, Col: c.Col}
	}
	idx := es.selector.Select(ctx, agent, selection.Request{
		Game:    "tic-tac-toe",
		Rules:   tictactoeRules,
		Board:   board.Serialize(),
		Side:    string(ai),
		Choices: choices,
		N:       len(choices),
	})
	return legal[idx], nil
}
