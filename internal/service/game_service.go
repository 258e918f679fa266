package service

import (
	"context"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/gofiber/websocket/v2"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame opens a session and, unless every seat belongs to an agent,
// seats the creator in the first free seat.
func (gs *GameService) CreateGame(playerID string, mode model.GameMode, blackAgent, whiteAgent string) (model.GameState, model.Color, error) {
	game, err := gs.gameManager.CreateGame(mode, blackAgent, whiteAgent)
	if err != nil {
		return model.GameState{}, "", err
	}
	var color model.Color
	if mode != model.ModeAIAI && playerID != "" {
		if color, err = game.AddPlayer(playerID); err != nil {
			return model.GameState{}, "", err
		}
	}
	return game.GetState(), color, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

// WaitForMatch blocks until playerID is paired or ctx ends. A match made
// while nobody was waiting is returned straight away. ok is false if no
// match arrived.
func (gs *GameService) WaitForMatch(ctx context.Context, playerID string) (model.MatchFoundEvent, bool) {
	ch := make(chan model.MatchFoundEvent, 1)
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)

	select {
	case event, ok := <-ch:
		return event, ok
	case <-ctx.Done():
	}
	// Once unregistered, a match either already sits in ch or is held by
	// the manager for the next wait.
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
	select {
	case event, ok := <-ch:
		return event, ok
	default:
		return model.MatchFoundEvent{}, false
	}
}

func (gs *GameService) LeaveMatchmaking(playerID string) error {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, moveIndex any) error {
	return gs.gameManager.MakeMove(gameID, playerID, moveIndex)
}

func (gs *GameService) HandleResign(gameID string, playerID string) error {
	return gs.gameManager.Resign(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) SendError(gameID string, playerID string, err error) {
	gs.gameManager.SendError(gameID, playerID, err)
}
