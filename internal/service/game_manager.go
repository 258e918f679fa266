// service/game_manager.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/selection"
	"github.com/benbeisheim/draughts-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameExists     = errors.New("game already exists")
	ErrInvalidMode    = errors.New("invalid game mode")
	ErrNotMatchmaking = errors.New("player is not waiting for a match")
)

type ManagerOptions struct {
	// DefaultAgent takes AI seats the client left unnamed.
	DefaultAgent  string
	AutoplayDelay time.Duration
	MatchInterval time.Duration
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	pendingMatches   map[string]model.MatchFoundEvent // matches made while nobody was waiting
	selector         *selection.Selector
	opts             ManagerOptions
	logger           *zap.Logger
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	mu               sync.RWMutex
}

func NewGameManager(selector *selection.Selector, opts ManagerOptions, logger *zap.Logger) *GameManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MatchInterval <= 0 {
		opts.MatchInterval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		pendingMatches:   make(map[string]model.MatchFoundEvent),
		selector:         selector,
		opts:             opts,
		logger:           logger,
		ctx:              ctx,
		cancel:           cancel,
	}

	// Start matchmaking processor
	gm.wg.Add(1)
	go gm.processMatchmaking()

	return gm
}

// Shutdown stops matchmaking and every agent loop, and waits for them.
func (gm *GameManager) Shutdown() {
	gm.cancel()
	gm.wg.Wait()
}

// RegisterMatchmakingChannel replaces any channel the player registered
// before. The manager closes a channel once it has delivered a match. A
// match made before the player started listening is delivered at once.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	if event, ok := gm.pendingMatches[playerID]; ok {
		select {
		case ch <- event:
			delete(gm.pendingMatches, playerID)
			close(ch)
			return
		default:
		}
	}
	gm.matchingChannels[playerID] = ch
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

func (gm *GameManager) processMatchmaking() {
	defer gm.wg.Done()
	ticker := time.NewTicker(gm.opts.MatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.ctx.Done():
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers pairs everyone waiting, two at a time, into new games.
func (gm *GameManager) matchPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}
		gameID := uuid.New().String()
		game := model.NewGame(gameID, model.ModeHumanHuman, gm.logger)

		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			gm.logger.Error("failed to seat matched player", zap.String("player", player1.ID), zap.Error(err))
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			gm.logger.Error("failed to seat matched player", zap.String("player", player2.ID), zap.Error(err))
			continue
		}
		gm.games[gameID] = game
		gm.logger.Info("match found", zap.String("game", gameID),
			zap.String("black", player1.ID), zap.String("white", player2.ID))

		gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	}
}

// notifyMatch must be called with gm.mu held.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		gm.logger.Debug("matched player is not listening, holding match", zap.String("player", playerID))
		gm.pendingMatches[playerID] = event
		return
	}
	select {
	case ch <- event:
	default:
		gm.logger.Warn("match channel full, holding match", zap.String("player", playerID))
		gm.pendingMatches[playerID] = event
	}
	delete(gm.matchingChannels, playerID)
	close(ch)
}

// JoinMatchmaking queues the player and forgets any match they never
// collected.
func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.pendingMatches, playerID)
	gm.mu.Unlock()
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) LeaveMatchmaking(playerID string) error {
	if !gm.queue.Remove(playerID) {
		return ErrNotMatchmaking
	}
	return nil
}

func (gm *GameManager) resolveAgent(name string) (string, error) {
	if name == "" {
		name = gm.opts.DefaultAgent
	}
	if !gm.selector.Allowed(name) {
		return "", fmt.Errorf("%w: %q", selection.ErrUnknownAgent, name)
	}
	return name, nil
}

// CreateGame opens a session. In human-ai mode the agent takes White unless
// only blackAgent is given; ai-ai games start playing themselves at once.
func (gm *GameManager) CreateGame(mode model.GameMode, blackAgent, whiteAgent string) (*model.Game, error) {
	seats := map[model.Color]string{}
	switch mode {
	case model.ModeHumanHuman:
	case model.ModeHumanAI:
		if blackAgent != "" && whiteAgent == "" {
			seats[model.Black] = blackAgent
		} else {
			seats[model.White] = whiteAgent
		}
	case model.ModeAIAI:
		seats[model.Black] = blackAgent
		seats[model.White] = whiteAgent
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID, mode, gm.logger)
	for side, name := range seats {
		agent, err := gm.resolveAgent(name)
		if err != nil {
			return nil, err
		}
		if err := game.SetAgent(side, agent); err != nil {
			return nil, err
		}
	}

	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return nil, ErrGameExists
	}
	gm.games[gameID] = game
	gm.mu.Unlock()

	gm.logger.Info("game created", zap.String("game", gameID), zap.String("mode", string(mode)))
	gm.driveAgents(game)
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// MakeMove plays the move at rawIndex for playerID. The index is clamped to
// the legal list first, so any value resolves to some legal move.
func (gm *GameManager) MakeMove(gameID string, playerID string, rawIndex any) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	n := len(game.GetState().LegalMoves)
	if err := game.Play(playerID, selection.ResolveIndex(rawIndex, n)); err != nil {
		return err
	}
	gm.driveAgents(game)
	return nil
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

// driveAgents plays agent turns in the background for as long as an agent
// owns the side to move, pausing AutoplayDelay between plies.
func (gm *GameManager) driveAgents(game *model.Game) {
	if _, ok := game.AgentToMove(); !ok || gm.ctx.Err() != nil {
		return
	}
	gm.wg.Add(1)
	go func() {
		defer gm.wg.Done()
		for gm.playAgentTurn(gm.ctx, game) {
			if _, ok := game.AgentToMove(); !ok {
				return
			}
			select {
			case <-gm.ctx.Done():
				return
			case <-time.After(gm.opts.AutoplayDelay):
			}
		}
	}()
}

// playAgentTurn reports whether a ply was played.
func (gm *GameManager) playAgentTurn(ctx context.Context, game *model.Game) bool {
	if ctx.Err() != nil {
		return false
	}
	agent, ok := game.AgentToMove()
	if !ok {
		return false
	}
	state := game.GetState()
	idx := gm.selector.Select(ctx, agent, checkersRequest(state.Board, state.ToMove, state.LegalMoves))
	if ctx.Err() != nil {
		return false
	}
	if err := game.PlayAgent(idx); err != nil {
		gm.logger.Warn("agent ply rejected", zap.String("game", game.ID), zap.String("agent", agent), zap.Error(err))
		return false
	}
	return true
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gm *GameManager) SendError(gameID string, playerID string, cause error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Message: cause.Error()})
	if err != nil {
		return
	}
	if err := game.Send(playerID, msg); err != nil {
		gm.logger.Debug("failed to send error", zap.String("player", playerID), zap.Error(err))
	}
}
