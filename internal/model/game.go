package model

import (
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/draughts-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameOver      = errors.New("game is over")
	ErrNotAgentTurn  = errors.New("side to move is not played by an agent")
	ErrNotAuthorized = errors.New("not authorized to join this game")
)

const (
	ReasonNoMoves = "no_moves"
	ReasonResign  = "resign"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.Mutex
}

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	connections *GameConnections
	blackClock  *Clock
	whiteClock  *Clock
	logger      *zap.Logger
}

type Result struct {
	Winner Color  `json:"winner"`
	Reason string `json:"reason"`
}

type Seats struct {
	Black ClientPlayer `json:"black"`
	White ClientPlayer `json:"white"`
}

func (s *Seats) seat(c Color) *ClientPlayer {
	if c == Black {
		return &s.Black
	}
	return &s.White
}

type TimeStats struct {
	Black TurnStats `json:"b"`
	White TurnStats `json:"w"`
}

type GameState struct {
	ID          string      `json:"id"`
	Mode        GameMode    `json:"mode"`
	Board       Board       `json:"board"`
	ToMove      Color       `json:"toMove"`
	LegalMoves  []Move      `json:"legalMoves"`
	MoveHistory []Ply       `json:"moveHistory"`
	Pieces      PieceCounts `json:"pieces"`
	Players     Seats       `json:"players"`
	TimeStats   TimeStats   `json:"timeStats"`
	Resolve     *Result     `json:"resolve"`  // nil while the game is running
	LastMove    *Move       `json:"lastMove"` // nil before the first ply
}

func NewGame(id string, mode GameMode, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	board := NewBoard()
	g := &Game{
		ID: id,
		state: GameState{
			ID:          id,
			Mode:        mode,
			Board:       board,
			ToMove:      Black,
			LegalMoves:  GenerateAllMoves(board, Black),
			MoveHistory: make([]Ply, 0),
			Pieces:      board.Count(),
			Players: Seats{
				Black: ClientPlayer{Color: Black},
				White: ClientPlayer{Color: White},
			},
		},
		connections: NewGameConnections(),
		blackClock:  NewClock(),
		whiteClock:  NewClock(),
		logger:      logger.With(zap.String("game", id)),
	}
	g.blackClock.Start()
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func (g *Game) clock(c Color) *Clock {
	if c == Black {
		return g.blackClock
	}
	return g.whiteClock
}

// SetAgent hands a seat to a move-selection agent.
func (g *Game) SetAgent(side Color, agent string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat := g.state.Players.seat(side)
	if seat.ID != "" {
		return ErrGameFull
	}
	seat.Agent = agent
	return nil
}

// AddPlayer seats a person in the first free seat, Black first. A player
// already seated gets their color back.
func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.playerColor(playerID); ok {
		return c, nil
	}
	for _, c := range []Color{Black, White} {
		seat := g.state.Players.seat(c)
		if !seat.taken() {
			seat.ID = playerID
			g.logger.Info("player seated", zap.String("player", playerID), zap.String("color", c.Name()))
			return c, nil
		}
	}
	return "", ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	s := g.state
	s.TimeStats = TimeStats{Black: g.blackClock.Stats(), White: g.whiteClock.Stats()}
	return s
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.playerColor(playerID)
	return ok
}

func (g *Game) playerColor(playerID string) (Color, bool) {
	if playerID == "" {
		return "", false
	}
	if g.state.Players.Black.ID == playerID {
		return Black, true
	}
	if g.state.Players.White.ID == playerID {
		return White, true
	}
	return "", false
}

// CanSpectate reports whether a stranger may still watch or take a seat.
func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return !g.state.Players.Black.taken() || !g.state.Players.White.taken() || g.state.Mode == ModeAIAI
}

// AgentToMove names the agent owning the side to move, if any.
func (g *Game) AgentToMove() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return "", false
	}
	agent := g.state.Players.seat(g.state.ToMove).Agent
	return agent, agent != ""
}

func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Resolve != nil
}

// Play applies the move at index in the current legal list on behalf of a
// seated person.
func (g *Game) Play(playerID string, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	color, ok := g.playerColor(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.state.ToMove {
		return ErrNotYourTurn
	}
	return g.playIndex(index, "")
}

// PlayAgent applies the move chosen by the agent owning the side to move.
func (g *Game) PlayAgent(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	agent := g.state.Players.seat(g.state.ToMove).Agent
	if agent == "" {
		return ErrNotAgentTurn
	}
	return g.playIndex(index, agent)
}

func (g *Game) playIndex(index int, agent string) error {
	legal := g.state.LegalMoves
	if index < 0 || index >= len(legal) {
		return fmt.Errorf("%w: index %d of %d", ErrIllegalMove, index, len(legal))
	}
	move := legal[index]
	mover := g.state.ToMove

	g.clock(mover).Stop()
	g.state.Board = Apply(g.state.Board, move)
	g.state.Pieces = g.state.Board.Count()
	g.state.MoveHistory = append(g.state.MoveHistory, Ply{
		Side:  mover,
		Index: index,
		Move:  move,
		Agent: agent,
	})
	g.state.LastMove = &move

	g.state.ToMove = mover.Opponent()
	g.state.LegalMoves = GenerateAllMoves(g.state.Board, g.state.ToMove)
	if len(g.state.LegalMoves) == 0 {
		g.state.Resolve = &Result{Winner: mover, Reason: ReasonNoMoves}
		g.logger.Info("game over", zap.String("winner", mover.Name()), zap.String("reason", ReasonNoMoves))
	} else {
		g.clock(g.state.ToMove).Start()
	}

	go g.broadcastState(g.snapshot())
	return nil
}

func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return ErrGameOver
	}
	color, ok := g.playerColor(playerID)
	if !ok {
		return ErrNotInGame
	}
	g.clock(g.state.ToMove).Stop()
	g.state.Resolve = &Result{Winner: color.Opponent(), Reason: ReasonResign}
	g.logger.Info("player resigned", zap.String("player", playerID), zap.String("color", color.Name()))

	go g.broadcastState(g.snapshot())
	return nil
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	_, seated := g.playerColor(playerID)
	isAuthorized := seated || g.canSpectate()
	state := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the healthy connection and turn the newcomer away.
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	g.logger.Debug("connection registered", zap.String("player", playerID))

	go g.broadcastState(state)
	return nil
}

// UnregisterConnection drops playerID's connection, but only if it is still
// conn. A rejected duplicate must not evict the live one.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		g.logger.Debug("connection unregistered", zap.String("player", playerID))
	}
}

// Send writes one message to a single player's connection. Writes share
// the connections lock with broadcasts so frames never interleave.
func (g *Game) Send(playerID string, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	conn, ok := g.connections.connections[playerID]
	if !ok {
		return ErrNotInGame
	}
	return conn.WriteJSON(msg)
}

func (g *Game) broadcastState(state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		g.logger.Error("failed to marshal state", zap.Error(err))
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			g.logger.Warn("failed to send state", zap.String("player", playerID), zap.Error(err))
			delete(g.connections.connections, playerID)
		}
	}
}
