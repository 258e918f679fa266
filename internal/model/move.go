package model

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

var (
	ErrInvalidMove = errors.New("invalid move")
	ErrIllegalMove = errors.New("illegal move")
)

// Move is a quiet step or a full capture chain. Path holds every landing
// square in order; Captures holds the jumped pieces in the same order.
type Move struct {
	From     Coord   `json:"from"`
	Path     []Coord `json:"path"`
	Captures []Coord `json:"captures"`
	Promotes bool    `json:"promotes"`
}

func (m Move) IsCapture() bool {
	return len(m.Captures) > 0
}

// To is the final landing square.
func (m Move) To() Coord {
	if len(m.Path) == 0 {
		return m.From
	}
	return m.Path[len(m.Path)-1]
}

func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.Promotes == o.Promotes &&
		slices.Equal(m.Path, o.Path) && slices.Equal(m.Captures, o.Captures)
}

// Validate checks the shape of a move that came from outside the engine.
func (m Move) Validate() error {
	if !m.From.Inside() {
		return fmt.Errorf("%w: from %v is off the board", ErrInvalidMove, m.From)
	}
	if len(m.Path) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidMove)
	}
	for _, c := range m.Path {
		if !c.Inside() {
			return fmt.Errorf("%w: path square %v is off the board", ErrInvalidMove, c)
		}
	}
	if m.IsCapture() && len(m.Path) != len(m.Captures) {
		return fmt.Errorf("%w: %d landings for %d captures", ErrInvalidMove, len(m.Path), len(m.Captures))
	}
	if !m.IsCapture() && len(m.Path) != 1 {
		return fmt.Errorf("%w: quiet move with %d landings", ErrInvalidMove, len(m.Path))
	}
	seen := make(map[Coord]struct{}, len(m.Captures))
	for _, c := range m.Captures {
		if !c.Inside() {
			return fmt.Errorf("%w: captured square %v is off the board", ErrInvalidMove, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %v captured twice", ErrInvalidMove, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// FindMove returns the index of move in legal, or -1.
func FindMove(legal []Move, move Move) int {
	return slices.IndexFunc(legal, move.Equal)
}

// Choice is the compact form of a legal move handed to a move-selection
// agent.
type Choice struct {
	Idx      int     `json:"idx"`
	From     Coord   `json:"from"`
	To       Coord   `json:"to"`
	Jumps    int     `json:"jumps"`
	Promotes bool    `json:"promotes"`
	Path     []Coord `json:"path"`
}

func Choices(legal []Move) []Choice {
	out := make([]Choice, len(legal))
	for i, m := range legal {
		out[i] = Choice{
			Idx:      i,
			From:     m.From,
			To:       m.To(),
			Jumps:    len(m.Captures),
			Promotes: m.Promotes,
			Path:     m.Path,
		}
	}
	return out
}

// Ply is one recorded half-move of a game.
type Ply struct {
	Side  Color  `json:"side"`
	Index int    `json:"index"`
	Move  Move   `json:"move"`
	Agent string `json:"agent,omitempty"`
}
