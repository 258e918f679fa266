// Package tictactoe holds the 3x3 rules used by the tic-tac-toe AI route.
package tictactoe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidBoard = errors.New("invalid board")

// Mark is "X", "O" or "" for an empty cell (null on the wire).
type Mark string

const (
	None Mark = ""
	X    Mark = "X"
	O    Mark = "O"
)

func (m Mark) MarshalJSON() ([]byte, error) {
	if m == None {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

type Board [3][3]Mark

// UnmarshalJSON accepts exactly three rows of three cells, each "X", "O"
// or null.
func (b *Board) UnmarshalJSON(data []byte) error {
	var raw [][]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("%w: expected 3 rows, got %d", ErrInvalidBoard, len(raw))
	}
	var parsed Board
	for r, row := range raw {
		if len(row) != 3 {
			return fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, r, len(row))
		}
		for c, v := range row {
			if v == nil {
				continue
			}
			switch Mark(*v) {
			case X, O:
				parsed[r][c] = Mark(*v)
			default:
				return fmt.Errorf("%w: cell (%d,%d) = %q", ErrInvalidBoard, r, c, *v)
			}
		}
	}
	*b = parsed
	return nil
}

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Serialize is the row-major 9-char form with '.' for empty cells.
func (b Board) Serialize() string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if b[r][c] == None {
				sb.WriteByte('.')
			} else {
				sb.WriteString(string(b[r][c]))
			}
		}
	}
	return sb.String()
}

func (b Board) LegalMoves() []Cell {
	var moves []Cell
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if b[r][c] == None {
				moves = append(moves, Cell{Row: r, Col: c})
			}
		}
	}
	return moves
}

func (b Board) count(m Mark) int {
	n := 0
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if b[r][c] == m {
				n++
			}
		}
	}
	return n
}

// CurrentTurn: X moves whenever both have placed the same number of marks.
func (b Board) CurrentTurn() Mark {
	if b.count(X) == b.count(O) {
		return X
	}
	return O
}

var lines = [8][3]Cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Result is "X", "O", "draw", or "" while the game is still open.
func (b Board) Result() string {
	for _, l := range lines {
		a := b[l[0].Row][l[0].Col]
		if a != None && a == b[l[1].Row][l[1].Col] && a == b[l[2].Row][l[2].Col] {
			return string(a)
		}
	}
	if len(b.LegalMoves()) == 0 {
		return "draw"
	}
	return ""
}

func (b Board) Apply(cell Cell, m Mark) (Board, error) {
	if cell.Row < 0 || cell.Row > 2 || cell.Col < 0 || cell.Col > 2 {
		return b, fmt.Errorf("cell %+v is off the board", cell)
	}
	if b[cell.Row][cell.Col] != None {
		return b, fmt.Errorf("cell %+v is taken", cell)
	}
	b[cell.Row][cell.Col] = m
	return b, nil
}
