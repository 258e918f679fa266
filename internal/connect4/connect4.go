// Package connect4 holds the Connect-4 rules: gravity drops, four in a row
// in any direction, plus the one-ply tactics used before asking an agent.
package connect4

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

var ErrInvalidBoard = errors.New("invalid board")

// Player is 1 or 2; 0 marks an empty cell.
type Player int

const (
	None    Player = 0
	Player1 Player = 1
	Player2 Player = 2
)

func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Board is rows x cols, top row first.
type Board [][]Player

func (b Board) Rows() int { return len(b) }

func (b Board) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Validate requires at least 4x4, rectangular, cells 0/1/2.
func (b Board) Validate() error {
	if len(b) < 4 {
		return fmt.Errorf("%w: need at least 4 rows", ErrInvalidBoard)
	}
	cols := len(b[0])
	if cols < 4 {
		return fmt.Errorf("%w: need at least 4 columns", ErrInvalidBoard)
	}
	for r, row := range b {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(row), cols)
		}
		for c, v := range row {
			if v != None && v != Player1 && v != Player2 {
				return fmt.Errorf("%w: cell (%d,%d) = %d", ErrInvalidBoard, r, c, v)
			}
		}
	}
	return nil
}

func (b Board) Clone() Board {
	out := make(Board, len(b))
	for r := range b {
		out[r] = append([]Player(nil), b[r]...)
	}
	return out
}

// Grid renders one line of digits per row.
func (b Board) Grid() string {
	lines := make([]string, len(b))
	for r, row := range b {
		var sb strings.Builder
		for _, v := range row {
			sb.WriteByte(byte('0' + v))
		}
		lines[r] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// LegalColumns are the columns whose top cell is empty.
func (b Board) LegalColumns() []int {
	var legal []int
	for c := 0; c < b.Cols(); c++ {
		if b[0][c] == None {
			legal = append(legal, c)
		}
	}
	return legal
}

func (b Board) count(p Player) int {
	n := 0
	for _, row := range b {
		for _, v := range row {
			if v == p {
				n++
			}
		}
	}
	return n
}

// CurrentTurn: player 1 moves whenever both have the same number of discs.
func (b Board) CurrentTurn() Player {
	if b.count(Player1) == b.count(Player2) {
		return Player1
	}
	return Player2
}

var lines = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Winner returns the owner of a four-in-a-row, or None.
func (b Board) Winner() Player {
	rows, cols := b.Rows(), b.Cols()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := b[r][c]
			if v == None {
				continue
			}
			for _, d := range lines {
				k := 1
				for k < 4 {
					rr, cc := r+d[0]*k, c+d[1]*k
					if rr < 0 || rr >= rows || cc < 0 || cc >= cols || b[rr][cc] != v {
						break
					}
					k++
				}
				if k == 4 {
					return v
				}
			}
		}
	}
	return None
}

func (b Board) dropRow(col int) int {
	for r := b.Rows() - 1; r >= 0; r-- {
		if b[r][col] == None {
			return r
		}
	}
	return -1
}

// Apply drops a disc for p into col and returns the new board. ok is false
// when the column is full or out of range.
func (b Board) Apply(col int, p Player) (Board, bool) {
	if col < 0 || col >= b.Cols() {
		return nil, false
	}
	r := b.dropRow(col)
	if r < 0 {
		return nil, false
	}
	next := b.Clone()
	next[r][col] = p
	return next, true
}

// WinningColumns are the columns where p wins immediately.
func (b Board) WinningColumns(p Player) []int {
	var wins []int
	for _, c := range b.LegalColumns() {
		next, ok := b.Apply(c, p)
		if ok && next.Winner() == p {
			wins = append(wins, c)
		}
	}
	return wins
}

// UnsafeColumns are the columns after which p's opponent wins immediately.
func (b Board) UnsafeColumns(p Player) []int {
	var unsafe []int
	for _, c := range b.LegalColumns() {
		next, ok := b.Apply(c, p)
		if ok && len(next.WinningColumns(p.Opponent())) > 0 {
			unsafe = append(unsafe, c)
		}
	}
	return unsafe
}

// SortByCenter orders columns by distance from the middle column.
func SortByCenter(cols []int, totalCols int) []int {
	center := totalCols / 2
	out := append([]int(nil), cols...)
	slices.SortStableFunc(out, func(a, b int) int {
		return abs(a-center) - abs(b-center)
	})
	return out
}

// Candidates is what an agent may choose from: safe columns if any exist,
// otherwise every legal column, centre first.
func (b Board) Candidates(p Player) []int {
	legal := b.LegalColumns()
	unsafe := make(map[int]bool)
	for _, c := range b.UnsafeColumns(p) {
		unsafe[c] = true
	}
	var allowed []int
	for _, c := range legal {
		if !unsafe[c] {
			allowed = append(allowed, c)
		}
	}
	if len(allowed) == 0 {
		allowed = legal
	}
	return SortByCenter(allowed, b.Cols())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
