package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const BoardSize = 10

var (
	ErrInvalidBoard = errors.New("invalid board")
	ErrInvalidSide  = errors.New("invalid side")
)

type Color string

const (
	Black Color = "b"
	White Color = "w"
)

// ParseColor accepts the short wire codes and the long names.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return Black, nil
	case "w", "white":
		return White, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) Name() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// forward is the row delta a man of this color advances by.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// farRow is the promotion row.
func (c Color) farRow() int {
	if c == White {
		return BoardSize - 1
	}
	return 0
}

type PieceKind int

const (
	Man PieceKind = iota
	King
)

// Cell is one square. The zero value is an empty square.
type Cell byte

const (
	Empty     Cell = 0
	BlackMan  Cell = 'b'
	WhiteMan  Cell = 'w'
	BlackKing Cell = 'B'
	WhiteKing Cell = 'W'
)

func MakeCell(color Color, kind PieceKind) Cell {
	switch {
	case color == Black && kind == King:
		return BlackKing
	case color == Black:
		return BlackMan
	case kind == King:
		return WhiteKing
	default:
		return WhiteMan
	}
}

func (c Cell) IsEmpty() bool { return c == Empty }

func (c Cell) Color() (Color, bool) {
	switch c {
	case BlackMan, BlackKing:
		return Black, true
	case WhiteMan, WhiteKing:
		return White, true
	}
	return "", false
}

func (c Cell) Kind() PieceKind {
	if c == BlackKing || c == WhiteKing {
		return King
	}
	return Man
}

func (c Cell) belongsTo(side Color) bool {
	color, ok := c.Color()
	return ok && color == side
}

func (c Cell) promoted() Cell {
	switch c {
	case BlackMan:
		return BlackKing
	case WhiteMan:
		return WhiteKing
	}
	return c
}

func (c Cell) MarshalJSON() ([]byte, error) {
	if c == Empty {
		return []byte("0"), nil
	}
	return json.Marshal(string(rune(c)))
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cell, err := parseCell(raw)
	if err != nil {
		return err
	}
	*c = cell
	return nil
}

func parseCell(raw any) (Cell, error) {
	switch v := raw.(type) {
	case float64:
		if v == 0 {
			return Empty, nil
		}
	case int:
		if v == 0 {
			return Empty, nil
		}
	case string:
		if len(v) == 1 {
			switch c := Cell(v[0]); c {
			case BlackMan, WhiteMan, BlackKing, WhiteKing:
				return c, nil
			}
		}
	case Cell:
		switch v {
		case Empty, BlackMan, WhiteMan, BlackKing, WhiteKing:
			return v, nil
		}
	}
	return Empty, fmt.Errorf("%w: unknown cell code %v", ErrInvalidBoard, raw)
}

type Coord struct {
	R int `json:"r"`
	C int `json:"c"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.R, c.C)
}

func (c Coord) add(dr, dc int) Coord {
	return Coord{R: c.R + dr, C: c.C + dc}
}

func (c Coord) Inside() bool {
	return c.R >= 0 && c.R < BoardSize && c.C >= 0 && c.C < BoardSize
}

// Board is row-major, row 0 at the top. Being an array, assigning a Board
// copies it.
type Board [BoardSize][BoardSize]Cell

// NewBoard returns the starting position: white men on the dark squares of
// rows 0..3, black men on the dark squares of rows 6..9.
func NewBoard() Board {
	var b Board
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if (r+c)%2 == 0 {
				continue
			}
			if r <= 3 {
				b[r][c] = WhiteMan
			} else if r >= 6 {
				b[r][c] = BlackMan
			}
		}
	}
	return b
}

func (b Board) At(at Coord) Cell {
	return b[at.R][at.C]
}

func (b *Board) Set(at Coord, cell Cell) {
	b[at.R][at.C] = cell
}

func (b Board) Clone() Board {
	return b
}

// ValidateBoard turns an untyped grid into a Board. It fails unless the
// grid is exactly 10x10 and every cell is one of the five codes.
func ValidateBoard(raw [][]any) (Board, error) {
	var b Board
	if len(raw) != BoardSize {
		return b, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, BoardSize, len(raw))
	}
	for r, row := range raw {
		if len(row) != BoardSize {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, r, len(row))
		}
		for c, v := range row {
			cell, err := parseCell(v)
			if err != nil {
				return b, fmt.Errorf("row %d col %d: %w", r, c, err)
			}
			b[r][c] = cell
		}
	}
	return b, nil
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw [][]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	parsed, err := ValidateBoard(raw)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ASCII renders 10 lines of 10 chars, '.' for empty squares.
func (b Board) ASCII() string {
	var sb strings.Builder
	for r := 0; r < BoardSize; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < BoardSize; c++ {
			if b[r][c] == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte(b[r][c]))
			}
		}
	}
	return sb.String()
}

// ParseASCII is the inverse of ASCII. Blank lines and surrounding spaces are
// ignored.
func ParseASCII(s string) (Board, error) {
	var b Board
	lines := make([]string, 0, BoardSize)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) != BoardSize {
		return b, fmt.Errorf("%w: expected %d lines, got %d", ErrInvalidBoard, BoardSize, len(lines))
	}
	for r, line := range lines {
		if len(line) != BoardSize {
			return b, fmt.Errorf("%w: line %d has %d chars", ErrInvalidBoard, r, len(line))
		}
		for c := 0; c < BoardSize; c++ {
			ch := line[c]
			if ch == '.' {
				continue
			}
			cell, err := parseCell(string(ch))
			if err != nil {
				return b, err
			}
			b[r][c] = cell
		}
	}
	return b, nil
}

type PieceCounts struct {
	BlackMen   int `json:"bMen"`
	BlackKings int `json:"bKings"`
	WhiteMen   int `json:"wMen"`
	WhiteKings int `json:"wKings"`
}

func (b Board) Count() PieceCounts {
	var pc PieceCounts
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			switch b[r][c] {
			case BlackMan:
				pc.BlackMen++
			case BlackKing:
				pc.BlackKings++
			case WhiteMan:
				pc.WhiteMen++
			case WhiteKing:
				pc.WhiteKings++
			}
		}
	}
	return pc
}
