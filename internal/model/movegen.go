package model

// Diagonal directions, in generation order.
var diagonals = [4]Coord{{R: 1, C: 1}, {R: 1, C: -1}, {R: -1, C: 1}, {R: -1, C: -1}}

// GenerateAllMoves returns every legal move for side. Captures are
// mandatory and only the longest chains are kept; ties are all returned.
// An empty result means side has no legal move.
func GenerateAllMoves(b Board, side Color) []Move {
	var captures []Move
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			cell := b[r][c]
			if !cell.belongsTo(side) {
				continue
			}
			at := Coord{R: r, C: c}
			if cell.Kind() == King {
				captures = append(captures, kingCaptures(b, at, side)...)
			} else {
				captures = append(captures, manCaptures(b, at, side)...)
			}
		}
	}
	if len(captures) > 0 {
		return longest(captures)
	}

	quiet := []Move{}
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			cell := b[r][c]
			if !cell.belongsTo(side) {
				continue
			}
			at := Coord{R: r, C: c}
			if cell.Kind() == King {
				quiet = append(quiet, kingQuietMoves(b, at)...)
			} else {
				quiet = append(quiet, manQuietMoves(b, at, side)...)
			}
		}
	}
	return quiet
}

func longest(moves []Move) []Move {
	maxCaptures := 0
	for _, m := range moves {
		if len(m.Captures) > maxCaptures {
			maxCaptures = len(m.Captures)
		}
	}
	out := make([]Move, 0, len(moves))
	for _, m := range moves {
		if len(m.Captures) == maxCaptures {
			out = append(out, m)
		}
	}
	return out
}

// MovesFrom filters legal moves down to the ones starting at from.
func MovesFrom(legal []Move, from Coord) []Move {
	var out []Move
	for _, m := range legal {
		if m.From == from {
			out = append(out, m)
		}
	}
	return out
}

// manQuietMoves: one step diagonally forward onto an empty square.
func manQuietMoves(b Board, at Coord, side Color) []Move {
	dr := side.forward()
	var moves []Move
	for _, dc := range [2]int{-1, 1} {
		to := at.add(dr, dc)
		if !to.Inside() || !b.At(to).IsEmpty() {
			continue
		}
		moves = append(moves, Move{
			From:     at,
			Path:     []Coord{to},
			Captures: []Coord{},
			Promotes: to.R == side.farRow(),
		})
	}
	return moves
}

// kingQuietMoves: flying king, one move per reachable empty square.
func kingQuietMoves(b Board, at Coord) []Move {
	var moves []Move
	for _, d := range diagonals {
		to := at.add(d.R, d.C)
		for to.Inside() && b.At(to).IsEmpty() {
			moves = append(moves, Move{
				From:     at,
				Path:     []Coord{to},
				Captures: []Coord{},
			})
			to = to.add(d.R, d.C)
		}
	}
	return moves
}
