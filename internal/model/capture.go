package model

import "golang.org/x/exp/slices"

// captureSearch collects every maximal capture chain a single piece can
// make from origin. Each branch works on its own copy of the board, so
// captured pieces disappear as soon as they are jumped.
type captureSearch struct {
	origin  Coord
	side    Color
	results []Move
}

func manCaptures(b Board, at Coord, side Color) []Move {
	s := &captureSearch{origin: at, side: side}
	s.man(b, at, nil, nil)
	return s.results
}

func kingCaptures(b Board, at Coord, side Color) []Move {
	s := &captureSearch{origin: at, side: side}
	s.king(b, at, nil, nil, false)
	return s.results
}

// man jumps an adjacent opponent in any of the four directions. A man that
// lands on its far row is crowned and finishes the chain with king rules.
func (s *captureSearch) man(b Board, pos Coord, path, captured []Coord) {
	opponent := s.side.Opponent()
	extended := false
	for _, d := range diagonals {
		mid := pos.add(d.R, d.C)
		land := pos.add(2*d.R, 2*d.C)
		if !land.Inside() || !b.At(land).IsEmpty() {
			continue
		}
		if !b.At(mid).belongsTo(opponent) || slices.Contains(captured, mid) {
			continue
		}

		next := b
		moving := next.At(pos)
		next.Set(pos, Empty)
		next.Set(mid, Empty)
		crowned := land.R == s.side.farRow()
		if crowned {
			moving = moving.promoted()
		}
		next.Set(land, moving)
		extended = true

		nextPath := extend(path, land)
		nextCaptured := extend(captured, mid)
		if crowned {
			s.king(next, land, nextPath, nextCaptured, true)
			continue
		}
		s.man(next, land, nextPath, nextCaptured)
	}
	if !extended && len(captured) > 0 {
		s.record(path, captured, path[len(path)-1].R == s.side.farRow())
	}
}

// king slides over empty squares to the first occupied one, jumps it if it
// is an uncaptured opponent, and branches on every empty landing square
// beyond it.
func (s *captureSearch) king(b Board, pos Coord, path, captured []Coord, crowned bool) {
	opponent := s.side.Opponent()
	extended := false
	for _, d := range diagonals {
		mid := pos.add(d.R, d.C)
		for mid.Inside() && b.At(mid).IsEmpty() {
			mid = mid.add(d.R, d.C)
		}
		if !mid.Inside() || !b.At(mid).belongsTo(opponent) || slices.Contains(captured, mid) {
			continue
		}
		for land := mid.add(d.R, d.C); land.Inside() && b.At(land).IsEmpty(); land = land.add(d.R, d.C) {
			next := b
			moving := next.At(pos)
			next.Set(pos, Empty)
			next.Set(mid, Empty)
			next.Set(land, moving)
			extended = true
			s.king(next, land, extend(path, land), extend(captured, mid), crowned)
		}
	}
	if !extended && len(captured) > 0 {
		s.record(path, captured, crowned)
	}
}

func (s *captureSearch) record(path, captured []Coord, promotes bool) {
	s.results = append(s.results, Move{
		From:     s.origin,
		Path:     path,
		Captures: captured,
		Promotes: promotes,
	})
}

// extend never writes into the backing array of its argument, so sibling
// branches cannot see each other's squares.
func extend(coords []Coord, c Coord) []Coord {
	return append(slices.Clip(coords), c)
}
