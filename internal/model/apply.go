package model

import "fmt"

// Apply returns the board after move. The input board is not modified.
func Apply(b Board, move Move) Board {
	next := b
	moving := next.At(move.From)
	next.Set(move.From, Empty)
	for _, c := range move.Captures {
		next.Set(c, Empty)
	}
	if move.Promotes {
		moving = moving.promoted()
	}
	next.Set(move.To(), moving)
	return next
}

// ApplyLegal applies move only if it is one of the legal moves for the
// piece standing on move.From.
func ApplyLegal(b Board, move Move) (Board, error) {
	if err := move.Validate(); err != nil {
		return b, err
	}
	side, ok := b.At(move.From).Color()
	if !ok {
		return b, fmt.Errorf("%w: no piece at %v", ErrIllegalMove, move.From)
	}
	if FindMove(GenerateAllMoves(b, side), move) < 0 {
		return b, fmt.Errorf("%w: %v to %v", ErrIllegalMove, move.From, move.To())
	}
	return Apply(b, move), nil
}
