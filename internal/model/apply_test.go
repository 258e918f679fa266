package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyQuietMove(t *testing.T) {
	b := NewBoard()
	move := GenerateAllMoves(b, Black)[0]

	next := Apply(b, move)
	assert.True(t, next.At(move.From).IsEmpty())
	assert.Equal(t, BlackMan, next.At(move.To()))
	assert.Equal(t, BlackMan, b.At(move.From), "input board must not change")
	assert.Equal(t, b.Count(), next.Count())
}

func TestApplyRemovesCaptures(t *testing.T) {
	b := place(map[Coord]Cell{
		at(6, 1): BlackMan,
		at(5, 2): WhiteMan,
		at(3, 4): WhiteMan,
	})
	legal := GenerateAllMoves(b, Black)
	require.Len(t, legal, 1)

	next := Apply(b, legal[0])
	assert.Equal(t, PieceCounts{BlackMen: 1}, next.Count())
	assert.Equal(t, BlackMan, next.At(at(2, 5)))
	assert.Equal(t, PieceCounts{BlackMen: 1, WhiteMen: 2}, b.Count())
}

func TestApplyEveryLegalMoveKeepsMaterial(t *testing.T) {
	b := NewBoard()
	b.Set(at(5, 4), WhiteMan)
	for _, side := range []Color{Black, White} {
		for _, m := range GenerateAllMoves(b, side) {
			next := Apply(b, m)
			before, after := b.Count(), next.Count()
			lost := before.BlackMen + before.BlackKings + before.WhiteMen + before.WhiteKings -
				(after.BlackMen + after.BlackKings + after.WhiteMen + after.WhiteKings)
			assert.Equal(t, len(m.Captures), lost)
		}
	}
}

func TestApplyLegal(t *testing.T) {
	b := NewBoard()
	b.Set(at(5, 4), WhiteMan)

	capture := Move{From: at(6, 5), Path: []Coord{at(4, 3)}, Captures: []Coord{at(5, 4)}}
	next, err := ApplyLegal(b, capture)
	require.NoError(t, err)
	assert.True(t, next.At(at(5, 4)).IsEmpty())

	quiet := Move{From: at(6, 1), Path: []Coord{at(5, 0)}, Captures: []Coord{}}
	_, err = ApplyLegal(b, quiet)
	assert.ErrorIs(t, err, ErrIllegalMove, "capture is mandatory")

	_, err = ApplyLegal(b, Move{From: at(5, 0), Path: []Coord{at(4, 1)}})
	assert.ErrorIs(t, err, ErrIllegalMove, "empty square")

	_, err = ApplyLegal(b, Move{From: at(6, 5)})
	assert.ErrorIs(t, err, ErrInvalidMove)
}
