package tictactoe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalBoard(t *testing.T) {
	var b Board
	require.NoError(t, json.Unmarshal([]byte(`[["X",null,null],[null,"O",null],[null,null,null]]`), &b))
	assert.Equal(t, "X...O....", b.Serialize())

	for _, bad := range []string{
		`[["X",null,null],[null,"O",null]]`,
		`[["X",null],[null,"O",null],[null,null,null]]`,
		`[["Z",null,null],[null,"O",null],[null,null,null]]`,
		`"XO"`,
	} {
		assert.ErrorIs(t, json.Unmarshal([]byte(bad), &b), ErrInvalidBoard, bad)
	}
}

func TestMarshalBoardUsesNull(t *testing.T) {
	b := Board{{X, None, None}, {None, O, None}, {None, None, None}}
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `[["X",null,null],[null,"O",null],[null,null,null]]`, string(data))
}

func TestResult(t *testing.T) {
	assert.Equal(t, "", Board{}.Result())
	assert.Equal(t, "X", Board{{X, X, X}, {O, O, None}, {None, None, None}}.Result())
	assert.Equal(t, "O", Board{{X, X, O}, {X, O, None}, {O, None, None}}.Result())
	assert.Equal(t, "draw", Board{{X, O, X}, {X, O, O}, {O, X, X}}.Result())
}

func TestTurnAndApply(t *testing.T) {
	b := Board{}
	assert.Equal(t, X, b.CurrentTurn())
	assert.Len(t, b.LegalMoves(), 9)

	next, err := b.Apply(Cell{Row: 1, Col: 1}, X)
	require.NoError(t, err)
	assert.Equal(t, O, next.CurrentTurn())
	assert.Len(t, next.LegalMoves(), 8)
	assert.Equal(t, None, b[1][1])

	_, err = next.Apply(Cell{Row: 1, Col: 1}, O)
	assert.Error(t, err)
	_, err = next.Apply(Cell{Row: 3, Col: 0}, O)
	assert.Error(t, err)
}
