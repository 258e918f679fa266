package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSeats(t *testing.T) {
	g := NewGame("g1", ModeHumanHuman, nil)

	c, err := g.AddPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, Black, c)

	c, err = g.AddPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, Black, c, "rejoining keeps the seat")

	c, err = g.AddPlayer("bob")
	require.NoError(t, err)
	assert.Equal(t, White, c)

	_, err = g.AddPlayer("carol")
	assert.ErrorIs(t, err, ErrGameFull)
	assert.False(t, g.CanSpectate())
	assert.True(t, g.IsPlayerInGame("bob"))
	assert.False(t, g.IsPlayerInGame(""))
}

func TestGamePlay(t *testing.T) {
	g := NewGame("g1", ModeHumanHuman, nil)
	_, _ = g.AddPlayer("alice")
	_, _ = g.AddPlayer("bob")

	assert.ErrorIs(t, g.Play("bob", 0), ErrNotYourTurn)
	assert.ErrorIs(t, g.Play("mallory", 0), ErrNotInGame)
	assert.ErrorIs(t, g.Play("alice", 99), ErrIllegalMove)

	first := g.GetState().LegalMoves[3]
	require.NoError(t, g.Play("alice", 3))

	s := g.GetState()
	assert.Equal(t, White, s.ToMove)
	require.Len(t, s.MoveHistory, 1)
	assert.Equal(t, Ply{Side: Black, Index: 3, Move: first}, s.MoveHistory[0])
	assert.Equal(t, &first, s.LastMove)
	assert.Len(t, s.LegalMoves, 9)
	assert.Equal(t, 1, s.TimeStats.Black.Count)
	assert.Nil(t, s.Resolve)
}

func TestGameEndsWhenOpponentHasNoMoves(t *testing.T) {
	g := NewGame("g1", ModeHumanHuman, nil)
	_, _ = g.AddPlayer("alice")
	_, _ = g.AddPlayer("bob")

	g.mu.Lock()
	g.state.Board = place(map[Coord]Cell{
		at(6, 1): BlackMan,
		at(5, 2): WhiteMan,
	})
	g.state.LegalMoves = GenerateAllMoves(g.state.Board, Black)
	g.mu.Unlock()

	require.NoError(t, g.Play("alice", 0))
	s := g.GetState()
	require.NotNil(t, s.Resolve)
	assert.Equal(t, Result{Winner: Black, Reason: ReasonNoMoves}, *s.Resolve)
	assert.Empty(t, s.LegalMoves)
	assert.True(t, g.IsOver())

	assert.ErrorIs(t, g.Play("bob", 0), ErrGameOver)
	assert.ErrorIs(t, g.Resign("bob"), ErrGameOver)
}

func TestGameResign(t *testing.T) {
	g := NewGame("g1", ModeHumanHuman, nil)
	_, _ = g.AddPlayer("alice")

	assert.ErrorIs(t, g.Resign("bob"), ErrNotInGame)
	require.NoError(t, g.Resign("alice"))
	s := g.GetState()
	require.NotNil(t, s.Resolve)
	assert.Equal(t, White, s.Resolve.Winner)
	assert.Equal(t, ReasonResign, s.Resolve.Reason)
}

func TestGameAgentSeats(t *testing.T) {
	g := NewGame("g1", ModeHumanAI, nil)
	require.NoError(t, g.SetAgent(White, "first-legal"))
	_, _ = g.AddPlayer("alice")

	_, ok := g.AgentToMove()
	assert.False(t, ok, "black is human")
	assert.ErrorIs(t, g.PlayAgent(0), ErrNotAgentTurn)

	require.NoError(t, g.Play("alice", 0))
	agent, ok := g.AgentToMove()
	require.True(t, ok)
	assert.Equal(t, "first-legal", agent)
	assert.ErrorIs(t, g.Play("alice", 0), ErrNotYourTurn)

	require.NoError(t, g.PlayAgent(1))
	s := g.GetState()
	require.Len(t, s.MoveHistory, 2)
	assert.Equal(t, "first-legal", s.MoveHistory[1].Agent)
	assert.Equal(t, White, s.MoveHistory[1].Side)

	_, err := g.AddPlayer("bob")
	assert.ErrorIs(t, err, ErrGameFull)
	assert.ErrorIs(t, g.SetAgent(Black, "x"), ErrGameFull)
}

func TestQueue(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.AddPlayer(Player{ID: "a"}))
	assert.ErrorIs(t, q.AddPlayer(Player{ID: "a"}), ErrAlreadyQueued)

	_, _, ok := q.GetNextPair()
	assert.False(t, ok)

	require.NoError(t, q.AddPlayer(Player{ID: "b"}))
	require.NoError(t, q.AddPlayer(Player{ID: "c"}))
	assert.True(t, q.Remove("b"))
	assert.False(t, q.Remove("zz"))

	p1, p2, ok := q.GetNextPair()
	require.True(t, ok)
	assert.Equal(t, "a", p1.ID)
	assert.Equal(t, "c", p2.ID)
	assert.Equal(t, 0, q.Size())
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, ModeHumanHuman, m)
	m, ok = ParseMode("ai-ai")
	assert.True(t, ok)
	assert.Equal(t, ModeAIAI, m)
	_, ok = ParseMode("solo")
	assert.False(t, ok)
}
