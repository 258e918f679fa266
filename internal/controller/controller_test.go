package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/draughts-backend/internal/model"
	"github.com/benbeisheim/draughts-backend/internal/selection"
	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	selector := selection.NewSelector(time.Second, nil)
	selector.Register("pick", selection.ChooserFunc(func(context.Context, selection.Request) (int, error) {
		return 1, nil
	}))
	selector.Register("first-legal", selection.First)

	gm := service.NewGameManager(selector, service.ManagerOptions{DefaultAgent: "first-legal"}, nil)
	t.Cleanup(gm.Shutdown)
	gs := service.NewGameService(gm)

	app := fiber.New()
	Register(app, Controllers{
		Game:      NewGameController(gs),
		Engine:    NewEngineController(service.NewEngineService(selector, nil), nil),
		WebSocket: NewWebSocketController(gs, nil),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any, playerID string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func TestHealthAndAgents(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = call(t, app, http.MethodGet, "/api/agents", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"first-legal", "pick"}, body["agents"])
}

func TestCheckersMoves(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, http.MethodPost, "/api/games/checkers/moves",
		fiber.Map{"board": model.NewBoard(), "side": "b"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["moves"], 9)

	status, body = call(t, app, http.MethodPost, "/api/games/checkers/moves",
		fiber.Map{"board": [][]int{{0}}, "side": "b"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid board", body["error"])

	status, body = call(t, app, http.MethodPost, "/api/games/checkers/moves",
		fiber.Map{"board": model.NewBoard(), "side": "red"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid side", body["error"])
}

func TestCheckersApply(t *testing.T) {
	app := newTestApp(t)
	b := model.NewBoard()
	move := model.GenerateAllMoves(b, model.Black)[0]

	status, body := call(t, app, http.MethodPost, "/api/games/checkers/apply",
		fiber.Map{"board": b, "move": move}, "")
	require.Equal(t, http.StatusOK, status)
	rows := body["board"].([]any)
	assert.Equal(t, "b", rows[move.To().R].([]any)[move.To().C])

	illegal := model.Move{From: move.From, Path: []model.Coord{{R: 4, C: 0}}}
	status, body = call(t, app, http.MethodPost, "/api/games/checkers/apply",
		fiber.Map{"board": b, "move": illegal}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "illegal move")
}

func TestCheckersAI(t *testing.T) {
	app := newTestApp(t)
	b := model.NewBoard()
	b.Set(model.Coord{R: 5, C: 4}, model.WhiteMan)

	status, body := call(t, app, http.MethodPost, "/api/games/checkers",
		fiber.Map{"board": b, "aiPlaysAs": "b", "model": "pick"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{map[string]any{"r": float64(5), "c": float64(4)}}, body["captures"])
	assert.Equal(t, false, body["promotes"])

	status, body = call(t, app, http.MethodPost, "/api/games/checkers",
		fiber.Map{"board": b, "aiPlaysAs": "b", "model": "gpt-unknown"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid model", body["error"])

	status, body = call(t, app, http.MethodPost, "/api/games/checkers",
		fiber.Map{"board": b, "aiPlaysAs": "x", "model": "pick"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid aiPlaysAs", body["error"])

	status, body = call(t, app, http.MethodPost, "/api/games/checkers",
		fiber.Map{"board": model.Board{}, "aiPlaysAs": "w", "model": "pick"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No legal moves", body["error"])
	assert.Equal(t, true, body["gameOver"])
}

func TestConnect4AndTicTacToe(t *testing.T) {
	app := newTestApp(t)
	empty := make([][]int, 6)
	for r := range empty {
		empty[r] = make([]int, 7)
	}

	status, body := call(t, app, http.MethodPost, "/api/games/connect4",
		fiber.Map{"board": empty, "aiPlaysAs": 1, "model": "pick"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["col"])

	status, body = call(t, app, http.MethodPost, "/api/games/connect4",
		fiber.Map{"board": empty, "aiPlaysAs": 3, "model": "pick"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid aiPlaysAs", body["error"])

	status, body = call(t, app, http.MethodPost, "/api/games/connect4",
		fiber.Map{"board": [][]string{{"x"}}, "aiPlaysAs": 1, "model": "pick"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid board", body["error"])

	ttt := [][]any{{"X", nil, nil}, {nil, "O", nil}, {nil, nil, nil}}
	status, body = call(t, app, http.MethodPost, "/api/games/tic-tac-toe",
		fiber.Map{"board": ttt, "aiPlaysAs": "X", "model": "pick"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["row"])
	assert.Equal(t, float64(2), body["col"])

	won := [][]any{{"X", "X", "X"}, {"O", "O", nil}, {nil, nil, nil}}
	status, body = call(t, app, http.MethodPost, "/api/games/tic-tac-toe",
		fiber.Map{"board": won, "aiPlaysAs": "O", "model": "pick"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Game already finished", body["error"])
	assert.Equal(t, "X", body["winner"])
}

func TestSessions(t *testing.T) {
	app := newTestApp(t)

	status, _ := call(t, app, http.MethodPost, "/api/game/create", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, app, http.MethodPost, "/api/game/create", fiber.Map{"mode": "human-human"}, "alice")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "b", body["color"])
	gameID := body["gameId"].(string)

	status, body = call(t, app, http.MethodPost, "/api/game/join/"+gameID, nil, "bob")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "w", body["color"])

	status, body = call(t, app, http.MethodPost, "/api/game/join/"+gameID, nil, "carol")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "game is full", body["error"])

	status, body = call(t, app, http.MethodGet, "/api/game/"+gameID, nil, "carol")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "b", body["toMove"])
	assert.Len(t, body["legalMoves"], 9)

	status, _ = call(t, app, http.MethodGet, "/api/game/missing", nil, "carol")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = call(t, app, http.MethodPost, "/api/game/create", fiber.Map{"mode": "solo"}, "alice")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid mode", body["error"])
}

func TestMatchmakingRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, http.MethodPost, "/api/game/matchmaking/join", nil, "alice")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "queued", body["status"])

	status, _ = call(t, app, http.MethodPost, "/api/game/matchmaking/join", nil, "alice")
	assert.Equal(t, http.StatusConflict, status)

	status, body = call(t, app, http.MethodGet, "/api/game/matchmaking/wait?timeout=20ms", nil, "alice")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "waiting", body["status"])

	status, _ = call(t, app, http.MethodGet, "/api/game/matchmaking/wait?timeout=soon", nil, "alice")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, app, http.MethodPost, "/api/game/matchmaking/leave", nil, "alice")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "left", body["status"])
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	app := newTestApp(t)
	status, _ := call(t, app, http.MethodGet, "/ws/game/abc", nil, "alice")
	assert.Equal(t, http.StatusUpgradeRequired, status)
}
