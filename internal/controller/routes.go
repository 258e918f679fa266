package controller

import (
	"github.com/benbeisheim/draughts-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Controllers struct {
	Game      *GameController
	Engine    *EngineController
	WebSocket *WebSocketController
	// WSOrigins restricts websocket upgrades; empty allows any origin.
	WSOrigins []string
}

// Register mounts every route on app.
func Register(app *fiber.App, ctrl Controllers) {
	app.Get("/health", ctrl.Engine.Health)

	// Stateless rules endpoints
	api := app.Group("/api")
	api.Get("/agents", ctrl.Engine.Agents)
	games := api.Group("/games")
	games.Post("/checkers/moves", ctrl.Engine.CheckersMoves)
	games.Post("/checkers/apply", ctrl.Engine.CheckersApply)
	games.Post("/checkers", ctrl.Engine.CheckersAI)
	games.Post("/connect4", ctrl.Engine.Connect4AI)
	games.Post("/tic-tac-toe", ctrl.Engine.TicTacToeAI)

	// Live sessions
	gameRoutes := api.Group("/game", middleware.EnsurePlayerID())
	gameRoutes.Post("/matchmaking/join", ctrl.Game.JoinMatchmaking)
	gameRoutes.Post("/matchmaking/leave", ctrl.Game.LeaveMatchmaking)
	gameRoutes.Get("/matchmaking/wait", ctrl.Game.WaitForMatch)
	gameRoutes.Post("/create", ctrl.Game.CreateGame)
	gameRoutes.Post("/join/:gameId", ctrl.Game.JoinGame)
	gameRoutes.Get("/:gameId", ctrl.Game.GetGameState)

	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(ctrl.WebSocket.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         ctrl.WSOrigins,
	}))
}
