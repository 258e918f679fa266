package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/draughts-backend/internal/service"
	"github.com/benbeisheim/draughts-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

type WebSocketController struct {
	gameService *service.GameService
	logger      *zap.Logger
}

func NewWebSocketController(gameService *service.GameService, logger *zap.Logger) *WebSocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketController{
		gameService: gameService,
		logger:      logger,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)
	log := wsc.logger.With(zap.String("game", gameID), zap.String("player", playerID))

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warn("failed to register connection", zap.Error(err))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug("read loop ended", zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debug("unparseable message", zap.Error(err))
			wsc.gameService.SendError(gameID, playerID, fmt.Errorf("invalid message: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debug("message rejected", zap.String("type", string(msg.Type)), zap.Error(err))
			wsc.gameService.SendError(gameID, playerID, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var payload ws.MovePayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				return fmt.Errorf("invalid move payload: %w", err)
			}
		}
		return wsc.gameService.HandleMove(gameID, playerID, payload.MoveIndex)

	case ws.MessageTypeResign:
		return wsc.gameService.HandleResign(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}
