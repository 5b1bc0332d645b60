package handler

import (
	"context"
	"encoding/json"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "fyndit/internal/infrastructure/websocket"
	"fyndit/internal/usecase"
	"fyndit/pkg/errors"
	"fyndit/pkg/logger"
)

type WebSocketHandler struct {
	wsManager   *ws.Manager
	chatUseCase *usecase.ChatUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, chatUseCase *usecase.ChatUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		chatUseCase: chatUseCase,
	}
}

// clientCommand is the inbound frame protocol: subscribe to the chat list,
// open one conversation, or close the open conversation.
type clientCommand struct {
	Action string `json:"action"`
	ChatID string `json:"chat_id,omitempty"`
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	go client.WritePump()
	go func() {
		client.ReadPump(h.wsManager, h.handleCommand)
		h.chatUseCase.UnsubscribeAll(userID)
	}()

	return nil
}

func (h *WebSocketHandler) handleCommand(userID string, data []byte) {
	var cmd clientCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		logger.Warn("Ignoring malformed WebSocket frame from %s: %v", userID, err)
		return
	}

	ctx := context.Background()

	switch cmd.Action {
	case "subscribe_chats":
		if err := h.chatUseCase.SubscribeChatList(userID); err != nil {
			logger.Error("Failed to subscribe %s to chat list: %v", userID, err)
		}
	case "open_chat":
		if cmd.ChatID == "" {
			return
		}
		if err := h.chatUseCase.SubscribeChat(ctx, userID, cmd.ChatID); err != nil {
			logger.Error("Failed to open chat %s for %s: %v", cmd.ChatID, userID, err)
		}
	case "close_chat":
		h.chatUseCase.UnsubscribeChat(userID)
	default:
		logger.Debug("Unknown WebSocket action %q from %s", cmd.Action, userID)
	}
}
