package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/photosync/photolist/internal/observability"
	"github.com/photosync/photolist/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The change feed carries no secrets beyond what the REST API serves
		return true
	},
}

// WebSocketHandler streams list change notifications to UI clients
type WebSocketHandler struct {
	hub    *services.WebSocketHub
	logger *observability.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *services.WebSocketHub) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: observability.GetLogger().WithField("component", "websocket"),
	}
}

// HandleConnection upgrades the request and subscribes the client to list changes
// @Summary List change feed
// @Description Upgrades to a websocket that receives lists_changed messages for every committed change
// @Tags lists
// @Success 101 "Switching protocols"
// @Router /ws [get]
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}

	client := h.hub.NewClient(uuid.New().String(), conn)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}
	h.hub.Subscribe(client, services.TopicLists)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

func (h *WebSocketHandler) handleMessage(client *services.WSClient, messageType int, data []byte) {
	if messageType != websocket.TextMessage {
		return
	}

	var msg struct {
		Type  string `json:"type"`
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		h.reply(client, services.WSMessage{Type: services.WSTypeError, Payload: "invalid message"})
		return
	}

	switch msg.Type {
	case services.WSTypeSubscribe:
		if msg.Topic != "" {
			h.hub.Subscribe(client, msg.Topic)
		}
	case services.WSTypeUnsubscribe:
		if msg.Topic != "" {
			h.hub.Unsubscribe(client, msg.Topic)
		}
	case services.WSTypePing:
		h.reply(client, services.WSMessage{Type: services.WSTypePong})
	default:
		h.reply(client, services.WSMessage{Type: services.WSTypeError, Payload: "unknown message type"})
	}
}

func (h *WebSocketHandler) reply(client *services.WSClient, msg services.WSMessage) {
	if err := client.SendMessage(msg); err != nil {
		h.logger.Debugf("reply to %s failed: %v", client.ID, err)
	}
}
