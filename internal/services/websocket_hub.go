package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/photosync/photolist/internal/observability"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSClient represents a connected WebSocket client
type WSClient struct {
	ID         string
	Topics     map[string]bool
	Conn       *websocket.Conn
	Send       chan []byte
	hub        *WebSocketHub
	mu         sync.Mutex
	closedOnce sync.Once
}

// WebSocketHub fans list change messages out to connected UI clients
type WebSocketHub struct {
	clients   map[*WSClient]bool
	topics    map[string]map[*WSClient]bool // topic -> clients
	broadcast chan *broadcastMsg
	closed    bool
	mu        sync.RWMutex
	logger    *observability.Logger
}

type broadcastMsg struct {
	topic   string // empty means every client
	message []byte
}

// NewWebSocketHub creates a new WebSocket hub
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:   make(map[*WSClient]bool),
		topics:    make(map[string]map[*WSClient]bool),
		broadcast: make(chan *broadcastMsg, 256),
		logger:    observability.GetLogger().WithField("component", "websocket"),
	}
}

// Run delivers broadcasts until ctx is done, then disconnects every client
func (h *WebSocketHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.closed = true
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.topics = make(map[string]map[*WSClient]bool)
			h.mu.Unlock()
			return

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// remove drops client and closes its send channel. Callers hold h.mu.
func (h *WebSocketHub) remove(client *WSClient) bool {
	if _, ok := h.clients[client]; !ok {
		return false
	}
	delete(h.clients, client)
	for topic := range client.Topics {
		if topicClients, ok := h.topics[topic]; ok {
			delete(topicClients, client)
			if len(topicClients) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	close(client.Send)
	return true
}

func (h *WebSocketHub) deliver(msg *broadcastMsg) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := h.clients
	if msg.topic != "" {
		targets = h.topics[msg.topic]
	}

	for client := range targets {
		select {
		case client.Send <- msg.message:
		default:
			// Slow consumer; drop it rather than stall every other client
			go h.Unregister(client)
		}
	}
}

// Register adds a client to the hub. It reports false once the hub has stopped.
func (h *WebSocketHub) Register(client *WSClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[client] = true
	h.logger.Debugf("client connected: %s", client.ID)
	return true
}

// Unregister removes a client from the hub and closes its send channel
func (h *WebSocketHub) Unregister(client *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.remove(client) {
		h.logger.Debugf("client disconnected: %s", client.ID)
	}
}

// Subscribe adds a registered client to a topic. Clients that were never
// registered, or already removed, are ignored.
func (h *WebSocketHub) Subscribe(client *WSClient, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[client] {
		return
	}
	client.Topics[topic] = true
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*WSClient]bool)
	}
	h.topics[topic][client] = true
	h.logger.Debugf("client %s subscribed to %s", client.ID, topic)
}

// Unsubscribe removes a client from a topic
func (h *WebSocketHub) Unsubscribe(client *WSClient, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(client.Topics, topic)
	if topicClients, ok := h.topics[topic]; ok {
		delete(topicClients, client)
		if len(topicClients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// BroadcastToTopic sends a message to all clients subscribed to a topic.
// When the queue is full the message is dropped.
func (h *WebSocketHub) BroadcastToTopic(topic string, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("marshal websocket message: %v", err)
		return
	}

	select {
	case h.broadcast <- &broadcastMsg{topic: topic, message: data}:
	default:
		h.logger.Warnf("broadcast queue full, dropping %s message", msg.Type)
	}
}

// GetClientCount returns the number of connected clients
func (h *WebSocketHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetTopicSubscriberCount returns the number of subscribers for a topic
func (h *WebSocketHub) GetTopicSubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// NewClient creates a new WebSocket client connected to this hub
func (h *WebSocketHub) NewClient(id string, conn *websocket.Conn) *WSClient {
	return &WSClient{
		ID:     id,
		Topics: make(map[string]bool),
		Conn:   conn,
		Send:   make(chan []byte, 256),
		hub:    h,
	}
}

// Close closes the client connection
func (c *WSClient) Close() {
	c.closedOnce.Do(func() {
		c.hub.Unregister(c)
		c.Conn.Close()
	})
}

// SendMessage writes a message to this client only, bypassing the hub queue
func (c *WSClient) SendMessage(msg WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// WritePump pumps messages from the hub to the websocket connection
func (c *WSClient) WritePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.mu.Lock()
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				c.mu.Unlock()
				return
			}
			err := c.Conn.WriteMessage(websocket.TextMessage, message)
			c.mu.Unlock()

			if err != nil {
				return
			}

		case <-ticker.C:
			c.mu.Lock()
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			err := c.Conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

// ReadPump pumps messages from the websocket connection to onMessage
func (c *WSClient) ReadPump(onMessage func(client *WSClient, messageType int, data []byte)) {
	defer c.Close()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warnf("websocket read error: %v", err)
			}
			break
		}

		if onMessage != nil {
			onMessage(c, messageType, message)
		}
	}
}

// Message types
const (
	WSTypeListsChanged = "lists_changed"
	WSTypeError        = "error"
	WSTypeSubscribe    = "subscribe"
	WSTypeUnsubscribe  = "unsubscribe"
	WSTypePing         = "ping"
	WSTypePong         = "pong"
)

// TopicLists carries every change to the photo list set
const TopicLists = "lists"
