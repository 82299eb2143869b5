package services

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"hostwatch/internal/models"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"` // "cycle", "error", "ping", "pong"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// CyclePayload is the data of a "cycle" message
type CyclePayload struct {
	Sample models.Sample       `json:"sample"`
	Alerts []models.AlertEvent `json:"alerts"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan WebSocketMessage
	Close chan bool
}

// WebSocketHub fans monitor cycles out to every connected dashboard
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	register   chan *ClientConnection
	unregister chan string
	mu         sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once
	logger     logrus.FieldLogger
}

// NewWebSocketHub creates a hub and starts its event loop
func NewWebSocketHub(logger logrus.FieldLogger) *WebSocketHub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan struct{}),
		logger:     logger.WithField("component", "ws"),
	}

	go h.run()

	return h
}

// run manages the hub's event loop
func (h *WebSocketHub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if old, exists := h.clients[client.ID]; exists {
				close(old.Send)
			}
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Infof("Client connected: %s (total: %d)", client.ID, total)

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Infof("Client disconnected: %s (total: %d)", clientID, total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()
		}
	}
}

// OnCycle broadcasts a completed monitoring cycle
func (h *WebSocketHub) OnCycle(sample models.Sample, alerts []models.AlertEvent) {
	h.Broadcast(WebSocketMessage{
		Type:      "cycle",
		Timestamp: sample.Timestamp,
		Data:      CyclePayload{Sample: sample, Alerts: alerts},
	})
}

// OnCycleError broadcasts a failed monitoring cycle
func (h *WebSocketHub) OnCycleError(err error) {
	h.Broadcast(WebSocketMessage{
		Type:      "error",
		Timestamp: time.Now(),
		Error:     err.Error(),
	})
}

// Register adds a new client to the hub
func (h *WebSocketHub) Register(client *ClientConnection) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.done:
	}
}

// Broadcast queues a message for all connected clients. It never blocks;
// messages are dropped when the queue is full.
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.logger.Debug("Broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendMessage sends a message to a specific client
func (h *WebSocketHub) SendMessage(clientID string, msg WebSocketMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		return
	}
	select {
	case client.Send <- msg:
	default:
	}
}

// Stop closes every client channel and ends the event loop
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}
