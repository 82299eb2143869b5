package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hostwatch/internal/services"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

func (ctl *Controller) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(ctl.allowedOrigins),
	}
}

// originChecker accepts requests without an Origin header, same-host
// origins and any origin listed in allowed. A "*" entry allows all.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// HandleWebSocket upgrades the request and subscribes it to monitor cycles
func (ctl *Controller) HandleWebSocket(c *gin.Context) {
	ws, err := ctl.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		ctl.logger.Warnf("[WS] Upgrade error from %s: %v", c.ClientIP(), err)
		return
	}

	client := &services.ClientConnection{
		ID:    c.ClientIP() + "-" + uuid.NewString(),
		Conn:  ws,
		Send:  make(chan services.WebSocketMessage, sendBuffer),
		Close: make(chan bool),
	}
	ctl.hub.Register(client)

	go ctl.readPump(client)
	go ctl.writePump(client)
}

// readPump handles client requests until the connection fails or the
// client unsubscribes
func (ctl *Controller) readPump(client *services.ClientConnection) {
	defer func() {
		close(client.Close)
		ctl.hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(4096)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				ctl.logger.Debugf("[WS] Read error from %s: %v", client.ID, err)
			}
			return
		}

		switch msg.Type {
		case "ping":
			ctl.hub.SendMessage(client.ID, services.WebSocketMessage{
				Type:      "pong",
				Timestamp: ctl.now(),
			})
		case "subscribe":
			// already subscribed on connect
		case "unsubscribe":
			return
		default:
			ctl.logger.Debugf("[WS] Unknown message type from %s: %s", client.ID, msg.Type)
		}
	}
}

// writePump forwards hub messages to the connection and keeps it alive
func (ctl *Controller) writePump(client *services.ClientConnection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(msg); err != nil {
				ctl.logger.Debugf("[WS] Write error to %s: %v", client.ID, err)
				return
			}

		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-client.Close:
			_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
