package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"campusevents/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Message is the frame pushed to connected clients.
type Message struct {
	Event string               `json:"event"`
	Data  *domain.Notification `json:"data"`
}

type client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub keeps the live websocket connections of each user. A user may have
// several connections (tabs, devices); each receives every notification.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[string]*client
	closed   bool
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub returns a hub. allowedOrigins restricts the Origin header of upgrade
// requests; "*" or an empty list accepts any origin.
func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	h := &Hub{
		rooms:  make(map[string]map[string]*client),
		logger: logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || len(set) == 0 || set[origin]
	}
}

// Serve upgrades the request and streams the user's notifications until the
// connection closes. It blocks for the lifetime of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade: %w", err)
	}
	c := &client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		return conn.Close()
	}
	h.logger.Debug("websocket connected", "user_id", userID, "client_id", c.id)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	room, ok := h.rooms[c.userID]
	if !ok {
		room = make(map[string]*client)
		h.rooms[c.userID] = room
	}
	room[c.id] = c
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.userID]
	if !ok {
		return
	}
	if _, ok := room[c.id]; !ok {
		return
	}
	delete(room, c.id)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.userID)
	}
}

// readPump drains inbound frames so control frames are processed; clients do
// not send application messages.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.logger.Debug("websocket disconnected", "user_id", c.userID, "client_id", c.id)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "user_id", c.userID, "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Dispatch pushes n to every connection of its recipient. Connections whose
// buffer is full miss the message; the notification stays in the store.
func (h *Hub) Dispatch(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(Message{Event: "notification", Data: n})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[n.UserID] {
		select {
		case c.send <- payload:
		default:
			h.logger.WarnContext(ctx, "websocket buffer full, dropping notification",
				"user_id", n.UserID, "client_id", c.id, "notification_id", n.ID)
		}
	}
	return nil
}

// RoomSize returns the number of live connections for userID.
func (h *Hub) RoomSize(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// Close disconnects every client and rejects new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for userID, room := range h.rooms {
		for _, c := range room {
			close(c.send)
		}
		delete(h.rooms, userID)
	}
}
