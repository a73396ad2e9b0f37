package whatsapp

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"salescrm/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Event is the frame pushed to a session owner's websocket.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// client owns its connection's write side: every outgoing frame goes
// through the send channel and is written by the single writePump
// goroutine, since gorilla/websocket allows one concurrent writer.
type client struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub keeps one websocket connection per user. A reconnect replaces the
// previous connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*client)}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.clients[c.userID]; ok {
		close(old.send)
	}
	h.clients[c.userID] = c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.userID]; ok && existing == c {
		delete(h.clients, c.userID)
		close(c.send)
	}
}

// ServeWS registers the connection and blocks until the client goes
// away.
func (h *Hub) ServeWS(conn *websocket.Conn, userID int64) {
	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The channel is push-only; client frames are drained and dropped.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
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
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SessionUpdated implements Notifier.
func (h *Hub) SessionUpdated(userID int64, s *domain.WhatsAppSession) {
	h.sendToUser(userID, Event{Type: "session_updated", Data: s})
}

// MessageLogged implements Notifier.
func (h *Hub) MessageLogged(userID int64, m *domain.WhatsAppMessage) {
	h.sendToUser(userID, Event{Type: "message", Data: m})
}

func (h *Hub) sendToUser(userID int64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[userID]
	if !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		// Client too slow, drop the frame.
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
