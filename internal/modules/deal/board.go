package deal

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	jwtsvc "salescrm/internal/pkg/jwt"
)

const (
	boardWriteWait  = 10 * time.Second
	boardPongWait   = 60 * time.Second
	boardPingPeriod = (boardPongWait * 9) / 10
)

// BoardEvent is pushed to every connected kanban client after a deal
// changes stage. Delivery is best effort; clients refetch the board.
type BoardEvent struct {
	Action     string `json:"action"`
	PipelineID int64  `json:"pipeline_id"`
	DealID     int64  `json:"deal_id"`
	Stage      string `json:"stage"`
}

var boardUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer for REST; board sockets are
	// token-gated instead.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// boardClient funnels all outgoing frames through the send channel so a
// single writePump goroutine owns the connection's write side.
type boardClient struct {
	conn *websocket.Conn
	send chan []byte
}

// BoardHub broadcasts board refresh events to all connected clients.
type BoardHub struct {
	mu      sync.Mutex
	clients map[*boardClient]bool
	jwt     *jwtsvc.Service
}

func NewBoardHub(jwt *jwtsvc.Service) *BoardHub {
	return &BoardHub{
		clients: make(map[*boardClient]bool),
		jwt:     jwt,
	}
}

// DealMoved implements BoardNotifier.
func (h *BoardHub) DealMoved(pipelineID, dealID int64, stage string) {
	h.broadcast(BoardEvent{
		Action:     "deal_moved",
		PipelineID: pipelineID,
		DealID:     dealID,
		Stage:      stage,
	})
}

func (h *BoardHub) broadcast(event BoardEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, drop the frame.
		}
	}
}

func (h *BoardHub) register(c *boardClient) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *BoardHub) unregister(c *boardClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// HandleWebSocket upgrades GET /ws/board?token=JWT connections and
// keeps them registered until the client goes away.
func (h *BoardHub) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}
	if _, err := h.jwt.ValidateToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := boardUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("board websocket upgrade failed: %v", err)
		return
	}

	client := &boardClient{conn: conn, send: make(chan []byte, 64)}
	h.register(client)

	go h.writePump(client)
	h.readPump(client)
}

func (h *BoardHub) readPump(c *boardClient) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(boardPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(boardPongWait))
		return nil
	})

	// Drain client frames; the board channel is push-only.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *BoardHub) writePump(c *boardClient) {
	ticker := time.NewTicker(boardPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(boardWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(boardWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *BoardHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
