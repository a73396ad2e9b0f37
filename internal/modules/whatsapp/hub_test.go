package whatsapp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescrm/internal/domain"
)

func dialHub(t *testing.T, hub *Hub, userID int64) (*websocket.Conn, func()) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.ServeWS(conn, userID)
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.IsOnline(userID) },
		time.Second, 10*time.Millisecond)

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

// Session and message callbacks fire from independent provider
// goroutines; every frame must still arrive intact on the one
// connection.
func TestHubConcurrentNotifications(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialHub(t, hub, 7)
	defer cleanup()

	const (
		writers        = 8
		eventsPerWrite = 40
	)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < eventsPerWrite; j++ {
				if n%2 == 0 {
					hub.SessionUpdated(7, &domain.WhatsAppSession{
						ID:     1,
						Status: domain.SessionWaitingQR,
						QRCode: "wa-pair:regression",
					})
				} else {
					hub.MessageLogged(7, &domain.WhatsAppMessage{
						ID:           int64(j),
						ContactPhone: "+77010000001",
						Direction:    domain.MessageInbound,
						Body:         "ping",
					})
				}
			}
		}(i)
	}

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		for received < 50 {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var event Event
			if err := json.Unmarshal(raw, &event); err != nil {
				t.Errorf("malformed frame %q: %v", raw, err)
				return
			}
			if event.Type != "session_updated" && event.Type != "message" {
				t.Errorf("unexpected event type %q", event.Type)
				return
			}
			received++
		}
	}()

	wg.Wait()
	<-done
	assert.GreaterOrEqual(t, received, 50)
}

func TestHubReconnectReplacesConnection(t *testing.T) {
	hub := NewHub()

	first, cleanupFirst := dialHub(t, hub, 3)
	defer cleanupFirst()
	second, cleanupSecond := dialHub(t, hub, 3)
	defer cleanupSecond()

	// The replaced connection sees only the close handshake; waiting for
	// it also proves the second connection took over.
	first.SetReadDeadline(time.Now().Add(time.Second))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived) ||
				websocket.IsUnexpectedCloseError(err))
			break
		}
	}

	hub.SessionUpdated(3, &domain.WhatsAppSession{ID: 1, Status: domain.SessionConnecting})

	second.SetReadDeadline(time.Now().Add(time.Second))
	var event Event
	require.NoError(t, second.ReadJSON(&event))
	assert.Equal(t, "session_updated", event.Type)
}

func TestHubOfflineUserIsNoop(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.IsOnline(42))
	hub.SessionUpdated(42, &domain.WhatsAppSession{ID: 1, Status: domain.SessionWaitingQR})
	hub.MessageLogged(42, &domain.WhatsAppMessage{ID: 1, Body: "dropped"})
}
