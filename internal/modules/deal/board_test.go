package deal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtsvc "salescrm/internal/pkg/jwt"
)

func newBoardServer(t *testing.T) (*BoardHub, *httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := jwtsvc.New("board-test-secret", time.Hour)
	hub := NewBoardHub(jwtService)

	r := gin.New()
	r.GET("/ws/board", hub.HandleWebSocket)
	srv := httptest.NewServer(r)

	token, err := jwtService.GenerateToken(1, "agent@example.com", "agent")
	require.NoError(t, err)

	return hub, srv, token
}

func dialBoard(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/board?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestBoardHubRejectsMissingToken(t *testing.T) {
	_, srv, _ := newBoardServer(t)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/board"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Moves can land from concurrent API requests; every client must still
// receive well-formed frames.
func TestBoardHubConcurrentMoves(t *testing.T) {
	hub, srv, token := newBoardServer(t)
	defer srv.Close()

	conn := dialBoard(t, srv, token)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	const (
		movers        = 8
		movesPerActor = 30
	)

	var wg sync.WaitGroup
	for i := 0; i < movers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < movesPerActor; j++ {
				hub.DealMoved(1, int64(n*movesPerActor+j), "Qualified")
			}
		}(i)
	}

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		for received < 50 {
			var event BoardEvent
			if err := conn.ReadJSON(&event); err != nil {
				return
			}
			if event.Action != "deal_moved" || event.Stage != "Qualified" {
				t.Errorf("unexpected event %+v", event)
				return
			}
			received++
		}
	}()

	wg.Wait()
	<-done
	assert.GreaterOrEqual(t, received, 50)
}

func TestBoardHubDisconnectDeregisters(t *testing.T) {
	hub, srv, token := newBoardServer(t)
	defer srv.Close()

	conn := dialBoard(t, srv, token)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 10*time.Millisecond)

	// Broadcasting with nobody connected is a no-op.
	hub.DealMoved(1, 2, "Proposal")
}
