package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

const secret = "test-secret"

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(zap.NewNop(), auth.NewVerifier(secret), func(*http.Request) bool { return true })
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, userID string) *websocket.Conn {
	t.Helper()
	tok, err := auth.Sign(secret, userID, time.Hour)
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+tok, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubDeliversPerUser(t *testing.T) {
	hub, url := newTestHub(t)
	alice, bob := uuid.NewString(), uuid.NewString()

	a1 := dial(t, url, alice)
	a2 := dial(t, url, alice)
	b1 := dial(t, url, bob)

	require.Eventually(t, func() bool {
		return hub.Connections(alice) == 2 && hub.Connections(bob) == 1
	}, 2*time.Second, 10*time.Millisecond)

	n := events.UserNotification{
		UserID:  alice,
		Type:    events.NotificationCreditDecided,
		Payload: json.RawMessage(`{"status":"approved"}`),
	}
	assert.Equal(t, 2, hub.Deliver(n))

	for _, c := range []*websocket.Conn{a1, a2} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got events.UserNotification
		require.NoError(t, c.ReadJSON(&got))
		assert.Equal(t, alice, got.UserID)
		assert.Equal(t, events.NotificationCreditDecided, got.Type)
	}

	// bob não recebe nada de alice
	require.NoError(t, b1.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := b1.ReadMessage()
	assert.Error(t, err)
}

func TestHubPingAndDisconnect(t *testing.T) {
	hub, url := newTestHub(t)
	user := uuid.NewString()
	c := dial(t, url, user)

	require.NoError(t, c.WriteJSON(ClientMsg{Type: "ping"}))
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(msg))

	require.NoError(t, c.Close())
	assert.Eventually(t, func() bool { return hub.Connections(user) == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.Deliver(events.UserNotification{UserID: user, Type: "x"}))
}

func TestHubRejectsBadToken(t *testing.T) {
	_, url := newTestHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
