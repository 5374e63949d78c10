package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"takatrack-backend/internal/middleware"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenVerifier map[string]int64

func (v tokenVerifier) Identity(token string) (int64, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return 0, errors.New("unknown token")
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func connected(h *Hub, userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub := startHub(t)

	a := NewClient(1, nil, hub)
	b := NewClient(2, nil, hub)
	require.True(t, hub.join(a))
	require.True(t, hub.join(b))
	require.Eventually(t, func() bool { return hub.GetClientCount() == 2 }, time.Second, 10*time.Millisecond)
	assert.True(t, connected(hub, 2))
	assert.False(t, connected(hub, 3))

	hub.Publish("collection_updated", map[string]int{"id": 5})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.send:
			var ev Event
			require.NoError(t, json.Unmarshal(raw, &ev))
			assert.Equal(t, "collection_updated", ev.Type)
			assert.NotEmpty(t, ev.Timestamp)
			assert.Equal(t, map[string]interface{}{"id": float64(5)}, ev.Data)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}

	hub.leave(a)
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)
	_, open := <-a.send
	assert.False(t, open)
}

func TestClientsGaugeTracksConnections(t *testing.T) {
	hub := startHub(t)
	gauge := hub.ClientsGauge()
	assert.Equal(t, float64(0), testutil.ToFloat64(gauge))

	c := NewClient(4, nil, hub)
	require.True(t, hub.join(c))
	require.Eventually(t, func() bool { return testutil.ToFloat64(gauge) == 1 }, time.Second, 10*time.Millisecond)

	hub.leave(c)
	require.Eventually(t, func() bool { return testutil.ToFloat64(gauge) == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := NewClient(1, nil, hub)
	require.True(t, hub.join(c))

	cancel()
	<-hub.done

	_, open := <-c.send
	assert.False(t, open)

	// Joining or leaving a stopped hub must not block.
	assert.False(t, hub.join(NewClient(2, nil, hub)))
	hub.leave(c)
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Publish("recycling_recorded", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no hub running")
	}
}

func TestHandleWebSocketRejectsBadTokens(t *testing.T) {
	hub := startHub(t)
	verifier := tokenVerifier{"good": 9}

	tests := []struct {
		name    string
		enforce bool
		target  string
	}{
		{"invalid token", true, "/ws?token=bad"},
		{"invalid token in demo mode", false, "/ws?token=bad"},
		{"missing token", true, "/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HandleWebSocket(hub, verifier, middleware.AuthOptions{Enforce: tt.enforce, DemoUserID: 1})
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestHandleWebSocketStreamsEvents(t *testing.T) {
	hub := startHub(t)
	verifier := tokenVerifier{"good": 9}

	srv := httptest.NewServer(HandleWebSocket(hub, verifier, middleware.AuthOptions{Enforce: true}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=good"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return connected(hub, 9) }, time.Second, 10*time.Millisecond)

	hub.Publish("collection_scheduled", map[string]string{"location": "CBD"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "collection_scheduled", ev.Type)
	assert.Equal(t, map[string]interface{}{"location": "CBD"}, ev.Data)

	conn.Close()
	require.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
