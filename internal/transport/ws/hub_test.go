package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/framebridge/internal/protocol"
)

func startHub(t *testing.T, cfg Config) (*Hub, string) {
	t.Helper()
	hub := NewHub(cfg, nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := Dial(ctx, url, DefaultConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func recv(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case raw := <-ch:
		return raw
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func silent(t *testing.T, ch <-chan []byte) {
	t.Helper()
	select {
	case raw := <-ch:
		t.Fatalf("unexpected frame %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
}

func encode(t *testing.T, dir protocol.Direction, id string, kind protocol.Kind, p protocol.Payload) []byte {
	t.Helper()
	raw, err := protocol.Encode(dir, id, kind, p)
	require.NoError(t, err)
	return raw
}

func TestHubRoutesByLearnedIdentifier(t *testing.T) {
	hub, url := startHub(t, DefaultConfig())
	a := dial(t, url)
	b := dial(t, url)

	require.Eventually(t, func() bool { return hub.Connections() == 2 }, 2*time.Second, 10*time.Millisecond)

	ready := encode(t, protocol.Outbound, "embed-a", protocol.KindResize, protocol.Resize{Height: 10})
	require.NoError(t, a.Post(ready))
	assert.JSONEq(t, string(ready), string(recv(t, hub.Inbox())))

	connID, ok := hub.Route("embed-a")
	require.True(t, ok)
	assert.NotEmpty(t, connID)

	cmd := encode(t, protocol.Inbound, "embed-a", protocol.KindGetHeight, nil)
	require.NoError(t, hub.Post(cmd))
	assert.JSONEq(t, string(cmd), string(recv(t, a.Inbox())))
	silent(t, b.Inbox())
}

func TestHubBroadcastsUnknownTarget(t *testing.T) {
	hub, url := startHub(t, DefaultConfig())
	a := dial(t, url)
	b := dial(t, url)
	require.Eventually(t, func() bool { return hub.Connections() == 2 }, 2*time.Second, 10*time.Millisecond)

	cmd := encode(t, protocol.Inbound, "embed-unseen", protocol.KindGetInfo, nil)
	require.NoError(t, hub.Post(cmd))

	recv(t, a.Inbox())
	recv(t, b.Inbox())
}

func TestHubRejectsMalformedPost(t *testing.T) {
	hub, _ := startHub(t, DefaultConfig())
	assert.ErrorIs(t, hub.Post([]byte("nope")), protocol.ErrMalformed)
}

func TestHubForgetsClosedConnections(t *testing.T) {
	hub, url := startHub(t, DefaultConfig())
	a := dial(t, url)
	require.NoError(t, a.Post(encode(t, protocol.Outbound, "embed-a", protocol.KindResize, protocol.Resize{Height: 1})))
	recv(t, hub.Inbox())

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.Connections() == 0 }, 2*time.Second, 10*time.Millisecond)
	_, ok := hub.Route("embed-a")
	assert.False(t, ok)
}

func TestOriginFiltering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"https://host.example"}
	_, url := startHub(t, cfg)

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}

	c, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://host.example"}})
	require.NoError(t, err)
	c.Close()
}

func TestCheckOrigin(t *testing.T) {
	cfg := Config{AllowedOrigins: []string{"https://host.example/"}}

	req := httptest.NewRequest(http.MethodGet, "/bridge", nil)
	assert.True(t, cfg.CheckOrigin(req), "no origin header")

	req.Header.Set("Origin", "https://HOST.example")
	assert.True(t, cfg.CheckOrigin(req))

	req.Header.Set("Origin", "https://other.example")
	assert.False(t, cfg.CheckOrigin(req))

	cfg.AllowedOrigins = []string{"https://*.shop.example"}
	req.Header.Set("Origin", "https://eu.shop.example")
	assert.True(t, cfg.CheckOrigin(req))
}
