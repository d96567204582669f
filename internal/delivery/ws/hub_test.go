package ws

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-queue/pkg/metrics"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, *metrics.Metrics, string) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := metrics.NewNopMetrics()
	hub := NewHub(log, m)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)
	t.Cleanup(hub.Close)
	return hub, m, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_ForwardsToEveryScreen(t *testing.T) {
	hub, m, url := newTestHub(t)
	first := dial(t, url)
	second := dial(t, url)

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DisplayClients))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	payloads := make(chan string, 1)
	go hub.Forward(ctx, payloads)
	payloads <- `{"type":"ticket.called"}`

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"ticket.called"}`, string(msg))
	}
}

func TestHub_DropsDisconnectedScreens(t *testing.T) {
	hub, m, url := newTestHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DisplayClients))
}

func TestHub_CloseRejectsNewScreens(t *testing.T) {
	hub, _, url := newTestHub(t)
	hub.Close()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		defer conn.Close()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err = conn.ReadMessage()
	}
	assert.Error(t, err)
	assert.Zero(t, hub.ClientCount())
}
