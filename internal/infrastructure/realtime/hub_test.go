package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actowiz/text-submission-api/internal/core/domain"
)

type envelope struct {
	Event   string                 `json:"event"`
	Payload domain.SubmissionEvent `json:"payload"`
}

func startHub(t *testing.T) (*Hub, string, context.CancelFunc) {
	t.Helper()

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, r.URL.Query().Get("user"))
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http"), cancel
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg envelope
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishReachesEveryConnectedListener(t *testing.T) {
	hub, url, _ := startHub(t)

	a := dial(t, url+"?user=a")
	b := dial(t, url+"?user=b")
	waitForClients(t, hub, 2)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, hub.Publish(context.Background(), domain.SubmissionEvent{
		Username:       "a@example.com",
		SubmissionTime: ts,
		SubmittedText:  "hello",
	}))

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readEvent(t, conn)
		assert.Equal(t, domain.EventNewSubmission, msg.Event)
		assert.Equal(t, "a@example.com", msg.Payload.Username)
		assert.Equal(t, "hello", msg.Payload.SubmittedText)
		assert.True(t, ts.Equal(msg.Payload.SubmissionTime))
	}
}

func TestHub_LateListenerGetsNoReplay(t *testing.T) {
	hub, url, _ := startHub(t)

	early := dial(t, url)
	waitForClients(t, hub, 1)

	require.NoError(t, hub.Publish(context.Background(), domain.SubmissionEvent{SubmittedText: "first"}))
	assert.Equal(t, "first", readEvent(t, early).Payload.SubmittedText)

	late := dial(t, url)
	waitForClients(t, hub, 2)

	require.NoError(t, hub.Publish(context.Background(), domain.SubmissionEvent{SubmittedText: "second"}))
	assert.Equal(t, "second", readEvent(t, late).Payload.SubmittedText)
	assert.Equal(t, "second", readEvent(t, early).Payload.SubmittedText)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, url, _ := startHub(t)

	conn := dial(t, url)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestHub_PublishAfterStop(t *testing.T) {
	hub, url, cancel := startHub(t)

	conn := dial(t, url)
	waitForClients(t, hub, 1)

	cancel()
	waitForClients(t, hub, 0)

	err := hub.Publish(context.Background(), domain.SubmissionEvent{SubmittedText: "late"})
	assert.ErrorIs(t, err, ErrHubClosed)

	// The listener is told to go away.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
