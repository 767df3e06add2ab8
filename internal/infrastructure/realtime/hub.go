// Package realtime fans submission events out to websocket listeners connected
// to this instance.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/actowiz/text-submission-api/internal/api/metrics"
	"github.com/actowiz/text-submission-api/internal/core/domain"
)

const broadcastBuffer = 64

var ErrHubClosed = errors.New("realtime hub closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Listeners authenticate with a bearer token, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub owns the set of connected clients. Only the Run goroutine touches the
// client set; everything else talks to it over channels.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setCount()
			h.log.Info().Str("client_id", c.ID).Str("user_id", c.UserID).Int("total_clients", len(h.clients)).Msg("listener connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.remove(c)
				h.log.Info().Str("client_id", c.ID).Int("total_clients", len(h.clients)).Msg("listener disconnected")
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.remove(c)
					metrics.RealtimeEvictionsTotal.Inc()
					h.log.Warn().Str("client_id", c.ID).Msg("slow listener evicted")
				}
			}
		}
	}
}

// Publish satisfies ports.EventPublisher. The event reaches the clients that are
// registered when the hub processes it; there is no replay.
func (h *Hub) Publish(ctx context.Context, event domain.SubmissionEvent) error {
	msg, err := json.Marshal(Message{Event: domain.EventNewSubmission, Payload: event})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeWS upgrades the request and attaches the connection as a listener for
// userID. Pumps run in their own goroutines; ServeWS returns once the client is
// registered.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade: %w", err)
	}

	c := newClient(h, conn, userID)
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return ErrHubClosed
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// ClientCount is the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.setCount()
}

func (h *Hub) setCount() {
	h.count.Store(int64(len(h.clients)))
	metrics.RealtimeClients.Set(float64(len(h.clients)))
}

func (h *Hub) shutdown() {
	close(h.done)
	for c := range h.clients {
		h.remove(c)
	}
	h.log.Info().Msg("realtime hub stopped")
}
