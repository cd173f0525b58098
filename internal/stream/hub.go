// Package stream pushes tracker updates to websocket clients.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"market-sentiment/internal/logger"
	"market-sentiment/internal/metrics"
	"market-sentiment/internal/types"
)

// Update types
const (
	TypeConnection = "connection"
	TypeSentiment  = "sentiment"
	TypeStock      = "stock"
)

const broadcastBuffer = 256

// Update is one message sent to every connected client.
type Update struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Symbol    string    `json:"symbol,omitempty"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans updates out to clients. Run must be running for clients to
// connect and for published updates to be delivered.
type Hub struct {
	clients    map[*client]struct{}
	broadcast  chan Update
	register   chan *client
	unregister chan *client
	done       chan struct{}
	count      chan int
	upgrader   websocket.Upgrader
	now        func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan Update, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		count:      make(chan int),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard clients are served from other origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		now: time.Now,
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.StreamClients.Set(float64(len(h.clients)))
			logger.Debug(ctx, "Stream client connected", "remote", c.remote, "clients", len(h.clients))
			if b, err := json.Marshal(h.stamp(Update{
				Type:    TypeConnection,
				Message: "connected",
				Data:    map[string]int{"clients": len(h.clients)},
			})); err == nil {
				c.send <- b
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				logger.Debug(ctx, "Stream client disconnected", "remote", c.remote, "clients", len(h.clients))
			}

		case u := <-h.broadcast:
			b, err := json.Marshal(u)
			if err != nil {
				logger.ErrorWithErr(ctx, "Failed to encode stream update", err, "type", u.Type)
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- b:
				default:
					// slow consumer
					h.drop(c)
				}
			}

		case h.count <- len(h.clients):
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	metrics.StreamClients.Set(float64(len(h.clients)))
}

func (h *Hub) stamp(u Update) Update {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Timestamp.IsZero() {
		u.Timestamp = h.now().UTC()
	}
	return u
}

// Publish queues u for delivery. It never blocks; false means the update
// was dropped.
func (h *Hub) Publish(u Update) bool {
	u = h.stamp(u)
	select {
	case h.broadcast <- u:
		metrics.StreamUpdates.WithLabelValues(u.Type, "queued").Inc()
		return true
	default:
		metrics.StreamUpdates.WithLabelValues(u.Type, "dropped").Inc()
		return false
	}
}

// PublishEntry turns a tracker entry into an update. It matches the
// tracker listener signature.
func (h *Hub) PublishEntry(e types.HistoryEntry) {
	u := Update{Symbol: e.Symbol, Timestamp: e.Timestamp.UTC()}
	if e.Stock != nil {
		u.Type = TypeStock
		u.Message = fmt.Sprintf("%s %s (%.2f)", e.Symbol, e.Stock.Trend, e.Stock.OverallSentiment)
		u.Data = e.Stock
	} else {
		u.Type = TypeSentiment
		u.Message = fmt.Sprintf("%s (%.2f): %s", e.Sentiment.Label, e.Sentiment.Score, truncate(e.Text, 80))
		u.Data = e.Sentiment
	}
	h.Publish(u)
}

// ClientCount reports connected clients, 0 once the hub has stopped.
func (h *Hub) ClientCount() int {
	select {
	case n := <-h.count:
		return n
	case <-h.done:
		return 0
	}
}

// ServeHTTP upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		logger.Warn(r.Context(), "Stream upgrade failed", "error", err.Error())
		return
	}
	c := newClient(h, conn)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
