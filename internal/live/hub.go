// internal/live/hub.go
//
// Live map feed over websockets.
//
// Context
// -------
// The pin service calls Hub as a pin.Notifier after every committed change.
// Hub serialises each event once and fans it out to every connected map
// client.  A client whose send buffer is full is dropped rather than
// allowed to stall the others; the map app reconnects and re-lists.
//
// Workflow
// --------
//  1. hub := live.NewHub(origin)
//  2. go hub.Run(ctx)
//  3. GET /v1/live → hub.Serve(w, r, userID)
//
// Messages are JSON objects:
//
//	{"type":"pin.updated","data":{…view…},"timestamp":"2026-02-16T14:00:00Z"}
package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/metrics"
	"github.com/yanizio/triomap/internal/pin"
)

// Event types.
const (
	EventPinUpdated  = "pin.updated"
	EventPinDeleted  = "pin.deleted"
	EventPinsExpired = "pins.expired"
)

// Message is one frame pushed to clients.
type Message struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	sendBuffer     = 32
	broadcastQueue = 256
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var errHubClosed = errors.New("live: hub closed")

// Hub tracks clients and broadcasts events.  Safe for concurrent use.
type Hub struct {
	upgrader   websocket.Upgrader
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	now        func() time.Time
	log        *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub returns a Hub.  origin restricts the websocket Origin header; an
// empty value or "*" accepts any origin.
func NewHub(origin string) *Hub {
	h := &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastQueue),
		done:       make(chan struct{}),
		now:        func() time.Time { return time.Now().UTC() },
		log:        zap.L().Named("live"),
		clients:    make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if origin == "" || origin == "*" {
				return true
			}
			return r.Header.Get("Origin") == origin
		},
	}
	return h
}

// Run owns the client set until ctx ends, then closes every client.  Call
// it once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			metrics.LiveClients.Set(0)
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.LiveClients.Set(float64(n))
			h.log.Debug("client joined", zap.String("user", c.userID), zap.Int("clients", n))

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*client
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.log.Info("dropping slow client", zap.String("user", c.userID))
				h.drop(c)
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.LiveClients.Set(float64(n))
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request and attaches the connection to the hub.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), userID: userID}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return errHubClosed
	case <-r.Context().Done():
		conn.Close()
		return r.Context().Err()
	}
	go c.writePump()
	go c.readPump()
	return nil
}

/*──────────────────────────── pin.Notifier ────────────────────────────────*/

func (h *Hub) PinUpdated(_ context.Context, v pin.View) error {
	return h.publish(EventPinUpdated, v)
}

func (h *Hub) PinDeleted(_ context.Context, pinID string) error {
	return h.publish(EventPinDeleted, map[string]string{"id": pinID})
}

func (h *Hub) PinsExpired(_ context.Context, n int64) error {
	return h.publish(EventPinsExpired, map[string]int64{"count": n})
}

// publish never blocks the caller; a full queue drops the event.
func (h *Hub) publish(typ string, data any) error {
	raw, err := json.Marshal(Message{Type: typ, Data: data, Timestamp: h.now()})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- raw:
	default:
		h.log.Warn("broadcast queue full, event dropped", zap.String("type", typ))
	}
	return nil
}
