package events

import (
	"encoding/json"
	"sync"
	"time"

	"photovault/internal/domain"
	"photovault/internal/modules/gallery"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

const (
	EventImageUploaded  = "image_uploaded"
	EventImageArchived  = "image_archived"
	EventImageRecovered = "image_recovered"
)

// Event is a gallery lifecycle notification pushed to the owner's clients.
type Event struct {
	Type   string       `json:"type"`
	Images []EventImage `json:"images,omitempty"`
}

type EventImage struct {
	ID   int64  `json:"id"`
	Name string `json:"image_name"`
}

// connection is a single WebSocket client. All writes to the socket go
// through the send channel and the write pump; nothing else may write.
type connection struct {
	ownerID string
	conn    *websocket.Conn
	send    chan []byte
}

// Hub tracks one connection per owner. A second connection from the same
// owner replaces the first. Delivery is best effort: a slow client is
// skipped, a failed write drops the connection.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*connection
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*connection),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Closing the replaced socket ends its read pump; its unregister is then
	// a no-op because the map already points at the newcomer.
	if old, ok := h.connections[c.ownerID]; ok && old != c {
		_ = old.conn.Close()
	}
	h.connections[c.ownerID] = c
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[c.ownerID]; ok && existing == c {
		delete(h.connections, c.ownerID)
		close(c.send)
	}
}

// SendToOwner queues an event for the owner's connection. Returns false if
// the owner is offline or the client is too slow to keep up.
func (h *Hub) SendToOwner(ownerID string, event Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.connections[ownerID]
	if !ok {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Attach registers the connection and runs its pumps. Blocks until the
// client disconnects or is replaced.
func (h *Hub) Attach(ownerID string, conn *websocket.Conn) {
	c := &connection{
		ownerID: ownerID,
		conn:    conn,
		send:    make(chan []byte, 64),
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// writePump is the single writer for the connection: queued events plus
// keepalive pings.
func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the socket; the feed is one-way, so inbound frames only
// matter for connection liveness.
func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ownerID, c := range h.connections {
		_ = c.conn.Close()
		delete(h.connections, ownerID)
		close(c.send)
	}
}

// gallery.Notifier implementation

func (h *Hub) ImagesUploaded(ownerID string, images []domain.Image) {
	evt := Event{Type: EventImageUploaded}
	for _, img := range images {
		evt.Images = append(evt.Images, EventImage{ID: img.ID, Name: img.Name})
	}
	h.SendToOwner(ownerID, evt)
}

func (h *Hub) ImageArchived(ownerID string, id int64, name string) {
	h.SendToOwner(ownerID, Event{Type: EventImageArchived, Images: []EventImage{{ID: id, Name: name}}})
}

func (h *Hub) ImageRecovered(ownerID string, id int64, name string) {
	h.SendToOwner(ownerID, Event{Type: EventImageRecovered, Images: []EventImage{{ID: id, Name: name}}})
}

var _ gallery.Notifier = (*Hub)(nil)
