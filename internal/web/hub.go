package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Frame is one tick's worth of display state, broadcast to every connected
// /live client as a JSON text message.
type Frame struct {
	P1   PlayerFrame `json:"p1"`
	P2   PlayerFrame `json:"p2"`
	Sync SyncFrame   `json:"sync"`
}

// PlayerFrame is the per-player slice of a Frame.
type PlayerFrame struct {
	Position  float64     `json:"y"`
	Angle     float64     `json:"angle"`
	Frequency float64     `json:"freq"`
	Idle      bool        `json:"idle"`
	Returning bool        `json:"returning"`
	Rings     []RingFrame `json:"rings,omitempty"`
}

// RingFrame is one attract pulse ring in flight.
type RingFrame struct {
	Frac float64 `json:"frac"`
	Fade float64 `json:"fade"`
}

// SyncFrame carries the synchronization evaluator state.
type SyncFrame struct {
	Progress float64 `json:"progress"`
	Locked   bool    `json:"locked"`
}

const (
	clientSendBuffer = 8
	writeTimeout     = 5 * time.Second
)

// Hub fans Frames out to websocket clients. Clients that cannot keep up with
// the tick rate are dropped rather than allowed to stall the loop.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The display page is served from this same host, but the
			// operator may also open it from a laptop on the exhibit LAN.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request to a websocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientSendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast sends the frame to every client. A client whose send buffer is
// full is removed on the spot.
func (h *Hub) Broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		log.Printf("web: frame marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
	h.mu.Unlock()
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// remove unregisters the client if it is still registered, closing its send
// channel exactly once.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// writePump drains the client's send channel onto the wire. It exits when the
// channel is closed or a write fails.
func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards inbound messages. The stream is one-way; reading is only
// needed to notice when the client goes away.
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			c.conn.Close()
			return
		}
	}
}
