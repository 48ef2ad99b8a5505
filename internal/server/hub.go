// internal/server/hub.go
package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds how long a stalled browser can hold up a reload broadcast.
const writeWait = 2 * time.Second

// upgrader accepts any origin; the server only ever runs on a developer machine.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  256,
	WriteBufferSize: 256,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub tracks open live-reload sockets. All writes happen under mu, which
// also satisfies gorilla's one-writer-per-connection rule.
type Hub struct {
	mu    sync.Mutex
	conns []*websocket.Conn
}

func newHub() *Hub {
	return &Hub{}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns = append(h.conns, conn)
	n := len(h.conns)
	h.mu.Unlock()
	log.Printf("Live-reload client connected (%d open).", n)
}

// remove drops conn and closes it. Removing an unknown conn is a no-op.
func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, c := range h.conns {
		if c == conn {
			h.conns = append(h.conns[:i], h.conns[i+1:]...)
			conn.Close()
			return
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// broadcastMessage sends message to every client and returns how many got it.
// Clients that can't be written to within writeWait are closed and forgotten.
func (h *Hub) broadcastMessage(message []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	alive := h.conns[:0]
	for _, conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Dropping live-reload client: %v", err)
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	for i := len(alive); i < len(h.conns); i++ {
		h.conns[i] = nil
	}
	h.conns = alive
	return len(alive)
}

// serveWs registers the socket until the browser closes it. Browsers never
// send anything, so reading only serves to notice the close.
func serveWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	hub.add(conn)
	defer hub.remove(conn)

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
