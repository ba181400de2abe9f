// Package live broadcasts newly persisted readings to connected
// websocket dashboards. Delivery is best-effort: a slow client never
// blocks the submission path.
package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// Hub tracks dashboard connections and fans out entry events.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
}

func NewHub() *Hub {
	h := &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		clients:    make(map[*websocket.Conn]bool),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Live feed client connected. Total: %d", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔌 Live feed client disconnected. Total: %d", total)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Handle keeps the connection registered until the client goes away.
// Incoming frames are drained and ignored.
func (h *Hub) Handle(conn *websocket.Conn) {
	h.register <- conn
	defer func() {
		h.unregister <- conn
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// EntryMessage is the wire shape of one broadcast reading.
type EntryMessage struct {
	Type        string  `json:"type"`
	UserID      int64   `json:"user_id"`
	IdealWeight float64 `json:"ideal_weight"`
	CreatedAt   string  `json:"created_at"`
}

// PublishEntry queues one entry event for broadcast. Drops the event if
// the channel is full or nobody is listening.
func (h *Hub) PublishEntry(userID int64, idealWeight float64, createdAt time.Time) {
	h.mu.RLock()
	listeners := len(h.clients)
	h.mu.RUnlock()
	if listeners == 0 {
		return
	}

	data, err := json.Marshal(EntryMessage{
		Type:        "entry",
		UserID:      userID,
		IdealWeight: idealWeight,
		CreatedAt:   createdAt.Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// channel full, skip
	}
}
