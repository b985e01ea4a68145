package system

import (
	"encoding/json"
	"log"
	"sync"

	"go-obra/internal/common/models"
)

// Hub fans document events out to every connected websocket client. Sends
// are non-blocking: a client that can't keep up loses frames, never the
// other way around.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[chan []byte]struct{}),
	}
}

// Register adds a client and returns its send channel.
func (h *Hub) Register() chan []byte {
	ch := make(chan []byte, 16)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Broadcast sends a document event to all clients.
func (h *Hub) Broadcast(evt models.DocEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Println("event marshal:", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- payload:
		default:
			// slow client, drop the frame
		}
	}
}
