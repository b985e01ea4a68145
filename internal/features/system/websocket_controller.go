package system

import (
	"log"

	"github.com/gofiber/contrib/websocket"
)

type WebSocketController struct {
	hub *Hub
}

func NewWebSocketController(hub *Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// HandleWebSocket streams document events to the connected client until it
// disconnects. Incoming frames are only read to detect the close.
func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	ch := h.hub.Register()
	defer h.hub.Unregister(ch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Println("write:", err)
				return
			}
		case <-done:
			return
		}
	}
}
