package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with default settings
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (can be restricted in production)
		return true
	},
}

const heartbeatInterval = 30 * time.Second

// HandleChangeStream upgrades the connection to a websocket and streams
// commit/abort events from the attached change feed hub until the client
// disconnects. There is no subscription handshake: a connection simply
// watches every transaction outcome from the moment it connects.
func (h *Handlers) HandleChangeStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("changestream: upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		if h.changes == nil {
			conn.WriteJSON(map[string]string{"type": "error", "message": "change feed disabled"})
			return
		}

		sub := h.changes.Subscribe()
		defer sub.Close()

		// Drain client-sent frames on a separate goroutine so a client close
		// is noticed promptly; this endpoint has nothing to read from the
		// client beyond detecting disconnect.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-closed:
				return
			case evt, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.WriteJSON(map[string]string{"type": "heartbeat"}); err != nil {
					return
				}
			}
		}
	}
}
