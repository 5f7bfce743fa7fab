package dashboard

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nicktill/envmon/pkg/config"
	"github.com/nicktill/envmon/pkg/query"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// No Origin header = non-browser client (curl, tests)
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
}

// RangeRequest is what a range button sends over the socket
type RangeRequest struct {
	Range string `json:"range"`
}

// HandleWebSocket handles GET /v1/ws. The server sends the default view on
// connect and a fresh View for every RangeRequest it receives.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Keep the connection alive. WriteControl is safe alongside the
	// read loop's WriteJSON calls.
	go func() {
		ticker := time.NewTicker(config.WSPingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deadline := time.Now().Add(config.WSWriteDeadline)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadLimit(config.WSMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
		return nil
	})

	if err := h.sendView(conn, query.DefaultSelector); err != nil {
		log.Printf("WebSocket write error: %v", err)
		return
	}

	for {
		var req RangeRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(config.WSReadDeadline))
		if err := h.sendView(conn, query.ParseSelector(req.Range)); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
}

func (h *Handler) sendView(conn *websocket.Conn, sel query.Selector) error {
	conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
	return conn.WriteJSON(BuildView(h.ds, sel))
}
