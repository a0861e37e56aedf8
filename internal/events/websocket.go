package events

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local dashboard only
	},
}

// WebSocketBridge subscribes to a Bus and relays every Reading to
// connected WebSocket clients as JSON.
type WebSocketBridge struct {
	bus    *Bus
	logger *log.Logger
}

// NewWebSocketBridge returns a bridge over bus.
func NewWebSocketBridge(bus *Bus, logger *log.Logger) *WebSocketBridge {
	return &WebSocketBridge{bus: bus, logger: logger}
}

// HandleWebSocket upgrades the request and streams readings to the client
// until a write to it fails (which is how a disconnect is noticed) or the
// subscription is closed. The request context is not watched.
func (w *WebSocketBridge) HandleWebSocket(rw http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		if w.logger != nil {
			w.logger.Error("websocket upgrade failed", "err", err)
		}
		return
	}
	defer conn.Close()

	sub := w.bus.Subscribe(16)
	defer w.bus.Unsubscribe(sub)

	for reading := range sub {
		data, err := json.Marshal(reading)
		if err != nil {
			if w.logger != nil {
				w.logger.Error("reading marshal failed", "err", err)
			}
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
