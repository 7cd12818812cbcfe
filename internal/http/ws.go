package http

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nurpe/ecosort/internal/simulator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Demo dashboard, any origin may subscribe.
		return true
	},
}

// TelemetryHub fans simulator tick events out to connected dashboards.
type TelemetryHub struct {
	log zerolog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewTelemetryHub(log zerolog.Logger) *TelemetryHub {
	return &TelemetryHub{
		log:   log,
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Broadcast pushes one tick event to every subscriber. Failed connections
// are dropped.
func (h *TelemetryHub) Broadcast(event simulator.TickEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			h.log.Debug().Err(err).Msg("dropping telemetry subscriber")
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Handle upgrades the request and keeps the connection registered until
// the peer goes away. Inbound messages are discarded.
func (h *TelemetryHub) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	h.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("telemetry subscriber connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}
