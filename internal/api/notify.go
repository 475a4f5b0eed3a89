package api

import (
	"context"
	"net/http"
	"sync"

	"crew_loyalty/internal/telemetry"
	"crew_loyalty/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// pushKinds are the event kinds forwarded to connected clients. Progress and
// sync events are too chatty for a notification stream.
var pushKinds = map[string]struct{}{
	telemetry.EventChallengeCompleted: {},
	telemetry.EventTierChanged:        {},
	telemetry.EventMilestoneReached:   {},
	telemetry.EventClubJoined:         {},
}

// NotifyHub pushes loyalty events to per-user websocket connections. It
// implements telemetry.Emitter, so it plugs into the same fan-out as the log
// and Kafka sinks.
type NotifyHub struct {
	mu    sync.RWMutex
	conns map[string][]*websocket.Conn
}

func NewNotifyHub() *NotifyHub {
	return &NotifyHub{conns: make(map[string][]*websocket.Conn)}
}

type notification struct {
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload,omitempty"`
}

func (h *NotifyHub) Emit(_ context.Context, event telemetry.Event) {
	if _, ok := pushKinds[event.Kind]; !ok {
		return
	}

	h.mu.RLock()
	conns := append([]*websocket.Conn(nil), h.conns[event.UserID]...)
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	out, err := json.Marshal(notification{Kind: event.Kind, Payload: event.Payload})
	if err != nil {
		logger.Logger().Error("failed to marshal notification", zap.Error(err))
		return
	}

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			h.remove(event.UserID, conn)
		}
	}
}

func (h *NotifyHub) add(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[userID] = append(h.conns[userID], conn)
	h.mu.Unlock()
}

func (h *NotifyHub) remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.conns[userID]
	for i, c := range conns {
		if c == conn {
			h.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
	conn.Close()
}

type notifyRoutes struct {
	hub *NotifyHub
}

func NewNotifyRoutes(handler *gin.RouterGroup, hub *NotifyHub) {
	r := &notifyRoutes{hub: hub}
	h := handler.Group("/notifications")
	h.GET("/:user_id/ws", r.handleWebSocket)
}

func (r *notifyRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	userID := c.Param("user_id")
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	r.hub.add(userID, conn)

	// Drain the read side until the client disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				r.hub.remove(userID, conn)
				return
			}
		}
	}()
}
