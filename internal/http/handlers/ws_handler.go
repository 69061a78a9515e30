package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/microsite-ads/backend/internal/auth"
	"github.com/microsite-ads/backend/internal/config"
	"github.com/microsite-ads/backend/internal/events"
	"github.com/microsite-ads/backend/internal/middleware"
	"github.com/microsite-ads/backend/internal/rbac"
	"go.uber.org/zap"
)

// wsWriteTimeout bounds a single event write so a stalled dashboard cannot
// hold up the feed for everyone else.
const wsWriteTimeout = 5 * time.Second

type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// WSHub pushes ads lifecycle events to connected admin dashboards.
type WSHub struct {
	cfg         *config.Config
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.RWMutex
	connections map[string][]wsConn
}

func NewWSHub(cfg *config.Config, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		cfg:         cfg,
		subscriber:  subscriber,
		log:         log,
		connections: make(map[string][]wsConn),
	}
}

// Start subscribes to the ads event stream. A nil subscriber disables the feed.
func (h *WSHub) Start(ctx context.Context) {
	if h.subscriber == nil {
		return
	}
	if err := h.subscriber.Subscribe(ctx, events.StreamAds, h.broadcast); err != nil {
		h.log.Warn("ws hub: subscribe failed, live feed disabled", zap.Error(err))
	}
}

type wsTarget struct {
	actorID string
	conn    wsConn
}

func (h *WSHub) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]wsTarget, 0, len(h.connections))
	for actorID, conns := range h.connections {
		for _, conn := range conns {
			targets = append(targets, wsTarget{actorID: actorID, conn: conn})
		}
	}
	h.mu.RUnlock()

	for _, t := range targets {
		if err := t.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err == nil {
			err = t.conn.WriteMessage(websocket.TextMessage, data)
		}
		if err != nil {
			h.log.Debug("ws hub: dropping connection", zap.String("actor", t.actorID), zap.Error(err))
			h.unregister(t.actorID, t.conn)
		}
	}
}

func (h *WSHub) register(actorID string, conn wsConn) {
	h.mu.Lock()
	h.connections[actorID] = append(h.connections[actorID], conn)
	h.mu.Unlock()
}

// unregister removes and closes conn. Calling it twice is harmless.
func (h *WSHub) unregister(actorID string, conn wsConn) {
	h.mu.Lock()
	conns := h.connections[actorID]
	for i, c := range conns {
		if c == conn {
			h.connections[actorID] = append(conns[:i:i], conns[i+1:]...)
			break
		}
	}
	if len(h.connections[actorID]) == 0 {
		delete(h.connections, actorID)
	}
	h.mu.Unlock()
	_ = conn.Close()
}

// Clients returns the number of open connections.
func (h *WSHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.connections {
		n += len(conns)
	}
	return n
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// authenticate resolves the ?token= query value to an actor id and role.
func (h *WSHub) authenticate(token string) (string, string, bool) {
	if token == "" {
		return "", "", false
	}
	if h.cfg.AdminAPIToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.AdminAPIToken)) == 1 {
		return middleware.StaticTokenActor, rbac.RoleAdmin, true
	}
	claims, err := auth.ParseJWT(h.cfg.JWTSecret, token)
	if err != nil {
		return "", "", false
	}
	return claims.Subject, claims.Role, true
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	actorID, role, ok := h.authenticate(conn.Query("token"))
	if !ok {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
		conn.Close()
		return
	}
	if !rbac.HasPermission(role, rbac.PermWatchEvents) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"permission denied"}`))
		conn.Close()
		return
	}

	h.register(actorID, conn)
	defer h.unregister(actorID, conn)

	// Read loop (keep alive / pings)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
