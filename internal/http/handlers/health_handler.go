package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Prober interface {
	Probe(ctx context.Context) error
}

type HealthHandler struct {
	store Prober
	log   *zap.Logger
}

func NewHealthHandler(store Prober, log *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, log: log}
}

// Health reports "degraded" when the config document cannot be read, which
// the store itself hides behind an empty catalog.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if err := h.store.Probe(c.UserContext()); err != nil {
		h.log.Warn("health: store probe failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "store": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
