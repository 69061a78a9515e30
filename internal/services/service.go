package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/microsite-ads/backend/internal/events"
	"github.com/microsite-ads/backend/internal/metrics"
	"github.com/microsite-ads/backend/internal/models"
	"github.com/microsite-ads/backend/internal/store"
	"go.uber.org/zap"
)

// Auditor records admin actions. Failures never fail the audited operation.
type Auditor interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

// Actor identifies who triggered an admin action.
type Actor struct {
	ID   string
	Role string
}

var SystemActor = Actor{ID: "system", Role: "system"}

// base carries what every read-modify-write service needs.
type base struct {
	store     store.Store
	auditor   Auditor
	publisher events.Publisher
	now       func() time.Time
	log       *zap.Logger
}

// readForWrite loads the document for a mutation that would otherwise write
// an empty default back over the catalog when the read fails.
func (b *base) readForWrite(ctx context.Context) (*models.CampaignConfig, error) {
	cfg, err := b.store.Load(ctx)
	if err != nil {
		b.log.Error("campaign config read failed", zap.Error(err))
		return nil, persistence(err)
	}
	return cfg, nil
}

func (b *base) write(ctx context.Context, cfg *models.CampaignConfig) error {
	err := b.store.Write(ctx, cfg)
	metrics.StoreWrites.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		b.log.Error("campaign config write failed", zap.Error(err))
		return persistence(err)
	}
	return nil
}

func (b *base) audit(ctx context.Context, actor Actor, action, slug string, meta map[string]any) {
	if b.auditor == nil {
		return
	}
	err := b.auditor.Log(ctx, models.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "product",
		EntityID:   slug,
		Meta:       meta,
		CreatedAt:  b.now(),
	})
	if err != nil {
		b.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func (b *base) emit(ctx context.Context, eventType string, payload map[string]any) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(ctx, events.StreamAds, events.Event{Type: eventType, Payload: payload}); err != nil {
		b.log.Debug("event publish failed", zap.String("type", eventType), zap.Error(err))
	}
}
