package services

import (
	"context"
	"sort"
	"strings"

	"github.com/microsite-ads/backend/internal/events"
	"github.com/microsite-ads/backend/internal/metrics"
	"github.com/microsite-ads/backend/internal/models"
	"go.uber.org/zap"
)

// Ghost detection rules. They are plain string matches and can hit a
// legitimately named product; keep them narrow.
var placeholderNames = []string{"Untitled Product"}

const (
	garbageMarker  = "[object Object]"
	ghostKeyPrefix = "other:"
)

type CleanupResult struct {
	Deleted []string `json:"deleted"`
}

// isGhost indexes by map key, never by the embedded slug field.
func isGhost(key string, p *models.ProductConfig) bool {
	if p == nil {
		return false
	}
	for _, name := range placeholderNames {
		if p.Name == name {
			return true
		}
	}
	if strings.Contains(p.Name, garbageMarker) {
		return true
	}
	return strings.HasPrefix(key, ghostKeyPrefix) && models.IsUnclassifiedVertical(p.Vertical)
}

// Cleanup removes ghost products in one write. A scan that finds nothing writes nothing.
func (s *ProductService) Cleanup(ctx context.Context, actor Actor) (*CleanupResult, error) {
	cfg := s.store.Read(ctx)

	res := &CleanupResult{Deleted: []string{}}
	for key, p := range cfg.Products {
		if isGhost(key, p) {
			res.Deleted = append(res.Deleted, key)
		}
	}
	if len(res.Deleted) == 0 {
		return res, nil
	}
	sort.Strings(res.Deleted)

	for _, key := range res.Deleted {
		delete(cfg.Products, key)
		if cfg.ActiveProductSlug == key {
			cfg.ActiveProductSlug = ""
		}
	}
	if err := s.write(ctx, cfg); err != nil {
		return nil, err
	}
	metrics.ProductsDeleted.WithLabelValues("cleanup").Add(float64(len(res.Deleted)))

	s.log.Info("ghost products removed", zap.Strings("deleted", res.Deleted))
	s.audit(ctx, actor, "products_cleaned", "", map[string]any{"deleted": res.Deleted})
	s.emit(ctx, events.EventProductsCleaned, map[string]any{"deleted": res.Deleted})
	return res, nil
}
