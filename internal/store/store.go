// Package store persists the campaign configuration as a single serialized
// document. Every write replaces the whole document; there are no partial
// updates, so callers read, mutate in memory and write the full document back.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/microsite-ads/backend/internal/models"
)

// ErrStaleWrite is returned by Write when optimistic locking is enabled and
// the stored revision moved since the document was read.
var ErrStaleWrite = errors.New("campaign config was modified concurrently")

type Store interface {
	// Read never fails: on any transport or decode error it returns an empty
	// default configuration. Use Probe to tell a read error from an empty catalog.
	Read(ctx context.Context) *models.CampaignConfig
	// Load is Read without the fallback. Operations that write back a document
	// they could not have built from scratch must use it.
	Load(ctx context.Context) (*models.CampaignConfig, error)
	// Write overwrites the whole document and bumps its revision.
	Write(ctx context.Context, cfg *models.CampaignConfig) error
	// Probe performs a read and reports the underlying error, if any.
	Probe(ctx context.Context) error
}

func decode(data []byte) (*models.CampaignConfig, error) {
	cfg := models.NewCampaignConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

// encodeNext serializes cfg as it will look after a successful write.
func encodeNext(cfg *models.CampaignConfig) ([]byte, int64, error) {
	next := cfg.Revision + 1
	cp := *cfg
	cp.Revision = next
	data, err := json.Marshal(&cp)
	if err != nil {
		return nil, 0, err
	}
	return data, next, nil
}
