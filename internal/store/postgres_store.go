package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/microsite-ads/backend/internal/models"
	"go.uber.org/zap"
)

// PostgresStore keeps the document in the kv_store table (see migrations).
type PostgresStore struct {
	pool       *pgxpool.Pool
	key        string
	optimistic bool
	log        *zap.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, key string, optimistic bool, log *zap.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, key: key, optimistic: optimistic, log: log}
}

func (s *PostgresStore) Read(ctx context.Context) *models.CampaignConfig {
	cfg, err := s.load(ctx)
	if err != nil {
		s.log.Warn("campaign config read failed, serving empty config", zap.String("key", s.key), zap.Error(err))
		return models.NewCampaignConfig()
	}
	return cfg
}

func (s *PostgresStore) Load(ctx context.Context) (*models.CampaignConfig, error) {
	return s.load(ctx)
}

func (s *PostgresStore) Probe(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

func (s *PostgresStore) load(ctx context.Context) (*models.CampaignConfig, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, s.key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewCampaignConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (s *PostgresStore) Write(ctx context.Context, cfg *models.CampaignConfig) error {
	data, next, err := encodeNext(cfg)
	if err != nil {
		return err
	}

	if !s.optimistic {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO kv_store (key, value, revision, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, revision = EXCLUDED.revision, updated_at = now()
		`, s.key, data, next)
		if err != nil {
			return err
		}
		cfg.Revision = next
		return nil
	}

	var tag pgconn.CommandTag
	if cfg.Revision == 0 {
		tag, err = s.pool.Exec(ctx, `
			INSERT INTO kv_store (key, value, revision, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (key) DO NOTHING
		`, s.key, data, next)
	} else {
		tag, err = s.pool.Exec(ctx, `
			UPDATE kv_store SET value = $2, revision = $3, updated_at = now()
			WHERE key = $1 AND revision = $4
		`, s.key, data, next, cfg.Revision)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: revision %d", ErrStaleWrite, cfg.Revision)
	}
	cfg.Revision = next
	return nil
}
