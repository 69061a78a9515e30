package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/microsite-ads/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisStore struct {
	client     *redis.Client
	key        string
	optimistic bool
	log        *zap.Logger
}

func NewRedisStore(client *redis.Client, key string, optimistic bool, log *zap.Logger) *RedisStore {
	return &RedisStore{client: client, key: key, optimistic: optimistic, log: log}
}

func (s *RedisStore) Read(ctx context.Context) *models.CampaignConfig {
	cfg, err := s.load(ctx, s.client)
	if err != nil {
		s.log.Warn("campaign config read failed, serving empty config", zap.String("key", s.key), zap.Error(err))
		return models.NewCampaignConfig()
	}
	return cfg
}

func (s *RedisStore) Load(ctx context.Context) (*models.CampaignConfig, error) {
	return s.load(ctx, s.client)
}

func (s *RedisStore) Probe(ctx context.Context) error {
	_, err := s.load(ctx, s.client)
	return err
}

func (s *RedisStore) load(ctx context.Context, c redis.Cmdable) (*models.CampaignConfig, error) {
	data, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCampaignConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (s *RedisStore) Write(ctx context.Context, cfg *models.CampaignConfig) error {
	data, next, err := encodeNext(cfg)
	if err != nil {
		return err
	}

	if !s.optimistic {
		if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
			return err
		}
		cfg.Revision = next
		return nil
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.storedRevision(ctx, tx)
		if err != nil {
			return err
		}
		if current != cfg.Revision {
			return fmt.Errorf("%w: stored revision %d, have %d", ErrStaleWrite, current, cfg.Revision)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}, s.key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleWrite
	}
	if err != nil {
		return err
	}
	cfg.Revision = next
	return nil
}

func (s *RedisStore) storedRevision(ctx context.Context, tx *redis.Tx) (int64, error) {
	data, err := tx.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var head struct {
		Revision int64 `json:"_rev"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0, err
	}
	return head.Revision, nil
}
