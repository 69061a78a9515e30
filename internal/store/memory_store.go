package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/microsite-ads/backend/internal/models"
)

// MemoryStore keeps the serialized document in process memory. It is used for
// local development and by tests; ReadErr and WriteErr inject failures.
type MemoryStore struct {
	mu         sync.Mutex
	data       []byte
	optimistic bool
	writes     int

	ReadErr  error
	WriteErr error
}

func NewMemoryStore(optimistic bool) *MemoryStore {
	return &MemoryStore{optimistic: optimistic}
}

// Seed replaces the stored document without counting as a write.
func (s *MemoryStore) Seed(cfg *models.CampaignConfig) {
	data, err := json.Marshal(cfg)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// Writes returns the number of successful writes.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *MemoryStore) Read(ctx context.Context) *models.CampaignConfig {
	cfg, err := s.load()
	if err != nil {
		return models.NewCampaignConfig()
	}
	return cfg
}

func (s *MemoryStore) Load(ctx context.Context) (*models.CampaignConfig, error) {
	return s.load()
}

func (s *MemoryStore) Probe(ctx context.Context) error {
	_, err := s.load()
	return err
}

func (s *MemoryStore) load() (*models.CampaignConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	if s.data == nil {
		return models.NewCampaignConfig(), nil
	}
	return decode(s.data)
}

func (s *MemoryStore) Write(ctx context.Context, cfg *models.CampaignConfig) error {
	data, next, err := encodeNext(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	if s.optimistic && s.data != nil {
		stored, err := decode(s.data)
		if err != nil {
			return err
		}
		if stored.Revision != cfg.Revision {
			return fmt.Errorf("%w: stored revision %d, have %d", ErrStaleWrite, stored.Revision, cfg.Revision)
		}
	}
	s.data = data
	s.writes++
	cfg.Revision = next
	return nil
}
