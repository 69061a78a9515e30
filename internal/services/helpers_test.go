package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/microsite-ads/backend/internal/adsplatform"
	"github.com/microsite-ads/backend/internal/models"
	"github.com/microsite-ads/backend/internal/store"
)

var admin = Actor{ID: "op-1", Role: "admin"}

type fakePlatform struct {
	mu        sync.Mutex
	publishes []adsplatform.PublishRequest
	err       error
}

func (f *fakePlatform) ListAccounts(ctx context.Context) ([]adsplatform.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []adsplatform.Account{{CustomerID: "1234567890", Name: "Main"}}, nil
}

func (f *fakePlatform) ListCampaigns(ctx context.Context, customerID string) ([]adsplatform.CampaignSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []adsplatform.CampaignSummary{{ID: "1", Name: "Amino"}}, nil
}

func (f *fakePlatform) GetMetrics(ctx context.Context, customerID string, days int) (*adsplatform.Metrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &adsplatform.Metrics{CustomerID: customerID, Days: days}, nil
}

func (f *fakePlatform) PublishAd(ctx context.Context, req adsplatform.PublishRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.publishes = append(f.publishes, req)
	return "customers/" + adsplatform.NormalizeCustomerID(req.CustomerID) + "/adGroupAds/" + req.AdGroupID + "~1", nil
}

func (f *fakePlatform) ListConversionActions(ctx context.Context, customerID string) ([]adsplatform.ConversionAction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

type fakeAuditor struct {
	mu      sync.Mutex
	entries []models.AuditLog
	err     error
}

func (f *fakeAuditor) Log(ctx context.Context, entry models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditor) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

// tick returns a clock that advances one second per call.
func tick() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func seeded(products map[string]*models.ProductConfig) *store.MemoryStore {
	st := store.NewMemoryStore(false)
	cfg := models.NewCampaignConfig()
	cfg.Products = products
	st.Seed(cfg)
	return st
}

func product(slug, name, vertical string) *models.ProductConfig {
	return &models.ProductConfig{
		Slug:        slug,
		Name:        name,
		Vertical:    vertical,
		Language:    "en",
		Status:      models.ProductStatusActive,
		OfficialURL: "https://" + slug + ".example.com/",
	}
}

var errBoom = errors.New("boom")
