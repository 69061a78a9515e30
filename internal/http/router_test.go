package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/microsite-ads/backend/internal/adsplatform"
	"github.com/microsite-ads/backend/internal/auth"
	"github.com/microsite-ads/backend/internal/config"
	"github.com/microsite-ads/backend/internal/generator"
	"github.com/microsite-ads/backend/internal/http/handlers"
	"github.com/microsite-ads/backend/internal/linkcheck"
	"github.com/microsite-ads/backend/internal/models"
	"github.com/microsite-ads/backend/internal/rbac"
	"github.com/microsite-ads/backend/internal/services"
	"github.com/microsite-ads/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminToken = "test-admin-token-0123456789"

type stubPlatform struct {
	adsplatform.Unconfigured
	publishErr error
}

func (p *stubPlatform) PublishAd(ctx context.Context, req adsplatform.PublishRequest) (string, error) {
	if p.publishErr != nil {
		return "", p.publishErr
	}
	return "customers/" + req.CustomerID + "/adGroupAds/" + req.AdGroupID + "~42", nil
}

type stubChecker struct{}

func (stubChecker) Check(ctx context.Context, url string) (*linkcheck.Report, error) {
	return &linkcheck.Report{URL: url, OK: true, StatusCode: 200, Language: "en"}, nil
}

type testEnv struct {
	app      *fiber.App
	store    *store.MemoryStore
	platform *stubPlatform
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:     "secret",
		AdminAPIToken: adminToken,
		OfflinePath:   "/offline",
		PublicBaseURL: "https://site.example",
	}
	log := zap.NewNop()

	st := store.NewMemoryStore(false)
	seed := models.NewCampaignConfig()
	seed.Products["amino"] = &models.ProductConfig{
		Slug: "amino", Name: "Amino Boost", Vertical: models.VerticalHealth, Language: "en",
		Status: models.ProductStatusActive, AffiliateURL: "https://aff.example.com/amino?aff=XYZ",
	}
	seed.Products["drill"] = &models.ProductConfig{
		Slug: "drill", Name: "Power Drill", Vertical: models.VerticalDIY, Language: "en",
		Status: models.ProductStatusActive, OfficialURL: "https://drill.example.com/",
	}
	seed.Products["ghost"] = &models.ProductConfig{Slug: "ghost", Name: "Untitled Product", Vertical: models.VerticalGeneral}
	st.Seed(seed)

	platform := &stubPlatform{}
	gen, err := generator.New(cfg.PublicBaseURL)
	require.NoError(t, err)
	adsService := services.NewAdsService(st, gen, platform, nil, nil, log)
	productService := services.NewProductService(st, "AW-1", nil, nil, log)
	resolver := services.NewRedirectResolver(st, "", cfg.OfflinePath, nil, log)

	app := fiber.New()
	SetupRouter(app, cfg, log, nil,
		handlers.NewHealthHandler(st, log),
		handlers.NewAdsHandler(adsService, log),
		handlers.NewProductHandler(productService, stubChecker{}, nil, log),
		handlers.NewPlatformHandler(adsService, log),
		handlers.NewRedirectHandler(resolver, log),
		handlers.NewWSHub(cfg, nil, log),
	)
	return &testEnv{app: app, store: st, platform: platform, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && json.Valid(data) {
		require.NoError(t, json.Unmarshal(data, &out))
	}
	return resp, out
}

func TestGenerateAndPublish(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, nethttp.MethodPost, "/api/v1/admin/ads/generate", adminToken, map[string]any{"slug": "amino"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["campaigns"])

	resp, body = env.do(t, nethttp.MethodPost, "/api/v1/admin/ads/publish", adminToken, map[string]any{
		"slug": "amino", "customerId": "123-456-7890", "adGroupId": "9", "campaignId": "3",
		"adData": map[string]any{"headlines": []string{"Amino"}, "descriptions": []string{"Buy now"}},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "customers/123-456-7890/adGroupAds/9~42", body["resourceName"])
	assert.NotNil(t, body["publication"])

	p := env.store.Read(t.Context()).Product("amino")
	assert.Equal(t, models.AdsStatusPublished, p.Ads.Status)
}

func TestPublishUpstreamError(t *testing.T) {
	env := newTestEnv(t)
	env.platform.publishErr = errors.New("google ads returned 403: PERMISSION_DENIED")

	resp, _ := env.do(t, nethttp.MethodPost, "/api/v1/admin/ads/generate", adminToken, map[string]any{"slug": "amino"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := env.do(t, nethttp.MethodPost, "/api/v1/admin/ads/publish", adminToken, map[string]any{
		"slug": "amino", "customerId": "1", "adGroupId": "9",
		"adData": map[string]any{"headlines": []string{"Amino"}, "descriptions": []string{"Buy now"}},
	})
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "google ads returned 403: PERMISSION_DENIED", body["error"])
	assert.Equal(t, models.AdsStatusReady, env.store.Read(t.Context()).Product("amino").Ads.Status)
}

func TestErrorMapping(t *testing.T) {
	env := newTestEnv(t)

	slugs := make([]string, 21)
	for i := range slugs {
		slugs[i] = "amino"
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing slug", nethttp.MethodPost, "/api/v1/admin/ads/generate", map[string]any{}, fiber.StatusBadRequest},
		{"unknown slug", nethttp.MethodPost, "/api/v1/admin/ads/generate", map[string]any{"slug": "nope"}, fiber.StatusNotFound},
		{"batch too large", nethttp.MethodPost, "/api/v1/admin/ads/generate-batch", map[string]any{"slugs": slugs}, fiber.StatusBadRequest},
		{"publish without ad data", nethttp.MethodPost, "/api/v1/admin/ads/publish", map[string]any{"slug": "amino", "customerId": "1", "adGroupId": "2"}, fiber.StatusBadRequest},
		{"unconfigured platform", nethttp.MethodGet, "/api/v1/admin/platform/accounts", nil, fiber.StatusBadGateway},
		{"unknown product", nethttp.MethodGet, "/api/v1/admin/products/nope", nil, fiber.StatusNotFound},
		{"no audit log", nethttp.MethodGet, "/api/v1/admin/products/amino/history", nil, fiber.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, tt.method, tt.path, adminToken, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, body)
			assert.NotEmpty(t, body["error"])
		})
	}
	assert.Zero(t, env.store.Writes())
}

func TestBatchGenerate(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, nethttp.MethodPost, "/api/v1/admin/ads/generate-batch", adminToken, map[string]any{"slugs": []string{"amino", "drill", "nope"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
}

func TestListCleanupClone(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, nethttp.MethodGet, "/api/v1/admin/products?limit=2&page=1", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["totalPages"])
	assert.Len(t, body["products"], 2)

	resp, body = env.do(t, nethttp.MethodPost, "/api/v1/admin/products/cleanup", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"deleted": []any{"ghost"}}, body["details"])

	resp, body = env.do(t, nethttp.MethodPost, "/api/v1/admin/products/clone", adminToken, map[string]any{"slug": "amino"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "amino-copy", body["newSlug"])

	resp, body = env.do(t, nethttp.MethodGet, "/api/v1/admin/products/amino-copy", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, models.ProductStatusDraft, data["status"])
	assert.Equal(t, "AW-1", data["google_ads_id"])
}

func TestAnalystIsReadOnly(t *testing.T) {
	env := newTestEnv(t)
	token, err := auth.GenerateJWT(env.cfg.JWTSecret, "ana", rbac.RoleAnalyst, time.Hour)
	require.NoError(t, err)

	resp, _ := env.do(t, nethttp.MethodGet, "/api/v1/admin/products", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodGet, "/api/v1/admin/products/amino/link-health", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/admin/products/cleanup", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, nethttp.MethodPost, "/api/v1/admin/ads/generate", "", map[string]any{"slug": "amino"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRedirect(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		host     string
		path     string
		location string
	}{
		{"affiliate param wins", "example.com", "/go?slug=amino&aff=ABC&utm_source=g", "https://aff.example.com/amino?aff=XYZ&utm_source=g"},
		{"host vertical mismatch", "health.example.com", "/go?slug=drill", "/offline"},
		{"unknown product", "example.com", "/go?slug=nope", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(nethttp.MethodGet, tt.path, nil)
			req.Host = tt.host
			resp, err := env.app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}

	resp, err := env.app.Test(httptest.NewRequest(nethttp.MethodGet, "/offline", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, nethttp.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env.store.ReadErr = errors.New("connection refused")
	resp, body := env.do(t, nethttp.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
}
