package services

import (
	"context"
	"strings"
	"time"

	"github.com/microsite-ads/backend/internal/adsplatform"
	"github.com/microsite-ads/backend/internal/events"
	"github.com/microsite-ads/backend/internal/generator"
	"github.com/microsite-ads/backend/internal/metrics"
	"github.com/microsite-ads/backend/internal/models"
	"github.com/microsite-ads/backend/internal/store"
	"github.com/microsite-ads/backend/internal/strategy"
	"go.uber.org/zap"
)

// MaxBatchSize is the most slugs one batch generation call accepts.
const MaxBatchSize = 20

// AdsService drives the ads sub-record lifecycle: draft -> ready -> published.
type AdsService struct {
	base
	generator *generator.Generator
	platform  adsplatform.Platform
}

func NewAdsService(
	st store.Store,
	gen *generator.Generator,
	platform adsplatform.Platform,
	auditor Auditor,
	publisher events.Publisher,
	log *zap.Logger,
) *AdsService {
	return &AdsService{
		base: base{
			store:     st,
			auditor:   auditor,
			publisher: publisher,
			now:       time.Now,
			log:       log,
		},
		generator: gen,
		platform:  platform,
	}
}

// Generate rebuilds the ads sub-record of one product and persists it.
// Strategy precedence: override, then existing settings, then the recommendation.
func (s *AdsService) Generate(ctx context.Context, actor Actor, slug string, override *models.Strategy) (*models.AdsConfig, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, invalid("slug is required")
	}

	cfg := s.store.Read(ctx)
	p := cfg.Product(slug)
	if p == nil {
		return nil, notFound("product %q", slug)
	}

	ads := s.build(cfg, slug, p, override)
	p.Ads = ads

	if err := s.write(ctx, cfg); err != nil {
		metrics.AdsGenerated.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.AdsGenerated.WithLabelValues("ok").Inc()

	s.log.Info("ads generated", zap.String("slug", slug), zap.Int("version", ads.Version), zap.Int("campaigns", len(ads.Campaigns)))
	s.audit(ctx, actor, "ads_generated", slug, map[string]any{"version": ads.Version})
	s.emit(ctx, events.EventAdsGenerated, map[string]any{"slug": slug, "version": ads.Version})
	return ads, nil
}

// BatchResult reports a batch generation. Count excludes every failed slug.
type BatchResult struct {
	Count  int      `json:"count"`
	Failed []string `json:"failed,omitempty"`
}

// GenerateBatch regenerates up to MaxBatchSize products, each in its own
// read-modify-write cycle. Unknown slugs are skipped silently.
func (s *AdsService) GenerateBatch(ctx context.Context, actor Actor, slugs []string) (*BatchResult, error) {
	if len(slugs) == 0 {
		return nil, invalid("slugs are required")
	}
	if len(slugs) > MaxBatchSize {
		return nil, invalid("at most %d slugs per batch, got %d", MaxBatchSize, len(slugs))
	}

	res := &BatchResult{}
	seen := map[string]bool{}
	for _, slug := range slugs {
		slug = strings.TrimSpace(slug)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		cfg := s.store.Read(ctx)
		p := cfg.Product(slug)
		if p == nil {
			continue
		}
		ads := s.build(cfg, slug, p, nil)
		p.Ads = ads

		if err := s.write(ctx, cfg); err != nil {
			metrics.AdsGenerated.WithLabelValues("error").Inc()
			res.Failed = append(res.Failed, slug)
			continue
		}
		metrics.AdsGenerated.WithLabelValues("ok").Inc()
		res.Count++
		s.emit(ctx, events.EventAdsGenerated, map[string]any{"slug": slug, "version": ads.Version})
	}

	s.log.Info("batch ads generation finished", zap.Int("requested", len(slugs)), zap.Int("updated", res.Count), zap.Strings("failed", res.Failed))
	s.audit(ctx, actor, "ads_generated_batch", "", map[string]any{"count": res.Count, "failed": res.Failed})
	return res, nil
}

func (s *AdsService) build(cfg *models.CampaignConfig, slug string, p *models.ProductConfig, override *models.Strategy) *models.AdsConfig {
	prev := p.Ads
	languages := generator.Languages(p, cfg.DefaultLang)

	var settings models.Strategy
	switch {
	case override != nil && !override.IsEmpty():
		settings = *override
	case prev != nil && !prev.Settings.IsEmpty():
		settings = prev.Settings
	default:
		settings = strategy.Recommend(p.Vertical, languages[0])
	}

	version := 1
	var publication *models.Publication
	if prev != nil {
		version = prev.Version + 1
		// The last publish stays attached for audit even though it now describes an older version.
		publication = prev.Publication
	}

	return &models.AdsConfig{
		Slug:        slug,
		Vertical:    p.Vertical,
		Languages:   languages,
		Status:      models.AdsStatusReady,
		GeneratedAt: s.now().UTC(),
		Version:     version,
		Settings:    settings,
		Campaigns:   s.generator.Generate(p, languages),
		Publication: publication,
	}
}

type PublishInput struct {
	Slug       string
	CustomerID string
	AdGroupID  string
	CampaignID string
	Ad         *models.Ad
	Paused     bool
}

type PublishResult struct {
	ResourceName string              `json:"resourceName"`
	Publication  *models.Publication `json:"publication"`
}

// Publish creates the ad on the external platform and only then marks the
// ads sub-record as published. Adapter failures leave the document untouched.
func (s *AdsService) Publish(ctx context.Context, actor Actor, in PublishInput) (*PublishResult, error) {
	in.Slug = strings.TrimSpace(in.Slug)
	switch {
	case in.Slug == "":
		return nil, invalid("slug is required")
	case strings.TrimSpace(in.CustomerID) == "":
		return nil, invalid("customerId is required")
	case strings.TrimSpace(in.AdGroupID) == "":
		return nil, invalid("adGroupId is required")
	case in.Ad == nil:
		return nil, invalid("adData is required")
	}

	cfg := s.store.Read(ctx)
	p := cfg.Product(in.Slug)
	if p == nil {
		return nil, notFound("product %q", in.Slug)
	}
	if !models.IsValidAdsTransition(models.StatusOf(p), models.AdsStatusPublished) {
		return nil, invalid("ads for %q must be generated before publishing", in.Slug)
	}

	ad := in.Ad.Clone()
	if strings.TrimSpace(ad.FinalURL) == "" {
		ad.FinalURL = s.generator.FinalURL(p)
	}
	switch {
	case len(ad.Headlines) == 0:
		return nil, invalid("adData.headlines is empty")
	case len(ad.Descriptions) == 0:
		return nil, invalid("adData.descriptions is empty")
	case !models.IsAbsoluteURL(ad.FinalURL):
		return nil, invalid("adData.finalUrl %q is not an absolute URL", ad.FinalURL)
	}

	resourceName, err := s.platform.PublishAd(ctx, adsplatform.PublishRequest{
		CustomerID:   in.CustomerID,
		AdGroupID:    strings.TrimSpace(in.AdGroupID),
		Headlines:    ad.Headlines,
		Descriptions: ad.Descriptions,
		FinalURL:     ad.FinalURL,
		Paused:       in.Paused,
	})
	if err != nil {
		metrics.AdsPublished.WithLabelValues("upstream_error").Inc()
		s.log.Warn("ad publish failed", zap.String("slug", in.Slug), zap.Error(err))
		return nil, upstream(err)
	}

	pub := &models.Publication{
		PublishedAt:  s.now().UTC(),
		CustomerID:   adsplatform.NormalizeCustomerID(in.CustomerID),
		CampaignID:   strings.TrimSpace(in.CampaignID),
		AdGroupID:    strings.TrimSpace(in.AdGroupID),
		ResourceName: resourceName,
	}

	// Fresh read: the adapter call may have taken seconds.
	cfg = s.store.Read(ctx)
	p = cfg.Product(in.Slug)
	if p == nil || p.Ads == nil {
		s.log.Error("product vanished while publishing", zap.String("slug", in.Slug), zap.String("resource_name", resourceName))
		metrics.AdsPublished.WithLabelValues("error").Inc()
		return nil, persistence(notFound("product %q", in.Slug))
	}
	p.Ads.Status = models.AdsStatusPublished
	p.Ads.Publication = pub

	if err := s.write(ctx, cfg); err != nil {
		// The remote ad exists; log enough to reconcile by hand.
		s.log.Error("ad published but config not saved", zap.String("slug", in.Slug), zap.String("resource_name", resourceName))
		metrics.AdsPublished.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.AdsPublished.WithLabelValues("ok").Inc()

	s.audit(ctx, actor, "ads_published", in.Slug, map[string]any{
		"customer_id":   pub.CustomerID,
		"campaign_id":   pub.CampaignID,
		"ad_group_id":   pub.AdGroupID,
		"resource_name": resourceName,
	})
	s.emit(ctx, events.EventAdsPublished, map[string]any{"slug": in.Slug, "resource_name": resourceName})
	return &PublishResult{ResourceName: resourceName, Publication: pub}, nil
}

func (s *AdsService) ListAccounts(ctx context.Context) ([]adsplatform.Account, error) {
	accounts, err := s.platform.ListAccounts(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	return accounts, nil
}

func (s *AdsService) ListCampaigns(ctx context.Context, customerID string) ([]adsplatform.CampaignSummary, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, invalid("customerId is required")
	}
	campaigns, err := s.platform.ListCampaigns(ctx, customerID)
	if err != nil {
		return nil, upstream(err)
	}
	return campaigns, nil
}

func (s *AdsService) GetMetrics(ctx context.Context, customerID string, days int) (*adsplatform.Metrics, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, invalid("customerId is required")
	}
	if days < 1 || days > 365 {
		return nil, invalid("days must be between 1 and 365")
	}
	m, err := s.platform.GetMetrics(ctx, customerID, days)
	if err != nil {
		return nil, upstream(err)
	}
	return m, nil
}

func (s *AdsService) ListConversionActions(ctx context.Context, customerID string) ([]adsplatform.ConversionAction, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, invalid("customerId is required")
	}
	actions, err := s.platform.ListConversionActions(ctx, customerID)
	if err != nil {
		return nil, upstream(err)
	}
	return actions, nil
}
