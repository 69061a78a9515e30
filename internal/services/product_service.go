package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/microsite-ads/backend/internal/events"
	"github.com/microsite-ads/backend/internal/metrics"
	"github.com/microsite-ads/backend/internal/models"
	"github.com/microsite-ads/backend/internal/store"
	"go.uber.org/zap"
)

// CloneSuffix is appended to the source slug when cloning.
const CloneSuffix = "-copy"

type ProductService struct {
	base
	defaultGoogleAdsID string
}

func NewProductService(
	st store.Store,
	defaultGoogleAdsID string,
	auditor Auditor,
	publisher events.Publisher,
	log *zap.Logger,
) *ProductService {
	return &ProductService{
		base: base{
			store:     st,
			auditor:   auditor,
			publisher: publisher,
			now:       time.Now,
			log:       log,
		},
		defaultGoogleAdsID: defaultGoogleAdsID,
	}
}

type ProductFilter struct {
	Page     int
	Limit    int
	Search   string
	Vertical string
	Status   string // ads status: draft/ready/published
}

type ProductSummary struct {
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Vertical    string     `json:"vertical"`
	Language    string     `json:"language"`
	Status      string     `json:"status"`
	AdsStatus   string     `json:"adsStatus"`
	AdsVersion  int        `json:"adsVersion"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Issues      []string   `json:"issues,omitempty"`
}

type ProductPage struct {
	Products   []ProductSummary `json:"products"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

func (s *ProductService) List(ctx context.Context, f ProductFilter) *ProductPage {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Page < 1 {
		f.Page = 1
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	vertical := strings.ToLower(strings.TrimSpace(f.Vertical))
	status := strings.ToLower(strings.TrimSpace(f.Status))

	cfg := s.store.Read(ctx)
	keys := make([]string, 0, len(cfg.Products))
	for key, p := range cfg.Products {
		if p == nil {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(key), search) && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if vertical != "" && p.Vertical != vertical {
			continue
		}
		if status != "" && models.StatusOf(p) != status {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	page := &ProductPage{
		Products: []ProductSummary{},
		Page:     f.Page,
		Limit:    f.Limit,
		Total:    len(keys),
	}
	page.TotalPages = (page.Total + f.Limit - 1) / f.Limit

	start := (f.Page - 1) * f.Limit
	if start >= len(keys) {
		return page
	}
	end := min(start+f.Limit, len(keys))
	for _, key := range keys[start:end] {
		page.Products = append(page.Products, summarize(key, cfg.Products[key]))
	}
	return page
}

func summarize(key string, p *models.ProductConfig) ProductSummary {
	sum := ProductSummary{
		Slug:      key,
		Name:      p.Name,
		Vertical:  p.Vertical,
		Language:  p.Language,
		Status:    p.Status,
		AdsStatus: models.StatusOf(p),
		Issues:    p.Validate(key),
	}
	if p.Ads != nil {
		sum.AdsVersion = p.Ads.Version
		generated := p.Ads.GeneratedAt
		sum.GeneratedAt = &generated
		if p.Ads.Publication != nil {
			published := p.Ads.Publication.PublishedAt
			sum.PublishedAt = &published
		}
	}
	return sum
}

func (s *ProductService) Get(ctx context.Context, slug string) (*models.ProductConfig, error) {
	p := s.store.Read(ctx).Product(slug)
	if p == nil {
		return nil, notFound("product %q", slug)
	}
	return p, nil
}

type ProductInput struct {
	Slug           string
	Name           string
	Vertical       string
	Language       string
	OfficialURL    string
	AffiliateURL   string
	GoogleAdsID    string
	GoogleAdsLabel string
}

// Create adds a new draft product. The slug is derived from the name when omitted.
func (s *ProductService) Create(ctx context.Context, actor Actor, in ProductInput) (*models.ProductConfig, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	slug := models.NormalizeSlug(in.Slug)
	if slug == "" {
		slug = models.NormalizeSlug(name)
	}
	if slug == "" {
		return nil, invalid("slug is required")
	}
	vertical := strings.ToLower(strings.TrimSpace(in.Vertical))
	if vertical == "" {
		vertical = models.VerticalGeneral
	}
	if err := validateVertical(vertical); err != nil {
		return nil, err
	}
	if err := validateURLs(in.OfficialURL, in.AffiliateURL); err != nil {
		return nil, err
	}

	cfg, err := s.readForWrite(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Product(slug) != nil {
		return nil, invalid("product %q already exists", slug)
	}
	lang := strings.ToLower(strings.TrimSpace(in.Language))
	if lang == "" {
		lang = cfg.DefaultLang
	}

	p := &models.ProductConfig{
		Slug:           slug,
		Name:           name,
		Vertical:       vertical,
		Language:       lang,
		Status:         models.ProductStatusDraft,
		OfficialURL:    strings.TrimSpace(in.OfficialURL),
		AffiliateURL:   strings.TrimSpace(in.AffiliateURL),
		GoogleAdsID:    strings.TrimSpace(in.GoogleAdsID),
		GoogleAdsLabel: strings.TrimSpace(in.GoogleAdsLabel),
	}
	cfg.Products[slug] = p
	if err := s.write(ctx, cfg); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "product_created", slug, nil)
	s.emit(ctx, events.EventProductChanged, map[string]any{"slug": slug, "change": "created"})
	return p, nil
}

// ProductPatch holds a direct admin edit; nil fields are left unchanged.
type ProductPatch struct {
	Name           *string
	Vertical       *string
	Language       *string
	Status         *string
	OfficialURL    *string
	AffiliateURL   *string
	GoogleAdsID    *string
	GoogleAdsLabel *string
}

func (s *ProductService) Update(ctx context.Context, actor Actor, slug string, patch ProductPatch) (*models.ProductConfig, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalid("name cannot be empty")
	}
	if patch.Vertical != nil {
		if err := validateVertical(strings.ToLower(strings.TrimSpace(*patch.Vertical))); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil && !models.IsValidProductStatus(*patch.Status) {
		return nil, invalid("status must be %q or %q", models.ProductStatusDraft, models.ProductStatusActive)
	}
	if err := validateURLs(deref(patch.OfficialURL), deref(patch.AffiliateURL)); err != nil {
		return nil, err
	}

	cfg := s.store.Read(ctx)
	p := cfg.Product(slug)
	if p == nil {
		return nil, notFound("product %q", slug)
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.Name, patch.Name)
	set(&p.Language, patch.Language)
	set(&p.Status, patch.Status)
	set(&p.OfficialURL, patch.OfficialURL)
	set(&p.AffiliateURL, patch.AffiliateURL)
	set(&p.GoogleAdsID, patch.GoogleAdsID)
	set(&p.GoogleAdsLabel, patch.GoogleAdsLabel)
	if patch.Vertical != nil {
		p.Vertical = strings.ToLower(strings.TrimSpace(*patch.Vertical))
	}
	p.Language = strings.ToLower(p.Language)

	if err := s.write(ctx, cfg); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "product_updated", slug, nil)
	s.emit(ctx, events.EventProductChanged, map[string]any{"slug": slug, "change": "updated"})
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, actor Actor, slug string) error {
	cfg := s.store.Read(ctx)
	if _, ok := cfg.Products[slug]; !ok {
		return notFound("product %q", slug)
	}
	delete(cfg.Products, slug)
	if cfg.ActiveProductSlug == slug {
		cfg.ActiveProductSlug = ""
	}
	if err := s.write(ctx, cfg); err != nil {
		return err
	}
	metrics.ProductsDeleted.WithLabelValues("admin").Inc()

	s.audit(ctx, actor, "product_deleted", slug, nil)
	s.emit(ctx, events.EventProductChanged, map[string]any{"slug": slug, "change": "deleted"})
	return nil
}

// Clone deep-copies a product under a fresh slug. The copy is always a draft.
func (s *ProductService) Clone(ctx context.Context, actor Actor, sourceSlug string) (string, error) {
	sourceSlug = strings.TrimSpace(sourceSlug)
	if sourceSlug == "" {
		return "", invalid("slug is required")
	}

	cfg := s.store.Read(ctx)
	src := cfg.Product(sourceSlug)
	if src == nil {
		return "", notFound("product %q", sourceSlug)
	}

	newSlug := allocateSlug(cfg.Products, sourceSlug)
	cp := src.Clone()
	cp.Slug = newSlug
	cp.Status = models.ProductStatusDraft
	if cp.GoogleAdsID == "" {
		cp.GoogleAdsID = s.defaultGoogleAdsID
	}
	if cp.Ads != nil {
		cp.Ads.Slug = newSlug
		// the copy owns no live ad on the platform
		cp.Ads.Publication = nil
		if cp.Ads.Status == models.AdsStatusPublished {
			cp.Ads.Status = models.AdsStatusReady
		}
	}
	cfg.Products[newSlug] = cp

	if err := s.write(ctx, cfg); err != nil {
		return "", err
	}
	metrics.ProductsCloned.Inc()

	s.log.Info("product cloned", zap.String("source", sourceSlug), zap.String("slug", newSlug))
	s.audit(ctx, actor, "product_cloned", newSlug, map[string]any{"source": sourceSlug})
	s.emit(ctx, events.EventProductCloned, map[string]any{"source": sourceSlug, "slug": newSlug})
	return newSlug, nil
}

// allocateSlug probes base-copy, base-copy-1, base-copy-2, ... until a free key is found.
func allocateSlug(products map[string]*models.ProductConfig, base string) string {
	candidate := base + CloneSuffix
	for i := 1; ; i++ {
		if _, taken := products[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s%s-%d", base, CloneSuffix, i)
	}
}

type SettingsInput struct {
	DefaultLang       *string
	ActiveProductSlug *string
}

type Settings struct {
	DefaultLang       string `json:"default_lang"`
	ActiveProductSlug string `json:"active_product_slug"`
	Products          int    `json:"products"`
}

func (s *ProductService) GetSettings(ctx context.Context) *Settings {
	cfg := s.store.Read(ctx)
	return &Settings{DefaultLang: cfg.DefaultLang, ActiveProductSlug: cfg.ActiveProductSlug, Products: len(cfg.Products)}
}

func (s *ProductService) SaveSettings(ctx context.Context, actor Actor, in SettingsInput) (*Settings, error) {
	if in.DefaultLang != nil && strings.TrimSpace(*in.DefaultLang) == "" {
		return nil, invalid("default_lang cannot be empty")
	}

	cfg, err := s.readForWrite(ctx)
	if err != nil {
		return nil, err
	}
	if in.ActiveProductSlug != nil {
		slug := strings.TrimSpace(*in.ActiveProductSlug)
		if slug != "" && cfg.Product(slug) == nil {
			return nil, notFound("product %q", slug)
		}
		cfg.ActiveProductSlug = slug
	}
	if in.DefaultLang != nil {
		cfg.DefaultLang = strings.ToLower(strings.TrimSpace(*in.DefaultLang))
	}
	if err := s.write(ctx, cfg); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "settings_saved", cfg.ActiveProductSlug, map[string]any{"default_lang": cfg.DefaultLang})
	return &Settings{DefaultLang: cfg.DefaultLang, ActiveProductSlug: cfg.ActiveProductSlug, Products: len(cfg.Products)}, nil
}

func validateVertical(v string) error {
	if models.IsKnownVertical(v) || models.IsUnclassifiedVertical(v) {
		return nil
	}
	return invalid("unknown vertical %q", v)
}

func validateURLs(urls ...string) error {
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u != "" && !models.IsAbsoluteURL(u) {
			return invalid("%q is not an absolute http(s) URL", u)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
