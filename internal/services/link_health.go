package services

import (
	"context"

	"github.com/microsite-ads/backend/internal/linkcheck"
)

type LinkChecker interface {
	Check(ctx context.Context, url string) (*linkcheck.Report, error)
}

type LinkHealth struct {
	Slug            string            `json:"slug"`
	Target          string            `json:"target"`
	ProductLanguage string            `json:"product_language"`
	LanguageMatch   bool              `json:"language_match"`
	Report          *linkcheck.Report `json:"report"`
}

// LinkHealth checks the URL visitors of slug are redirected to.
func (s *ProductService) LinkHealth(ctx context.Context, checker LinkChecker, slug string) (*LinkHealth, error) {
	cfg := s.store.Read(ctx)
	p := cfg.Product(slug)
	if p == nil {
		return nil, notFound("product %q", slug)
	}
	target := p.TargetURL()
	if target == "" {
		return nil, invalid("product %q has no affiliate or official URL", slug)
	}

	lang := p.Language
	if lang == "" {
		lang = cfg.DefaultLang
	}
	rep, err := checker.Check(ctx, target)
	if err != nil {
		return nil, invalid("product %q has an unusable target URL: %v", slug, err)
	}
	return &LinkHealth{
		Slug:            slug,
		Target:          target,
		ProductLanguage: lang,
		LanguageMatch:   linkcheck.LanguageMatches(rep.Language, lang),
		Report:          rep,
	}, nil
}
