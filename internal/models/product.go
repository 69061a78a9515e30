package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Verticals
const (
	VerticalHealth  = "health"
	VerticalDIY     = "diy"
	VerticalPets    = "pets"
	VerticalDating  = "dating"
	VerticalFinance = "finance"

	// Unclassified sentinels
	VerticalOther   = "other"
	VerticalGeneral = "general"
)

// Product statuses
const (
	ProductStatusDraft  = "draft"
	ProductStatusActive = "active"
)

var KnownVerticals = []string{VerticalHealth, VerticalDIY, VerticalPets, VerticalDating, VerticalFinance}

func IsKnownVertical(v string) bool {
	for _, k := range KnownVerticals {
		if k == v {
			return true
		}
	}
	return false
}

func IsUnclassifiedVertical(v string) bool {
	return v == VerticalOther || v == VerticalGeneral
}

func IsValidProductStatus(s string) bool {
	return s == ProductStatusDraft || s == ProductStatusActive
}

type ProductConfig struct {
	Slug           string     `json:"slug"`
	Name           string     `json:"name"`
	Vertical       string     `json:"vertical"`
	Language       string     `json:"language"`
	Status         string     `json:"status"`
	OfficialURL    string     `json:"official_url,omitempty"`
	AffiliateURL   string     `json:"affiliate_url,omitempty"`
	GoogleAdsID    string     `json:"google_ads_id,omitempty"`
	GoogleAdsLabel string     `json:"google_ads_label,omitempty"`
	Ads            *AdsConfig `json:"ads,omitempty"`
}

// Clone returns a deep copy of the product.
func (p *ProductConfig) Clone() *ProductConfig {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Ads = p.Ads.Clone()
	return &cp
}

// TargetURL is the URL visitors are sent to: affiliate first, official second.
func (p *ProductConfig) TargetURL() string {
	if s := strings.TrimSpace(p.AffiliateURL); s != "" {
		return s
	}
	return strings.TrimSpace(p.OfficialURL)
}

// Validate checks the product against the key it is stored under.
func (p *ProductConfig) Validate(key string) []string {
	var issues []string
	if p.Slug != key {
		issues = append(issues, fmt.Sprintf("slug %q does not match key %q", p.Slug, key))
	}
	if strings.TrimSpace(p.Name) == "" {
		issues = append(issues, "name is empty")
	}
	if p.Status != "" && !IsValidProductStatus(p.Status) {
		issues = append(issues, fmt.Sprintf("unknown status %q", p.Status))
	}
	if p.Ads != nil {
		issues = append(issues, p.Ads.Validate()...)
	}
	return issues
}

var slugInvalidRE = regexp.MustCompile(`[^a-z0-9-]+`)

// NormalizeSlug lowercases s and collapses anything outside [a-z0-9-] into dashes.
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRE.ReplaceAllString(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}
