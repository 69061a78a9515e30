package models

import (
	"fmt"
	"net/url"
	"time"
)

// Ads statuses
const (
	AdsStatusDraft     = "draft"
	AdsStatusReady     = "ready"
	AdsStatusPublished = "published"
)

// Valid ads status transitions: from -> []to
var ValidAdsTransitions = map[string][]string{
	AdsStatusDraft:     {AdsStatusReady},
	AdsStatusReady:     {AdsStatusReady, AdsStatusPublished},
	AdsStatusPublished: {AdsStatusReady, AdsStatusPublished},
}

func IsValidAdsTransition(from, to string) bool {
	allowed, ok := ValidAdsTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

type AdsConfig struct {
	Slug        string       `json:"slug"`
	Vertical    string       `json:"vertical"`
	Languages   []string     `json:"languages"`
	Status      string       `json:"status"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Version     int          `json:"version"`
	Settings    Strategy     `json:"settings"`
	Campaigns   []Campaign   `json:"campaigns"`
	Publication *Publication `json:"publication,omitempty"`
}

// Strategy is the bidding and budget template stored with the ads sub-record.
type Strategy struct {
	BiddingStrategy string   `json:"biddingStrategy"`
	DailyBudget     float64  `json:"dailyBudget"`
	Currency        string   `json:"currency"`
	TargetCPA       *float64 `json:"targetCpa,omitempty"`
	TargetROAS      *float64 `json:"targetRoas,omitempty"`
	MaxCPC          *float64 `json:"maxCpc,omitempty"`
	NetworkSearch   bool     `json:"networkSearch"`
	NetworkPartners bool     `json:"networkPartners"`
}

// IsEmpty reports whether no bidding strategy has been chosen.
func (s Strategy) IsEmpty() bool {
	return s.BiddingStrategy == ""
}

type Publication struct {
	PublishedAt  time.Time `json:"publishedAt"`
	CustomerID   string    `json:"customerId"`
	CampaignID   string    `json:"campaignId"`
	AdGroupID    string    `json:"adGroupId"`
	ResourceName string    `json:"resourceName"`
}

type Campaign struct {
	CampaignName string    `json:"campaignName"`
	AdGroups     []AdGroup `json:"adGroups"`
}

type AdGroup struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Ads      []Ad     `json:"ads"`
}

type Ad struct {
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
	FinalURL     string   `json:"finalUrl"`
}

// Clone returns a deep copy of the ads sub-record.
func (a *AdsConfig) Clone() *AdsConfig {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Languages = append([]string(nil), a.Languages...)
	cp.Settings = a.Settings.clone()
	if a.Publication != nil {
		pub := *a.Publication
		cp.Publication = &pub
	}
	if a.Campaigns != nil {
		cp.Campaigns = make([]Campaign, len(a.Campaigns))
		for i, c := range a.Campaigns {
			cp.Campaigns[i] = c.clone()
		}
	}
	return &cp
}

func (s Strategy) clone() Strategy {
	cp := s
	if s.TargetCPA != nil {
		v := *s.TargetCPA
		cp.TargetCPA = &v
	}
	if s.TargetROAS != nil {
		v := *s.TargetROAS
		cp.TargetROAS = &v
	}
	if s.MaxCPC != nil {
		v := *s.MaxCPC
		cp.MaxCPC = &v
	}
	return cp
}

func (c Campaign) clone() Campaign {
	cp := Campaign{CampaignName: c.CampaignName}
	if c.AdGroups != nil {
		cp.AdGroups = make([]AdGroup, len(c.AdGroups))
		for i, g := range c.AdGroups {
			ng := AdGroup{Name: g.Name, Keywords: append([]string(nil), g.Keywords...)}
			if g.Ads != nil {
				ng.Ads = make([]Ad, len(g.Ads))
				for j, ad := range g.Ads {
					ng.Ads[j] = ad.Clone()
				}
			}
			cp.AdGroups[i] = ng
		}
	}
	return cp
}

func (a Ad) Clone() Ad {
	return Ad{
		Headlines:    append([]string(nil), a.Headlines...),
		Descriptions: append([]string(nil), a.Descriptions...),
		FinalURL:     a.FinalURL,
	}
}

// Validate reports every broken invariant of the ads sub-record.
func (a *AdsConfig) Validate() []string {
	var issues []string
	if _, ok := ValidAdsTransitions[a.Status]; !ok {
		issues = append(issues, fmt.Sprintf("ads: unknown status %q", a.Status))
	}
	if a.Version < 1 {
		issues = append(issues, "ads: version must be >= 1")
	}
	if len(a.Languages) == 0 {
		issues = append(issues, "ads: languages is empty")
	}
	switch {
	case a.Status == AdsStatusPublished && a.Publication == nil:
		issues = append(issues, "ads: published without publication metadata")
	case a.Status != AdsStatusPublished && a.Publication != nil && !a.HasStalePublication():
		issues = append(issues, "ads: publication metadata present but status is "+a.Status)
	}
	for _, c := range a.Campaigns {
		for _, g := range c.AdGroups {
			if len(g.Keywords) == 0 {
				issues = append(issues, fmt.Sprintf("ads: ad group %q has no keywords", g.Name))
			}
			for _, ad := range g.Ads {
				if !IsAbsoluteURL(ad.FinalURL) {
					issues = append(issues, fmt.Sprintf("ads: ad in %q has invalid finalUrl %q", g.Name, ad.FinalURL))
				}
			}
		}
	}
	return issues
}

// StatusOf returns the ads status of a product; a product never generated is a draft.
func StatusOf(p *ProductConfig) string {
	if p == nil || p.Ads == nil || p.Ads.Status == "" {
		return AdsStatusDraft
	}
	return p.Ads.Status
}

// IsAbsoluteURL reports whether s parses as an http(s) URL with a host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// HasStalePublication reports whether the publication belongs to an earlier
// version: the sub-record was regenerated after the last publish.
func (a *AdsConfig) HasStalePublication() bool {
	if a.Publication == nil || a.Status != AdsStatusReady {
		return false
	}
	return !a.GeneratedAt.Before(a.Publication.PublishedAt)
}
