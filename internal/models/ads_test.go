package models

import (
	"testing"
	"time"
)

func TestIsValidAdsTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{AdsStatusDraft, AdsStatusReady, true},
		{AdsStatusReady, AdsStatusReady, true},
		{AdsStatusReady, AdsStatusPublished, true},
		{AdsStatusPublished, AdsStatusReady, true},
		{AdsStatusPublished, AdsStatusPublished, true},

		{AdsStatusDraft, AdsStatusPublished, false},
		{AdsStatusReady, AdsStatusDraft, false},
		{AdsStatusPublished, AdsStatusDraft, false},
		{"nonexistent", AdsStatusReady, false},
		{AdsStatusReady, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidAdsTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidAdsTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func validAds() *AdsConfig {
	return &AdsConfig{
		Slug:        "amino",
		Vertical:    VerticalHealth,
		Languages:   []string{"en"},
		Status:      AdsStatusReady,
		GeneratedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Version:     1,
		Settings:    Strategy{BiddingStrategy: "MAXIMIZE_CONVERSIONS", DailyBudget: 20, Currency: "USD"},
		Campaigns: []Campaign{{
			CampaignName: "Amino | HEALTH | EN",
			AdGroups: []AdGroup{{
				Name:     "Brand",
				Keywords: []string{"amino"},
				Ads:      []Ad{{Headlines: []string{"Amino"}, Descriptions: []string{"d"}, FinalURL: "https://amino.example.com"}},
			}},
		}},
	}
}

func TestAdsValidate(t *testing.T) {
	published := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(a *AdsConfig)
		issues int
	}{
		{"valid ready", func(a *AdsConfig) {}, 0},
		{"published without publication", func(a *AdsConfig) { a.Status = AdsStatusPublished }, 1},
		{"published with publication", func(a *AdsConfig) {
			a.Status = AdsStatusPublished
			a.Publication = &Publication{PublishedAt: a.GeneratedAt.Add(time.Hour)}
		}, 0},
		{"stale publication after regeneration", func(a *AdsConfig) {
			a.Publication = &Publication{PublishedAt: published}
		}, 0},
		{"publication newer than generation on ready", func(a *AdsConfig) {
			a.Publication = &Publication{PublishedAt: a.GeneratedAt.Add(time.Hour)}
		}, 1},
		{"zero version", func(a *AdsConfig) { a.Version = 0 }, 1},
		{"no languages", func(a *AdsConfig) { a.Languages = nil }, 1},
		{"empty keywords", func(a *AdsConfig) { a.Campaigns[0].AdGroups[0].Keywords = nil }, 1},
		{"relative final url", func(a *AdsConfig) { a.Campaigns[0].AdGroups[0].Ads[0].FinalURL = "/go?slug=amino" }, 1},
		{"unknown status", func(a *AdsConfig) { a.Status = "live" }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAds()
			tt.mutate(a)
			if got := a.Validate(); len(got) != tt.issues {
				t.Errorf("Validate() = %v, want %d issues", got, tt.issues)
			}
		})
	}
}

func TestAdsCloneIsDeep(t *testing.T) {
	a := validAds()
	a.Publication = &Publication{CustomerID: "1"}
	cp := a.Clone()

	cp.Languages[0] = "es"
	cp.Campaigns[0].AdGroups[0].Keywords[0] = "changed"
	cp.Campaigns[0].AdGroups[0].Ads[0].Headlines[0] = "changed"
	cp.Publication.CustomerID = "2"

	if a.Languages[0] != "en" {
		t.Error("languages shared between clones")
	}
	if a.Campaigns[0].AdGroups[0].Keywords[0] != "amino" {
		t.Error("keywords shared between clones")
	}
	if a.Campaigns[0].AdGroups[0].Ads[0].Headlines[0] != "Amino" {
		t.Error("headlines shared between clones")
	}
	if a.Publication.CustomerID != "1" {
		t.Error("publication shared between clones")
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(&ProductConfig{}); got != AdsStatusDraft {
		t.Errorf("StatusOf(no ads) = %q, want draft", got)
	}
	if got := StatusOf(&ProductConfig{Ads: validAds()}); got != AdsStatusReady {
		t.Errorf("StatusOf(ready) = %q, want ready", got)
	}
}
