// Package strategy recommends a default bidding and budget template for a
// product vertical. Recommend is pure: identical input gives identical output.
package strategy

import (
	"strings"

	"github.com/microsite-ads/backend/internal/models"
)

const (
	BiddingMaximizeConversions = "MAXIMIZE_CONVERSIONS"
	BiddingMaximizeClicks      = "MAXIMIZE_CLICKS"
	BiddingTargetCPA           = "TARGET_CPA"
	BiddingManualCPC           = "MANUAL_CPC"
)

type template struct {
	bidding     string
	dailyBudget float64
	targetCPA   float64
	maxCPC      float64
	partners    bool
}

var byVertical = map[string]template{
	models.VerticalHealth:  {bidding: BiddingTargetCPA, dailyBudget: 30, targetCPA: 25},
	models.VerticalDIY:     {bidding: BiddingMaximizeClicks, dailyBudget: 15, maxCPC: 0.8, partners: true},
	models.VerticalPets:    {bidding: BiddingMaximizeConversions, dailyBudget: 20},
	models.VerticalDating:  {bidding: BiddingTargetCPA, dailyBudget: 25, targetCPA: 8},
	models.VerticalFinance: {bidding: BiddingManualCPC, dailyBudget: 40, maxCPC: 2.5},
}

var fallback = template{bidding: BiddingMaximizeClicks, dailyBudget: 10, maxCPC: 0.5}

// Budgets are expressed in the currency of the language's main market.
var currencyByLanguage = map[string]string{
	"en": "USD",
	"es": "EUR",
	"de": "EUR",
	"fr": "EUR",
	"it": "EUR",
	"pt": "BRL",
	"pl": "PLN",
}

// Recommend returns the default strategy for a vertical and language, falling
// back to a generic template when the vertical is unrecognized.
func Recommend(vertical, language string) models.Strategy {
	t, ok := byVertical[strings.ToLower(strings.TrimSpace(vertical))]
	if !ok {
		t = fallback
	}

	currency, ok := currencyByLanguage[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		currency = "USD"
	}

	s := models.Strategy{
		BiddingStrategy: t.bidding,
		DailyBudget:     t.dailyBudget,
		Currency:        currency,
		NetworkSearch:   true,
		NetworkPartners: t.partners,
	}
	if t.targetCPA > 0 {
		v := t.targetCPA
		s.TargetCPA = &v
	}
	if t.maxCPC > 0 {
		v := t.maxCPC
		s.MaxCPC = &v
	}
	return s
}
