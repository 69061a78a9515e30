package strategy

import (
	"testing"

	"github.com/microsite-ads/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendByVertical(t *testing.T) {
	tests := []struct {
		vertical string
		bidding  string
	}{
		{models.VerticalHealth, BiddingTargetCPA},
		{models.VerticalDIY, BiddingMaximizeClicks},
		{models.VerticalPets, BiddingMaximizeConversions},
		{models.VerticalDating, BiddingTargetCPA},
		{models.VerticalFinance, BiddingManualCPC},
		{" HEALTH ", BiddingTargetCPA},
		{models.VerticalOther, BiddingMaximizeClicks},
		{"", BiddingMaximizeClicks},
		{"crypto", BiddingMaximizeClicks},
	}

	for _, tt := range tests {
		t.Run(tt.vertical, func(t *testing.T) {
			s := Recommend(tt.vertical, "en")
			assert.Equal(t, tt.bidding, s.BiddingStrategy)
			assert.Greater(t, s.DailyBudget, 0.0)
			assert.True(t, s.NetworkSearch)
		})
	}
}

func TestRecommendTargetCPAOnlyForCPAStrategies(t *testing.T) {
	s := Recommend(models.VerticalHealth, "en")
	require.NotNil(t, s.TargetCPA)
	assert.Equal(t, 25.0, *s.TargetCPA)
	assert.Nil(t, s.MaxCPC)

	s = Recommend(models.VerticalFinance, "en")
	assert.Nil(t, s.TargetCPA)
	require.NotNil(t, s.MaxCPC)
}

func TestRecommendCurrency(t *testing.T) {
	assert.Equal(t, "USD", Recommend(models.VerticalPets, "en").Currency)
	assert.Equal(t, "EUR", Recommend(models.VerticalPets, "de").Currency)
	assert.Equal(t, "BRL", Recommend(models.VerticalPets, "PT").Currency)
	assert.Equal(t, "USD", Recommend(models.VerticalPets, "xx").Currency)
}

func TestRecommendIsDeterministic(t *testing.T) {
	a := Recommend(models.VerticalDating, "es")
	b := Recommend(models.VerticalDating, "es")
	assert.Equal(t, a, b)

	*a.TargetCPA = 999
	assert.Equal(t, 8.0, *Recommend(models.VerticalDating, "es").TargetCPA, "callers cannot mutate the table")
}
