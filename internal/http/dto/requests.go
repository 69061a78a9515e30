package dto

import "github.com/microsite-ads/backend/internal/models"

type GenerateAdsRequest struct {
	Slug     string           `json:"slug"`
	Strategy *models.Strategy `json:"strategy"`
}

type GenerateBatchRequest struct {
	Slugs []string `json:"slugs"`
}

type PublishAdsRequest struct {
	Slug       string     `json:"slug"`
	CustomerID string     `json:"customerId"`
	AdGroupID  string     `json:"adGroupId"`
	CampaignID string     `json:"campaignId"`
	AdData     *models.Ad `json:"adData"`
	Paused     bool       `json:"paused"`
}

type CreateProductRequest struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	Vertical       string `json:"vertical"`
	Language       string `json:"language"`
	OfficialURL    string `json:"official_url"`
	AffiliateURL   string `json:"affiliate_url"`
	GoogleAdsID    string `json:"google_ads_id"`
	GoogleAdsLabel string `json:"google_ads_label"`
}

type UpdateProductRequest struct {
	Name           *string `json:"name"`
	Vertical       *string `json:"vertical"`
	Language       *string `json:"language"`
	Status         *string `json:"status"`
	OfficialURL    *string `json:"official_url"`
	AffiliateURL   *string `json:"affiliate_url"`
	GoogleAdsID    *string `json:"google_ads_id"`
	GoogleAdsLabel *string `json:"google_ads_label"`
}

type CloneProductRequest struct {
	Slug string `json:"slug"`
}

type SaveSettingsRequest struct {
	DefaultLang       *string `json:"default_lang"`
	ActiveProductSlug *string `json:"active_product_slug"`
}
