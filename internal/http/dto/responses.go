package dto

import (
	"github.com/microsite-ads/backend/internal/models"
	"github.com/microsite-ads/backend/internal/services"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type GenerateAdsResponse struct {
	Success   bool              `json:"success"`
	Campaigns []models.Campaign `json:"campaigns"`
	Version   int               `json:"version"`
	Settings  models.Strategy   `json:"settings"`
}

type GenerateBatchResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Failed  []string `json:"failed,omitempty"`
}

type PublishAdsResponse struct {
	Success      bool                `json:"success"`
	ResourceName string              `json:"resourceName"`
	Publication  *models.Publication `json:"publication"`
}

type ProductListResponse struct {
	Success    bool                      `json:"success"`
	Products   []services.ProductSummary `json:"products"`
	Page       int                       `json:"page"`
	Limit      int                       `json:"limit"`
	Total      int                       `json:"total"`
	TotalPages int                       `json:"totalPages"`
}

type CleanupResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Details services.CleanupResult `json:"details"`
}

type CloneResponse struct {
	Success bool   `json:"success"`
	NewSlug string `json:"newSlug"`
}
