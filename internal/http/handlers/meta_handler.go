package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/microsite-ads/backend/internal/http/dto"
	"github.com/microsite-ads/backend/internal/models"
	"github.com/microsite-ads/backend/internal/strategy"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaVertical struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Unclassified bool   `json:"unclassified,omitempty"`
}

type MetaLanguage struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var predefinedVerticals = []MetaVertical{
	{ID: models.VerticalHealth, Label: "Health & Wellness"},
	{ID: models.VerticalDIY, Label: "DIY & Tools"},
	{ID: models.VerticalPets, Label: "Pets"},
	{ID: models.VerticalDating, Label: "Dating"},
	{ID: models.VerticalFinance, Label: "Finance"},
	{ID: models.VerticalGeneral, Label: "General", Unclassified: true},
	{ID: models.VerticalOther, Label: "Other", Unclassified: true},
}

var predefinedLanguages = []MetaLanguage{
	{ID: "en", Label: "English"},
	{ID: "de", Label: "Deutsch"},
	{ID: "fr", Label: "Français"},
	{ID: "es", Label: "Español"},
	{ID: "it", Label: "Italiano"},
	{ID: "pt", Label: "Português"},
	{ID: "nl", Label: "Nederlands"},
	{ID: "pl", Label: "Polski"},
	{ID: "sv", Label: "Svenska"},
	{ID: "ja", Label: "日本語"},
}

func (h *MetaHandler) GetVerticals(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedVerticals})
}

func (h *MetaHandler) GetLanguages(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: predefinedLanguages})
}

func (h *MetaHandler) GetBiddingStrategies(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: []string{
		strategy.BiddingMaximizeConversions,
		strategy.BiddingMaximizeClicks,
		strategy.BiddingTargetCPA,
		strategy.BiddingManualCPC,
	}})
}

// GetRecommendation previews the strategy generation would pick for a vertical.
func (h *MetaHandler) GetRecommendation(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: strategy.Recommend(c.Query("vertical"), c.Query("language", "en"))})
}
