package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/microsite-ads/backend/internal/http/dto"
	"github.com/microsite-ads/backend/internal/services"
	"go.uber.org/zap"
)

type AdsHandler struct {
	adsService *services.AdsService
	log        *zap.Logger
}

func NewAdsHandler(adsService *services.AdsService, log *zap.Logger) *AdsHandler {
	return &AdsHandler{adsService: adsService, log: log}
}

func (h *AdsHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateAdsRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request")
	}

	ads, err := h.adsService.Generate(c.UserContext(), actor(c), req.Slug, req.Strategy)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(dto.GenerateAdsResponse{
		Success:   true,
		Campaigns: ads.Campaigns,
		Version:   ads.Version,
		Settings:  ads.Settings,
	})
}

func (h *AdsHandler) GenerateBatch(c *fiber.Ctx) error {
	var req dto.GenerateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request")
	}

	res, err := h.adsService.GenerateBatch(c.UserContext(), actor(c), req.Slugs)
	if err != nil {
		return respondError(c, h.log, err)
	}

	status := fiber.StatusOK
	if len(res.Failed) > 0 && res.Count == 0 {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(dto.GenerateBatchResponse{
		Success: len(res.Failed) == 0,
		Count:   res.Count,
		Failed:  res.Failed,
	})
}

func (h *AdsHandler) Publish(c *fiber.Ctx) error {
	var req dto.PublishAdsRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request")
	}

	res, err := h.adsService.Publish(c.UserContext(), actor(c), services.PublishInput{
		Slug:       req.Slug,
		CustomerID: req.CustomerID,
		AdGroupID:  req.AdGroupID,
		CampaignID: req.CampaignID,
		Ad:         req.AdData,
		Paused:     req.Paused,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(dto.PublishAdsResponse{
		Success:      true,
		ResourceName: res.ResourceName,
		Publication:  res.Publication,
	})
}
