package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/microsite-ads/backend/internal/http/dto"
	"github.com/microsite-ads/backend/internal/services"
	"go.uber.org/zap"
)

// PlatformHandler exposes read-only views of the external ads platform.
type PlatformHandler struct {
	adsService *services.AdsService
	log        *zap.Logger
}

func NewPlatformHandler(adsService *services.AdsService, log *zap.Logger) *PlatformHandler {
	return &PlatformHandler{adsService: adsService, log: log}
}

func (h *PlatformHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.adsService.ListAccounts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: accounts})
}

func (h *PlatformHandler) ListCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.adsService.ListCampaigns(c.UserContext(), c.Params("customerId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campaigns})
}

func (h *PlatformHandler) GetMetrics(c *fiber.Ctx) error {
	m, err := h.adsService.GetMetrics(c.UserContext(), c.Params("customerId"), c.QueryInt("days", 30))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: m})
}

func (h *PlatformHandler) ListConversionActions(c *fiber.Ctx) error {
	actions, err := h.adsService.ListConversionActions(c.UserContext(), c.Params("customerId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: actions})
}
