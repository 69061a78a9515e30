package handlers

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/microsite-ads/backend/internal/http/dto"
	"github.com/microsite-ads/backend/internal/models"
	"github.com/microsite-ads/backend/internal/services"
	"go.uber.org/zap"
)

// AuditReader lists audit entries; nil when no postgres is configured.
type AuditReader interface {
	List(ctx context.Context, entityType, entityID string, limit, offset int) ([]models.AuditLog, error)
}

type ProductHandler struct {
	productService *services.ProductService
	checker        services.LinkChecker
	audit          AuditReader
	log            *zap.Logger
}

func NewProductHandler(productService *services.ProductService, checker services.LinkChecker, audit AuditReader, log *zap.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, checker: checker, audit: audit, log: log}
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	page := h.productService.List(c.UserContext(), services.ProductFilter{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 20),
		Search:   c.Query("search"),
		Vertical: c.Query("vertical"),
		Status:   c.Query("status"),
	})

	return c.JSON(dto.ProductListResponse{
		Success:    true,
		Products:   page.Products,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	p, err := h.productService.Get(c.UserContext(), slugParam(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: p})
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request")
	}

	p, err := h.productService.Create(c.UserContext(), actor(c), services.ProductInput{
		Slug:           req.Slug,
		Name:           req.Name,
		Vertical:       req.Vertical,
		Language:       req.Language,
		OfficialURL:    req.OfficialURL,
		AffiliateURL:   req.AffiliateURL,
		GoogleAdsID:    req.GoogleAdsID,
		GoogleAdsLabel: req.GoogleAdsLabel,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: p})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request")
	}

	p, err := h.productService.Update(c.UserContext(), actor(c), slugParam(c), services.ProductPatch{
		Name:           req.Name,
		Vertical:       req.Vertical,
		Language:       req.Language,
		Status:         req.Status,
		OfficialURL:    req.OfficialURL,
		AffiliateURL:   req.AffiliateURL,
		GoogleAdsID:    req.GoogleAdsID,
		GoogleAdsLabel: req.GoogleAdsLabel,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: p})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.Delete(c.UserContext(), actor(c), slugParam(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *ProductHandler) CloneProduct(c *fiber.Ctx) error {
	var req dto.CloneProductRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request")
	}

	newSlug, err := h.productService.Clone(c.UserContext(), actor(c), req.Slug)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.CloneResponse{Success: true, NewSlug: newSlug})
}

func (h *ProductHandler) Cleanup(c *fiber.Ctx) error {
	res, err := h.productService.Cleanup(c.UserContext(), actor(c))
	if err != nil {
		return respondError(c, h.log, err)
	}

	msg := "no ghost products found"
	if n := len(res.Deleted); n > 0 {
		msg = fmt.Sprintf("removed %d ghost products", n)
	}
	return c.JSON(dto.CleanupResponse{Success: true, Message: msg, Details: *res})
}

func (h *ProductHandler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(dto.SuccessResponse{OK: true, Data: h.productService.GetSettings(c.UserContext())})
}

func (h *ProductHandler) SaveSettings(c *fiber.Ctx) error {
	var req dto.SaveSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid request")
	}

	s, err := h.productService.SaveSettings(c.UserContext(), actor(c), services.SettingsInput{
		DefaultLang:       req.DefaultLang,
		ActiveProductSlug: req.ActiveProductSlug,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: s})
}

func (h *ProductHandler) LinkHealth(c *fiber.Ctx) error {
	res, err := h.productService.LinkHealth(c.UserContext(), h.checker, slugParam(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: res})
}

func (h *ProductHandler) History(c *fiber.Ctx) error {
	if h.audit == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "audit log is not configured")
	}

	entries, err := h.audit.List(c.UserContext(), "product", slugParam(c), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		h.log.Error("failed to list audit log", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "failed to list audit log")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}
