package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/microsite-ads/backend/internal/http/dto"
	"github.com/microsite-ads/backend/internal/middleware"
	"github.com/microsite-ads/backend/internal/services"
	"go.uber.org/zap"
)

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	reqID, _ := c.Locals(middleware.CtxRequestID).(string)
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, RequestID: reqID})
}

// respondError maps service error kinds to HTTP status codes.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUpstream):
		return errorJSON(c, fiber.StatusBadGateway, err.Error())
	case errors.Is(err, services.ErrPersistence):
		return errorJSON(c, fiber.StatusInternalServerError, err.Error())
	default:
		log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "internal error")
	}
}

func actor(c *fiber.Ctx) services.Actor {
	return services.Actor{ID: middleware.GetActorID(c), Role: middleware.GetActorRole(c)}
}

// slugParam returns the unescaped :slug route parameter.
func slugParam(c *fiber.Ctx) string {
	raw := c.Params("slug")
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}
