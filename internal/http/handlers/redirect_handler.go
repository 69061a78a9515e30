package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/microsite-ads/backend/internal/services"
	"go.uber.org/zap"
)

type RedirectHandler struct {
	resolver *services.RedirectResolver
	log      *zap.Logger
}

func NewRedirectHandler(resolver *services.RedirectResolver, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{resolver: resolver, log: log}
}

// Go sends the visitor to the product's affiliate or official URL.
func (h *RedirectHandler) Go(c *fiber.Ctx) error {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		// keep whatever parsed
		h.log.Debug("malformed redirect query", zap.Error(err))
	}

	rd := h.resolver.Resolve(c.UserContext(), c.Hostname(), query)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Redirect(rd.Location, fiber.StatusFound)
}

const offlinePage = `<!doctype html>
<html lang="en"><head><meta charset="utf-8"><title>Offer unavailable</title>
<meta name="robots" content="noindex"></head>
<body><h1>This offer is currently unavailable</h1><p><a href="/">Back to the home page</a></p></body></html>`

func (h *RedirectHandler) Offline(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(offlinePage)
}
