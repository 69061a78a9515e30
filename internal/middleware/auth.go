package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/microsite-ads/backend/internal/auth"
	"github.com/microsite-ads/backend/internal/config"
	"github.com/microsite-ads/backend/internal/rbac"
	"go.uber.org/zap"
)

const (
	CtxActorID   = "actor_id"
	CtxActorRole = "actor_role"
)

// StaticTokenActor is the actor id recorded for requests using ADMIN_API_TOKEN.
const StaticTokenActor = "api-token"

// AuthMiddleware accepts either the static admin API token or an operator JWT.
func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		if cfg.AdminAPIToken != "" && subtle.ConstantTimeCompare([]byte(tokenStr), []byte(cfg.AdminAPIToken)) == 1 {
			c.Locals(CtxActorID, StaticTokenActor)
			c.Locals(CtxActorRole, rbac.RoleAdmin)
			return c.Next()
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		if !rbac.IsValidRole(claims.Role) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unknown role"})
		}

		c.Locals(CtxActorID, claims.Subject)
		c.Locals(CtxActorRole, claims.Role)

		return c.Next()
	}
}

func GetActorID(c *fiber.Ctx) string {
	id, _ := c.Locals(CtxActorID).(string)
	return id
}

func GetActorRole(c *fiber.Ctx) string {
	role, _ := c.Locals(CtxActorRole).(string)
	return role
}

// RequirePermission rejects actors whose role lacks perm. Must run after AuthMiddleware.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rbac.HasPermission(GetActorRole(c), perm) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "permission denied: " + perm})
		}
		return c.Next()
	}
}
