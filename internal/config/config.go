package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	// Storage
	RedisURL            string
	PostgresDSN         string // optional: audit log and the postgres store backend
	StoreBackend        string // redis / postgres / memory
	StoreKey            string
	StoreOptimisticLock bool

	// Auth
	JWTSecret     string
	JWTExpiration time.Duration
	AdminAPIToken string

	// Public site
	PublicBaseURL      string
	OfflinePath        string
	DefaultProductSlug string
	HostVerticals      map[string]string // host -> vertical, overrides subdomain detection
	DefaultGoogleAdsID string

	// Google Ads
	GoogleAdsDeveloperToken string
	GoogleAdsClientID       string
	GoogleAdsClientSecret   string
	GoogleAdsRefreshToken   string
	GoogleAdsLoginCustomer  string
	GoogleAdsAPIVersion     string
	GoogleAdsBaseURL        string
	GoogleAdsTimeout        time.Duration

	// Link health
	LinkCheckTimeout time.Duration

	// Rate limits
	RedirectRateLimitPerMin int
	AdminRateLimitPerMin    int

	// Server
	APIPort string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		PostgresDSN:         getEnv("POSTGRES_DSN", ""),
		StoreBackend:        strings.ToLower(getEnv("STORE_BACKEND", "redis")),
		StoreKey:            getEnv("STORE_KEY", "campaign_config"),
		StoreOptimisticLock: getEnvBool("STORE_OPTIMISTIC_LOCK", false),

		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiration: time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 12)) * time.Hour,
		AdminAPIToken: getEnv("ADMIN_API_TOKEN", ""),

		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		OfflinePath:        getEnv("OFFLINE_PATH", "/offline"),
		DefaultProductSlug: getEnv("DEFAULT_PRODUCT_SLUG", ""),
		HostVerticals:      parseHostVerticals(getEnv("HOST_VERTICALS", "")),
		DefaultGoogleAdsID: getEnv("DEFAULT_GOOGLE_ADS_ID", ""),

		GoogleAdsDeveloperToken: getEnv("GOOGLE_ADS_DEVELOPER_TOKEN", ""),
		GoogleAdsClientID:       getEnv("GOOGLE_ADS_CLIENT_ID", ""),
		GoogleAdsClientSecret:   getEnv("GOOGLE_ADS_CLIENT_SECRET", ""),
		GoogleAdsRefreshToken:   getEnv("GOOGLE_ADS_REFRESH_TOKEN", ""),
		GoogleAdsLoginCustomer:  strings.ReplaceAll(getEnv("GOOGLE_ADS_LOGIN_CUSTOMER_ID", ""), "-", ""),
		GoogleAdsAPIVersion:     getEnv("GOOGLE_ADS_API_VERSION", "v17"),
		GoogleAdsBaseURL:        getEnv("GOOGLE_ADS_BASE_URL", "https://googleads.googleapis.com"),
		GoogleAdsTimeout:        time.Duration(getEnvInt("GOOGLE_ADS_TIMEOUT_MS", 8000)) * time.Millisecond,

		LinkCheckTimeout: time.Duration(getEnvInt("LINK_CHECK_TIMEOUT_MS", 5000)) * time.Millisecond,

		RedirectRateLimitPerMin: getEnvInt("REDIRECT_RATE_LIMIT_PER_MIN", 300),
		AdminRateLimitPerMin:    getEnvInt("ADMIN_RATE_LIMIT_PER_MIN", 120),

		APIPort: getEnv("API_PORT", "3000"),
	}

	return cfg
}

// GoogleAdsConfigured reports whether every credential the ads adapter needs is present.
func (c *Config) GoogleAdsConfigured() bool {
	return c.GoogleAdsDeveloperToken != "" && c.GoogleAdsClientID != "" &&
		c.GoogleAdsClientSecret != "" && c.GoogleAdsRefreshToken != ""
}

func (c *Config) Validate(log *zap.Logger) {
	if c.JWTSecret == "change-me-in-production" {
		log.Warn("JWT_SECRET is default, change in production")
	}
	if c.AdminAPIToken != "" && len(c.AdminAPIToken) < 24 {
		log.Warn("ADMIN_API_TOKEN is shorter than 24 characters")
	}
	if !c.GoogleAdsConfigured() {
		log.Warn("google ads credentials incomplete, publishing will fail")
	}
	switch c.StoreBackend {
	case "redis", "memory":
	case "postgres":
		if c.PostgresDSN == "" {
			log.Warn("STORE_BACKEND=postgres without POSTGRES_DSN, falling back to redis")
			c.StoreBackend = "redis"
		}
	default:
		log.Warn("unknown STORE_BACKEND, using redis", zap.String("backend", c.StoreBackend))
		c.StoreBackend = "redis"
	}
	if c.StoreBackend == "memory" {
		log.Warn("memory store selected, configuration will not survive restarts")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

// parseHostVerticals parses "health.example.com=health,diy.example.com=diy".
func parseHostVerticals(s string) map[string]string {
	out := map[string]string{}
	if s == "" {
		return out
	}
	for _, pair := range strings.Split(s, ",") {
		host, vertical, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		host = strings.ToLower(strings.TrimSpace(host))
		vertical = strings.ToLower(strings.TrimSpace(vertical))
		if host != "" && vertical != "" {
			out[host] = vertical
		}
	}
	return out
}
