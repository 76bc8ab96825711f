package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	LogLevel    string
	Port        uint16
	BaseURL     string
	DatabaseUrl string // Optional; when empty the cart repository falls back to local files
	NatsURL     string // Optional; when empty confirmed-order events are dropped
	Toss        TossConfig
	Cart        CartConfig
	Catalog     CatalogConfig
}

// TossConfig holds Toss Payments credentials. The secret key stays
// server-side; only the client key is ever rendered into a page.
type TossConfig struct {
	ClientKey  string
	SecretKey  string
	APIBaseURL string
}

// CartConfig controls cart persistence and the shipping cost rule.
type CartConfig struct {
	// StoragePath is the directory for file-backed cart state
	// (used when DATABASE_URL is not configured).
	StoragePath string

	// FreeShippingThreshold is the selected subtotal (KRW) at or above
	// which shipping is free.
	FreeShippingThreshold int64

	// FlatShippingFee is charged below the threshold.
	FlatShippingFee int64
}

// CatalogConfig controls catalog cache staleness.
type CatalogConfig struct {
	// ListTTLSeconds is how long product list results stay fresh.
	ListTTLSeconds int

	// DetailTTLSeconds is how long single-product lookups stay fresh.
	DetailTTLSeconds int
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:         getEnv("ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getEnvInt("PORT", 3000),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseUrl: getEnv("DATABASE_URL", ""),
		NatsURL:     getEnv("NATS_URL", ""),
		Toss: TossConfig{
			ClientKey:  getEnv("TOSS_PAYMENTS_CLIENT_KEY", "test_ck_your_key_here"),
			SecretKey:  getEnv("TOSS_PAYMENTS_SECRET_KEY", ""),
			APIBaseURL: getEnv("TOSS_PAYMENTS_API_URL", "https://api.tosspayments.com"),
		},
		Cart: CartConfig{
			StoragePath:           getEnv("CART_STORAGE_PATH", "./data/carts"),
			FreeShippingThreshold: getEnvInt64("FREE_SHIPPING_THRESHOLD", 50000),
			FlatShippingFee:       getEnvInt64("FLAT_SHIPPING_FEE", 3000),
		},
		Catalog: CatalogConfig{
			ListTTLSeconds:   int(getEnvInt64("CATALOG_LIST_TTL_SECONDS", 300)),
			DetailTTLSeconds: int(getEnvInt64("CATALOG_DETAIL_TTL_SECONDS", 600)),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	// The secret key may be absent in development; the confirmation
	// endpoint reports a server configuration error per request. In prod
	// it must be present.
	if cfg.Env == "prod" && cfg.Toss.SecretKey == "" {
		return nil, fmt.Errorf("TOSS_PAYMENTS_SECRET_KEY must be set in production environment")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 16); err == nil {
			return uint16(parsed)
		}
		slog.Default().Warn("Invalid integer value for environment variable", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		slog.Default().Warn("Invalid integer value for environment variable", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}
