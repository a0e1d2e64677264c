// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SignatureConfig provides the shared secret used to verify signed
// mini-app launch parameters.
type SignatureConfig interface {
	GetSignatureSecret() string
}

// TelegramConfig provides settings for the Telegram admin notifier.
type TelegramConfig interface {
	GetTelegramBotToken() string
	GetTelegramAdminChatIDs() []int64
	IsTelegramEnabled() bool
}

// VKConfig provides settings for the VK profile lookup client.
type VKConfig interface {
	GetVKServiceToken() string
	GetVKAPIBaseURL() string
	GetVKAPIVersion() string
	GetVKLookupTimeout() time.Duration
	IsVKLookupEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	SignatureSecret      string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	TelegramBotToken     string
	TelegramAdminChatIDs []int64
	VKServiceToken       string
	VKAPIBaseURL         string
	VKAPIVersion         string
	VKLookupTimeout      time.Duration
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SignatureConfig implementation
func (c *Config) GetSignatureSecret() string { return c.SignatureSecret }

// TelegramConfig implementation
func (c *Config) GetTelegramBotToken() string      { return c.TelegramBotToken }
func (c *Config) GetTelegramAdminChatIDs() []int64 { return c.TelegramAdminChatIDs }
func (c *Config) IsTelegramEnabled() bool {
	return c.TelegramBotToken != "" && len(c.TelegramAdminChatIDs) > 0
}

// VKConfig implementation
func (c *Config) GetVKServiceToken() string         { return c.VKServiceToken }
func (c *Config) GetVKAPIBaseURL() string           { return c.VKAPIBaseURL }
func (c *Config) GetVKAPIVersion() string           { return c.VKAPIVersion }
func (c *Config) GetVKLookupTimeout() time.Duration { return c.VKLookupTimeout }
func (c *Config) IsVKLookupEnabled() bool           { return c.VKServiceToken != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SignatureSecret:      getEnv("APP_SIGNATURE_SECRET", ""),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		TelegramBotToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAdminChatIDs: splitInt64CSV(getEnv("TELEGRAM_ADMIN_CHAT_IDS", "")),
		VKServiceToken:       getEnv("VK_SERVICE_TOKEN", ""),
		VKAPIBaseURL:         getEnv("VK_API_BASE_URL", "https://api.vk.com"),
		VKAPIVersion:         getEnv("VK_API_VERSION", "5.131"),
		VKLookupTimeout:      mustDuration(getEnv("VK_LOOKUP_TIMEOUT", "10s")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SignatureSecret == "" {
		return nil, fmt.Errorf("APP_SIGNATURE_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func splitInt64CSV(value string) []int64 {
	parts := splitCSV(value)
	results := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		results = append(results, id)
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
