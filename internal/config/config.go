package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	GeminiAPIKey     string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string        `mapstructure:"GEMINI_MODEL"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	HTTPPort         string        `mapstructure:"HTTP_PORT"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	AIDailyLimit     int           `mapstructure:"AI_DAILY_LIMIT"`
	AIQuotaWindow    time.Duration `mapstructure:"AI_QUOTA_WINDOW"`
	SyncPollInterval time.Duration `mapstructure:"SYNC_POLL_INTERVAL"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	SpeechRecognizer string        `mapstructure:"SPEECH_RECOGNIZER"`
}

var keys = []string{
	"GEMINI_API_KEY",
	"GEMINI_MODEL",
	"DATABASE_URL",
	"HTTP_PORT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"JWT_SECRET",
	"REDIS_ADDR",
	"AI_DAILY_LIMIT",
	"AI_QUOTA_WINDOW",
	"SYNC_POLL_INTERVAL",
	"CORS_ORIGINS",
	"SPEECH_RECOGNIZER",
}

// Load reads .env (if present) and the process environment. Nothing is
// required here; commands that need a value call the matching Require method.
func Load() (*Config, error) {
	// Missing .env is fine, environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash-latest")
	v.SetDefault("DATABASE_URL", "care_assistant.db")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("AI_DAILY_LIMIT", 50)
	v.SetDefault("AI_QUOTA_WINDOW", "24h")
	v.SetDefault("SYNC_POLL_INTERVAL", "30s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// viper splits on commas but keeps the surrounding spaces.
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AIDailyLimit <= 0 {
		return fmt.Errorf("AI_DAILY_LIMIT must be positive, got %d", c.AIDailyLimit)
	}
	if c.AIQuotaWindow <= 0 {
		return fmt.Errorf("AI_QUOTA_WINDOW must be positive, got %s", c.AIQuotaWindow)
	}
	if c.SyncPollInterval <= 0 {
		return fmt.Errorf("SYNC_POLL_INTERVAL must be positive, got %s", c.SyncPollInterval)
	}
	return nil
}

// RequireServe checks the settings the HTTP server cannot run without.
func (c *Config) RequireServe() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return nil
}

// AIEnabled reports whether a Gemini key is configured. Without one the
// assistant answers from the knowledge base and canned replies only.
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
