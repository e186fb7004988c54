package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to a documented env var.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	TerminalID     string `mapstructure:"TERMINAL_ID"`

	// Backend REST API
	APIBaseURL        string `mapstructure:"API_BASE_URL"`
	APITimeoutSeconds int    `mapstructure:"API_TIMEOUT_SECONDS"`

	// Polling
	PollIntervalSeconds      int `mapstructure:"POLL_INTERVAL_SECONDS"`
	HeartbeatIntervalSeconds int `mapstructure:"HEARTBEAT_INTERVAL_SECONDS"`

	// Local archive of closings; empty disables it
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (operator state + job queues); empty keeps both in memory
	RedisURL string `mapstructure:"REDIS_URL"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	ReporteEmail string `mapstructure:"REPORTE_EMAIL"`

	// Business
	PDFStoragePath string `mapstructure:"PDF_STORAGE_PATH"`
	BusinessName   string `mapstructure:"BUSINESS_NAME"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 2)
	viper.SetDefault("TERMINAL_ID", "caja-1")
	viper.SetDefault("API_BASE_URL", "http://localhost:3000/api")
	viper.SetDefault("API_TIMEOUT_SECONDS", 10)
	viper.SetDefault("POLL_INTERVAL_SECONDS", 5)
	viper.SetDefault("HEARTBEAT_INTERVAL_SECONDS", 60)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("REPORTE_EMAIL", "")
	viper.SetDefault("PDF_STORAGE_PATH", "/tmp/botilleria/cierres")
	viper.SetDefault("BUSINESS_NAME", "Botilleria")

	// Optional .env file for local development - does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// APITimeout is the per-request deadline for backend calls.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatIntervalSeconds) * time.Second
}

// MailEnabled reports whether closing reports can be e-mailed.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.ReporteEmail != ""
}
