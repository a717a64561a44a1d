package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultRecipient receives contact messages when CONTACT_TO_EMAIL is unset
	DefaultRecipient = "hh727w@gmail.com"
	// DefaultSender is used when CONTACT_FROM_EMAIL is unset
	DefaultSender = "Herman Portfolio <onboarding@resend.dev>"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Contact       ContactConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
	Cache         CacheConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

// ContactConfig configures the contact intake endpoint and its email delivery
type ContactConfig struct {
	Recipients     []string
	Sender         string
	ResendAPIKey   string
	ResendBaseURL  string
	SMTP           SMTPConfig
	MaxBodyBytes   int64
	RateLimitRPS   float64
	RateLimitBurst int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type LoggingConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ObservabilityConfig struct {
	ExporterEndpoint  string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

type CacheConfig struct {
	CatalogTTLSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://hh727w.dev")
	v.SetDefault("CONTACT_TO_EMAIL", DefaultRecipient)
	v.SetDefault("CONTACT_FROM_EMAIL", DefaultSender)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("CONTACT_MAX_BODY_BYTES", 64*1024)
	v.SetDefault("CONTACT_RATE_LIMIT_RPS", 0.2) // one message per 5s per IP
	v.SetDefault("CONTACT_RATE_LIMIT_BURST", 5)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "portfolio-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "portfolio")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "portfolio-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)
	v.SetDefault("CATALOG_CACHE_TTL", 300)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	sender := strings.TrimSpace(v.GetString("CONTACT_FROM_EMAIL"))
	if sender == "" {
		sender = DefaultSender
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: SplitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		Contact: ContactConfig{
			Recipients:    ParseRecipients(v.GetString("CONTACT_TO_EMAIL")),
			Sender:        sender,
			ResendAPIKey:  strings.TrimSpace(v.GetString("RESEND_API_KEY")),
			ResendBaseURL: strings.TrimSpace(v.GetString("RESEND_BASE_URL")),
			SMTP: SMTPConfig{
				Host:     v.GetString("SMTP_HOST"),
				Port:     v.GetInt("SMTP_PORT"),
				Username: v.GetString("SMTP_USERNAME"),
				Password: v.GetString("SMTP_PASSWORD"),
			},
			MaxBodyBytes:   v.GetInt64("CONTACT_MAX_BODY_BYTES"),
			RateLimitRPS:   v.GetFloat64("CONTACT_RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("CONTACT_RATE_LIMIT_BURST"),
		},
		Logging: LoggingConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Dir:        v.GetString("LOG_DIR"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint:  v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
		Cache: CacheConfig{
			CatalogTTLSeconds: v.GetInt("CATALOG_CACHE_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SplitList splits a comma-separated value, trimming entries and dropping empties
func SplitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseRecipients parses CONTACT_TO_EMAIL, falling back to DefaultRecipient
// when nothing usable is left.
func ParseRecipients(raw string) []string {
	to := SplitList(raw)
	if len(to) == 0 {
		return []string{DefaultRecipient}
	}
	return to
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}
	if c.Contact.MaxBodyBytes <= 0 {
		return fmt.Errorf("CONTACT_MAX_BODY_BYTES must be positive")
	}
	if c.Contact.RateLimitRPS <= 0 || c.Contact.RateLimitBurst <= 0 {
		return fmt.Errorf("CONTACT_RATE_LIMIT_RPS and CONTACT_RATE_LIMIT_BURST must be positive")
	}
	if c.Contact.SMTP.Host != "" && c.Contact.SMTP.Port <= 0 {
		return fmt.Errorf("SMTP_PORT must be positive when SMTP_HOST is set")
	}
	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// EmailProvider names the delivery backend selected by the configuration:
// "resend" when an API key is set, "smtp" when an SMTP host is set, otherwise "log".
func (c *Config) EmailProvider() string {
	switch {
	case c.Contact.ResendAPIKey != "":
		return "resend"
	case c.Contact.SMTP.Host != "":
		return "smtp"
	default:
		return "log"
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
