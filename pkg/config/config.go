package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS    CORSConfig
	Log     LogConfig
	Table   TableConfig
	Mock    MockConfig
	Locale  string
	Metrics MetricsConfig
	Notify  NotifyConfig
	Mail    MailConfig
	Rate    RateLimitConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TableConfig tunes per-session table state.
type TableConfig struct {
	PageSize        int
	SessionTTL      time.Duration
	JanitorInterval time.Duration
}

// MockConfig drives the simulated remote user API.
type MockConfig struct {
	UserCount         int
	Seed              int64
	FetchLatency      time.Duration
	CreateLatency     time.Duration
	UpdateLatency     time.Duration
	DeleteLatency     time.Duration
	DeleteManyLatency time.Duration
	FailureRate       float64
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// NotifyConfig configures the welcome e-mail worker pool.
type NotifyConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// MailConfig selects the welcome e-mail transport. An empty ResendAPIKey keeps the
// log-only mailer.
type MailConfig struct {
	ResendAPIKey string
	From         string
}

// RateLimitConfig bounds requests per client IP. Zero Requests disables limiting.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.Locale = v.GetString("LOCALE")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	pageSize := v.GetInt("TABLE_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 25
	}
	cfg.Table = TableConfig{
		PageSize:        pageSize,
		SessionTTL:      parseDuration(v.GetString("TABLE_SESSION_TTL"), 30*time.Minute),
		JanitorInterval: parseDuration(v.GetString("TABLE_JANITOR_INTERVAL"), time.Minute),
	}

	failureRate := v.GetFloat64("MOCK_FAILURE_RATE")
	if failureRate < 0 || failureRate > 1 {
		failureRate = 0
	}
	cfg.Mock = MockConfig{
		UserCount:         v.GetInt("MOCK_USER_COUNT"),
		Seed:              v.GetInt64("MOCK_SEED"),
		FetchLatency:      parseDuration(v.GetString("MOCK_FETCH_LATENCY"), time.Second),
		CreateLatency:     parseDuration(v.GetString("MOCK_CREATE_LATENCY"), time.Second),
		UpdateLatency:     parseDuration(v.GetString("MOCK_UPDATE_LATENCY"), 500*time.Millisecond),
		DeleteLatency:     parseDuration(v.GetString("MOCK_DELETE_LATENCY"), 300*time.Millisecond),
		DeleteManyLatency: parseDuration(v.GetString("MOCK_DELETE_MANY_LATENCY"), 500*time.Millisecond),
		FailureRate:       failureRate,
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	cfg.Notify = NotifyConfig{
		Workers:    v.GetInt("NOTIFY_WORKERS"),
		Retries:    v.GetInt("NOTIFY_RETRIES"),
		RetryDelay: parseDuration(v.GetString("NOTIFY_RETRY_DELAY"), time.Second),
	}

	cfg.Mail = MailConfig{
		ResendAPIKey: v.GetString("RESEND_API_KEY"),
		From:         v.GetString("MAIL_FROM"),
	}

	requests := v.GetInt("RATE_LIMIT_REQUESTS")
	if requests < 0 {
		requests = 0
	}
	cfg.Rate = RateLimitConfig{
		Requests: requests,
		Window:   parseDuration(v.GetString("RATE_LIMIT_WINDOW"), time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("LOCALE", "en")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TABLE_PAGE_SIZE", 25)
	v.SetDefault("TABLE_SESSION_TTL", "30m")
	v.SetDefault("TABLE_JANITOR_INTERVAL", "1m")

	v.SetDefault("MOCK_USER_COUNT", 100)
	v.SetDefault("MOCK_SEED", 42)
	v.SetDefault("MOCK_FETCH_LATENCY", "1s")
	v.SetDefault("MOCK_CREATE_LATENCY", "1s")
	v.SetDefault("MOCK_UPDATE_LATENCY", "500ms")
	v.SetDefault("MOCK_DELETE_LATENCY", "300ms")
	v.SetDefault("MOCK_DELETE_MANY_LATENCY", "500ms")
	v.SetDefault("MOCK_FAILURE_RATE", 0)

	v.SetDefault("ENABLE_METRICS", true)

	v.SetDefault("NOTIFY_WORKERS", 1)
	v.SetDefault("NOTIFY_RETRIES", 3)
	v.SetDefault("NOTIFY_RETRY_DELAY", "1s")

	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("MAIL_FROM", "Admin Panel <noreply@example.com>")

	v.SetDefault("RATE_LIMIT_REQUESTS", 300)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
