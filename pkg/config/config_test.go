package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 25, cfg.Table.PageSize)
	assert.Equal(t, 100, cfg.Mock.UserCount)
	assert.Equal(t, time.Second, cfg.Mock.FetchLatency)
	assert.Equal(t, 300*time.Millisecond, cfg.Mock.DeleteLatency)
	assert.Equal(t, "en", cfg.Locale)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Mail.ResendAPIKey)
	assert.Equal(t, 300, cfg.Rate.Requests)
	assert.Equal(t, time.Minute, cfg.Rate.Window)
}

func TestFromViperSanitisesInvalidValues(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("TABLE_PAGE_SIZE", -3)
	v.Set("MOCK_FAILURE_RATE", 4.2)
	v.Set("MOCK_UPDATE_LATENCY", "soon")
	v.Set("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	v.Set("RATE_LIMIT_REQUESTS", -1)
	v.Set("RATE_LIMIT_WINDOW", "often")

	cfg := fromViper(v)
	assert.Equal(t, 25, cfg.Table.PageSize)
	assert.Zero(t, cfg.Mock.FailureRate)
	assert.Equal(t, 500*time.Millisecond, cfg.Mock.UpdateLatency)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Zero(t, cfg.Rate.Requests)
	assert.Equal(t, time.Minute, cfg.Rate.Window)
}
