package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(l *Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	r := newRouter(New(2, time.Hour))

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)

	w := hit(r, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.2").Code)
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	l := New(0, time.Minute)
	assert.Nil(t, l)

	r := newRouter(l)
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	}
}

func TestSweepDropsIdleClients(t *testing.T) {
	l := New(5, time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(5 * time.Minute)
	l.Allow("b")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, l.Sweep())
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "b")
}
