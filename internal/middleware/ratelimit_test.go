package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/exam-registration/internal/config"
)

func newTestContext(t *testing.T, method, path string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "203.0.113.7:12345"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}
	c := newTestContext(t, http.MethodPost, "/v1/auth/login")
	assert.Equal(t, "rl:ip:203.0.113.7", buildRateKey(cfg, c))

	cfg.KeyStrategy = "route"
	assert.Equal(t, "rl:route:POST /v1/auth/login", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_route"
	assert.Equal(t, "rl:ip:203.0.113.7:route:POST /v1/auth/login", buildRateKey(cfg, c))

	// Unknown strategies fall back to ip_route.
	cfg.KeyStrategy = "bogus"
	assert.Equal(t, "rl:ip:203.0.113.7:route:POST /v1/auth/login", buildRateKey(cfg, c))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(7), asInt64(int64(7)))
	assert.Equal(t, int64(7), asInt64(7))
	assert.Equal(t, int64(7), asInt64(7.9))
	assert.Equal(t, int64(7), asInt64("7"))
	assert.Equal(t, int64(0), asInt64("x"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestDisabledLimiterPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c := newTestContext(t, http.MethodGet, "/v1/auth/login")
	require.NoError(t, h(c))
	assert.True(t, called)
}
