package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskly/config"
	"taskly/infras/otel/mocks"
	"taskly/shared/cache"
	"taskly/shared/constant"
	"taskly/transport/http/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newAppMiddleware(t *testing.T, cfg *config.Config) (middleware.AppMiddleware, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache.NewRedisCache(client, mocks.NewOtel())), server
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	app, server := newAppMiddleware(t, cfg)
	handler := app.RateLimit()(ok())

	send := func(ip string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodGet, "/todos", nil)
		request.Header.Set(constant.RequestHeaderForwardedFor, ip+", 10.0.0.99")
		request.Header.Set(constant.RequestHeaderUserAgent, "curl/8.0")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		return recorder
	}

	first := send("10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get(constant.RequestHeaderRateLimit))
	assert.Equal(t, "1", first.Header().Get(constant.RequestHeaderRateLimitRemaining))

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	limited := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "0", limited.Header().Get(constant.RequestHeaderRateLimitRemaining))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)

	assert.True(t, server.Exists("limiter:10.0.0.1:curl/8.0"))
	assert.Positive(t, server.TTL("limiter:10.0.0.1:curl/8.0"))
}

func TestRateLimit_CacheDown(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 1
	cfg.App.RateLimiter.WindowSeconds = 60

	app, server := newAppMiddleware(t, cfg)
	server.Close()

	recorder := httptest.NewRecorder()
	app.RateLimit()(ok()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRateLimit_UnsetLimits(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true

	app, server := newAppMiddleware(t, cfg)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constant.RequestHeaderRealIP, "10.0.0.1")
	app.RateLimit()(ok()).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "100", recorder.Header().Get(constant.RequestHeaderRateLimit))
	assert.Equal(t, "60", recorder.Header().Get(constant.RequestHeaderRateLimitWindow))
	assert.Equal(t, 60*time.Second, server.TTL("limiter:10.0.0.1:unknown"))
}

func TestRateLimit_Disabled(t *testing.T) {
	app, server := newAppMiddleware(t, &config.Config{})

	recorder := httptest.NewRecorder()
	app.RateLimit()(ok()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, server.Keys())
}

func TestCORS(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		app, _ := newAppMiddleware(t, &config.Config{})

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Origin", "https://example.com")

		recorder := httptest.NewRecorder()
		app.CORS()(ok()).ServeHTTP(recorder, request)

		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("enabled", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.App.CORS.Enable = true
		cfg.App.CORS.AllowedOrigins = []string{"https://example.com"}
		cfg.App.CORS.AllowedMethods = []string{http.MethodGet}

		app, _ := newAppMiddleware(t, cfg)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Origin", "https://example.com")

		recorder := httptest.NewRecorder()
		app.CORS()(ok()).ServeHTTP(recorder, request)

		assert.Equal(t, "https://example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLoggerAndTracing(t *testing.T) {
	app, _ := newAppMiddleware(t, &config.Config{})

	handler := app.Tracing(app.Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusTeapot, recorder.Code)
}
