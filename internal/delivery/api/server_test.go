package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"letsshare/config"
	apimiddleware "letsshare/internal/delivery/api/middleware"
	"letsshare/internal/delivery/api/router"
	"letsshare/internal/delivery/api/router/handler"
	deliverycontext "letsshare/internal/delivery/context"
	"letsshare/internal/infra/metrics"
	mockUC "letsshare/internal/mocks/usecase"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newTestServerParams(t *testing.T, m *metrics.Metrics) ServerParams {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authUC := mockUC.NewMockAuthUsecase(t)
	postUC := mockUC.NewMockPostUsecase(t)

	return ServerParams{
		Lc: fxtest.NewLifecycle(t),
		Cfg: &config.Config{
			HTTP: config.HTTPConfig{
				MaxRequestBodySize: "1KB",
				CORS:               config.CORSConfig{AllowOrigins: []string{"https://letsshare.example"}},
			},
			Metrics: &config.MetricsConfig{Enabled: true, Path: "/metrics"},
		},
		Logger:  logger,
		Metrics: m,
		RouterParams: router.RouterParams{
			AuthHandler:    handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC, Logger: logger}),
			PostHandler:    handler.NewPostHandler(handler.PostHandlerParams{PostUC: postUC, Logger: logger}),
			AuthMiddleware: apimiddleware.NewAuthMiddleware(authUC),
		},
	}
}

func TestServer_Routes(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	e := newEcho(newTestServerParams(t, m))

	t.Run("health carries the envelope and request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		requestID := rec.Header().Get(deliverycontext.HeaderXRequestID)
		require.NotEmpty(t, requestID)

		var body map[string]map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["data"]["status"])
		assert.Equal(t, requestID, body["meta"]["request_id"])
	})

	t.Run("protected route without token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"description":"x"}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	})

	t.Run("unknown route uses the error envelope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(strings.Repeat("x", 4096)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("cors allows the configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
		req.Header.Set(echo.HeaderOrigin, "https://letsshare.example")
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "https://letsshare.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "letsshare_http_requests_total")
	})
}

func TestServer_MetricsDisabled(t *testing.T) {
	params := newTestServerParams(t, nil)
	params.Cfg.Metrics = nil
	e := newEcho(params)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewServer_RegistersStopHook(t *testing.T) {
	params := newTestServerParams(t, nil)
	lc := fxtest.NewLifecycle(t)
	params.Lc = lc

	srv, err := NewServer(params)
	require.NoError(t, err)
	require.NotNil(t, srv)

	lc.RequireStart()
	lc.RequireStop()
}
