package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"vcardops/config"
	"vcardops/infras/metrics"
	otelMocks "vcardops/infras/otel/mocks"
	"vcardops/shared/cache"
	cacheMocks "vcardops/shared/cache/mocks"
	"vcardops/shared/constant"
	"vcardops/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func limiterConfig(enable bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "vcardops"
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func TestRateLimit(t *testing.T) {
	const key = "limiter:10.0.0.1:uptime-check"

	tests := []struct {
		name          string
		enable        bool
		stored        int
		getErr        error
		wantSave      int
		wantCode      int
		wantRemaining string
	}{
		{
			name:     "disabled",
			wantCode: http.StatusOK,
		},
		{
			name:          "first request in window",
			enable:        true,
			getErr:        cache.Nil,
			wantSave:      1,
			wantCode:      http.StatusOK,
			wantRemaining: "1",
		},
		{
			name:          "last allowed request",
			enable:        true,
			stored:        1,
			wantSave:      2,
			wantCode:      http.StatusOK,
			wantRemaining: "0",
		},
		{
			name:     "over the limit",
			enable:   true,
			stored:   2,
			wantCode: http.StatusTooManyRequests,
		},
		{
			name:     "cache down lets the request through",
			enable:   true,
			getErr:   errors.New("connection refused"),
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redisCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))

			if tt.enable {
				redisCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).DoAndReturn(
					func(_ any, _ string, value any) error {
						*(value.(*int)) = tt.stored

						return tt.getErr
					})
			}

			if tt.wantSave > 0 {
				redisCache.EXPECT().Save(gomock.Any(), key, tt.wantSave, 60).Return(nil)
			}

			cfg := limiterConfig(tt.enable)
			app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, redisCache, metrics.New(cfg))

			handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/hotels", nil)
			req.Header.Set(constant.RequestHeaderForwardedFor, "10.0.0.1, 172.16.0.4")
			req.Header.Set(constant.RequestHeaderUserAgent, "uptime-check")

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	cfg := limiterConfig(false)
	m := metrics.New(cfg)
	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, nil, m)

	router := chi.NewRouter()
	router.Use(app.Metrics)
	router.Get("/api/reservations/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/reservations/"+id, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body),
		`vcardops_http_requests_total{method="GET",route="/api/reservations/{id}",status="404"} 3`)
	assert.NotContains(t, string(body), `route="/api/reservations/1"`)
}
