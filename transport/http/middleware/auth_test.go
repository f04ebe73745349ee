package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"vcardops/config"
	"vcardops/infras/jwt"
	jwtMocks "vcardops/infras/jwt/mocks"
	otelMocks "vcardops/infras/otel/mocks"
	"vcardops/permissions"
	"vcardops/shared/constant"
	"vcardops/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const internalKey = "internal-key"

func protectedRouter(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	perms := permissions.Get()
	require.NotNil(t, perms)

	cfg := &config.Config{}
	cfg.App.APIKey = internalKey

	authRole := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), perms, cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Route("/api", func(group chi.Router) {
		group.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
		group.Post("/auth/login", ok)
		group.Get("/reservations/{id}", ok)
		group.Post("/cards/do-not-charge", ok)
		group.Get("/unlisted", ok)
	})

	return router
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		header   string
		apiKey   string
		claims   *jwt.Claims
		err      error
		wantCode int
		wantRole string
	}{
		{
			name:     "login skips authentication",
			method:   http.MethodPost,
			path:     "/api/auth/login",
			wantCode: http.StatusOK,
		},
		{
			name:     "missing header",
			method:   http.MethodGet,
			path:     "/api/reservations/7",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed header",
			method:   http.MethodGet,
			path:     "/api/reservations/7",
			header:   "Token abc",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "expired token",
			method:   http.MethodGet,
			path:     "/api/reservations/7",
			header:   "Bearer abc",
			err:      jwt.ErrExpiredToken,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "token without email",
			method:   http.MethodGet,
			path:     "/api/reservations/7",
			header:   "Bearer abc",
			claims:   &jwt.Claims{UserID: "u-1", Role: "user"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "user reads a reservation",
			method:   http.MethodGet,
			path:     "/api/reservations/7",
			header:   "Bearer abc",
			claims:   &jwt.Claims{UserID: "u-1", Email: "agent@example.com", Role: "user"},
			wantCode: http.StatusOK,
			wantRole: "user",
		},
		{
			name:     "user cannot mark do not charge",
			method:   http.MethodPost,
			path:     "/api/cards/do-not-charge",
			header:   "Bearer abc",
			claims:   &jwt.Claims{UserID: "u-1", Email: "agent@example.com", Role: "user"},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "finance marks do not charge",
			method:   http.MethodPost,
			path:     "/api/cards/do-not-charge",
			header:   "Bearer abc",
			claims:   &jwt.Claims{UserID: "u-2", Email: "finance@example.com", Role: "finance"},
			wantCode: http.StatusOK,
			wantRole: "finance",
		},
		{
			name:     "route without rules is open to any role",
			method:   http.MethodGet,
			path:     "/api/unlisted",
			header:   "Bearer abc",
			claims:   &jwt.Claims{UserID: "u-1", Email: "agent@example.com", Role: "user"},
			wantCode: http.StatusOK,
			wantRole: "user",
		},
		{
			name:     "internal api key bypasses token",
			method:   http.MethodPost,
			path:     "/api/cards/do-not-charge",
			apiKey:   internalKey,
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			method:   http.MethodPost,
			path:     "/api/cards/do-not-charge",
			apiKey:   "guess",
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := jwtMocks.NewMockJWT(gomock.NewController(t))
			if tt.claims != nil || tt.err != nil {
				jwtService.EXPECT().ValidateToken("abc", jwt.AccessToken).Return(tt.claims, tt.err)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(constant.RequestHeaderAuthorization, tt.header)
			}

			if tt.apiKey != "" {
				req.Header.Set(constant.RequestHeaderAPIKey, tt.apiKey)
			}

			rec := httptest.NewRecorder()
			protectedRouter(t, jwtService).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRole, rec.Header().Get("X-Role"))
		})
	}
}
