package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"vcardops/infras/otel/mocks"
	authMocks "vcardops/internal/domains/auth/mocks"
	"vcardops/internal/domains/auth/model/dto"
	"vcardops/internal/handlers/auth"
	"vcardops/shared/constant"
	"vcardops/shared/failure"
)

func newRouter(t *testing.T) (chi.Router, *authMocks.MockAuth) {
	t.Helper()

	svc := authMocks.NewMockAuth(gomock.NewController(t))
	router := chi.NewRouter()

	handler := auth.New(svc, mocks.NewOtel())
	handler.Router(router)

	return router, svc
}

func serve(router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Login(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(svc *authMocks.MockAuth)
		wantCode int
		wantBody string
	}{
		{
			name: "success wraps tokens in data",
			body: `{"email":"finance@example.com","password":"correct-horse"}`,
			setup: func(svc *authMocks.MockAuth) {
				svc.EXPECT().Login(gomock.Any(), dto.LoginRequest{Email: "finance@example.com", Password: "correct-horse"}).
					Return(dto.TokenResponse{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 900}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"data":{"access_token":"a","refresh_token":"r","token_type":"Bearer","expires_in":900}}`,
		},
		{
			name: "bad credentials",
			body: `{"email":"finance@example.com","password":"nope"}`,
			setup: func(svc *authMocks.MockAuth) {
				svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.TokenResponse{}, failure.Unauthorized("invalid email or password"))
			},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"status":"error","message":"invalid email or password"}`,
		},
		{
			name:     "invalid email",
			body:     `{"email":"not-an-email","password":"x"}`,
			setup:    func(*authMocks.MockAuth) {},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.setup(svc)

			rec := serve(router, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_ChangePassword(t *testing.T) {
	body := `{"current_password":"old-password","new_password":"new-password"}`

	t.Run("uses the authenticated user", func(t *testing.T) {
		router, svc := newRouter(t)
		svc.EXPECT().ChangePassword(gomock.Any(), gomock.Any(), "user-1").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/change-password", strings.NewReader(body))
		req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, "user-1"))

		rec := serve(router, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success","message":"Password changed successfully"}`, rec.Body.String())
	})

	t.Run("anonymous caller", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := serve(router, httptest.NewRequest(http.MethodPost, "/auth/change-password", strings.NewReader(body)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("new password must differ", func(t *testing.T) {
		router, _ := newRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/change-password",
			strings.NewReader(`{"current_password":"same-password","new_password":"same-password"}`))
		req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, "user-1"))

		rec := serve(router, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Register(t *testing.T) {
	router, svc := newRouter(t)
	svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(failure.Conflict("email already registered"))

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"clerk@example.com","password":"long-enough","role":"finance"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}
