package middlewarectx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/axmetovrr/elibrary/internal/apperr"
	"github.com/axmetovrr/elibrary/internal/models"
)

type AuthServiceMock struct{ mock.Mock }

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (models.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Actor), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	actor := models.Actor{UID: "550e8400-e29b-41d4-a716-446655440000",
		Username: "reader", Role: models.RoleUser, Type: models.ActorIndividual}

	tests := []struct {
		name       string
		setupReq   func(r *http.Request)
		setupMocks func(s *AuthServiceMock)
		wantStatus int
		wantActor  bool
	}{
		{
			name:       "missing token returns 401",
			setupReq:   func(_ *http.Request) {},
			setupMocks: func(_ *AuthServiceMock) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "valid cookie passes actor to next handler",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "good-token"})
			},
			setupMocks: func(s *AuthServiceMock) {
				s.On("ValidateToken", mock.Anything, "good-token").Return(actor, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantActor:  true,
		},
		{
			name: "bearer header works without cookie",
			setupReq: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer header-token")
			},
			setupMocks: func(s *AuthServiceMock) {
				s.On("ValidateToken", mock.Anything, "header-token").Return(actor, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantActor:  true,
		},
		{
			name: "cookie takes priority over header",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
				r.Header.Set("Authorization", "Bearer header-token")
			},
			setupMocks: func(s *AuthServiceMock) {
				s.On("ValidateToken", mock.Anything, "cookie-token").Return(actor, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantActor:  true,
		},
		{
			name: "expired token rejected even with refresh cookie present",
			setupReq: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "expired-token"})
				r.AddCookie(&http.Cookie{Name: "refresh_token", Value: "still-valid-refresh"})
			},
			setupMocks: func(s *AuthServiceMock) {
				s.On("ValidateToken", mock.Anything, "expired-token").
					Return(models.Actor{}, apperr.New(apperr.KindUnauthenticated, "invalid or expired token")).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMocks(svc)

			var gotActor models.Actor
			var nextCalled bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotActor, _ = ActorFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := JWTMiddleware(svc, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil)
			tt.setupReq(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantActor {
				require.True(t, nextCalled)
				assert.Equal(t, actor, gotActor)
			} else {
				assert.False(t, nextCalled)
			}

			svc.AssertExpectations(t)
		})
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		ctx        func() context.Context
		wantStatus int
	}{
		{
			name:       "no actor returns 401",
			ctx:        context.Background,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "non-admin returns 403",
			ctx: func() context.Context {
				return context.WithValue(context.Background(), ActorKey,
					models.Actor{UID: "uid", Role: models.RoleUser, Type: models.ActorIndividual})
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "admin passes through",
			ctx: func() context.Context {
				return context.WithValue(context.Background(), ActorKey,
					models.Actor{UID: "uid", Role: models.RoleAdmin, Type: models.ActorIndividual})
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := AdminOnlyMiddleware(newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodPost, "/admin/resources", nil).
				WithContext(tt.ctx())
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
