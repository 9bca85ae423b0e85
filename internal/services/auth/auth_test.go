package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/axmetovrr/elibrary/internal/apperr"
	"github.com/axmetovrr/elibrary/internal/lib/jwt"
	"github.com/axmetovrr/elibrary/internal/lib/password"
	"github.com/axmetovrr/elibrary/internal/models"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type InstitutionRepoMock struct{ mock.Mock }

func (m *InstitutionRepoMock) GetInstitution(ctx context.Context, uid string) (*models.Institution, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Institution), args.Error(1)
}

type TokenStoreMock struct{ mock.Mock }

func (m *TokenStoreMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *TokenStoreMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *TokenStoreMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newService(users *UserRepoMock, insts *InstitutionRepoMock, tokens *TokenStoreMock) *AuthService {
	maker := jwt.NewJWTMaker("test-secret-key", 15*time.Minute)
	return NewAuthService(users, insts, tokens, maker, 720*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	instUID := "660e8400-e29b-41d4-a716-446655440111"

	tests := []struct {
		name       string
		req        models.DummyRegister
		setupMocks func(u *UserRepoMock, i *InstitutionRepoMock)
		wantUID    string
		wantKind   apperr.Kind
	}{
		{
			name: "individual registered with default role",
			req: models.DummyRegister{
				Email: "reader@example.com", Username: "reader",
				Password: "secret123", ActorType: models.ActorIndividual,
			},
			setupMocks: func(u *UserRepoMock, _ *InstitutionRepoMock) {
				u.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Role == models.RoleUser &&
						user.ActorType == models.ActorIndividual &&
						user.InstitutionUID == nil &&
						user.PasswordHash != "secret123"
				})).Return("new-uid", nil).Once()
			},
			wantUID: "new-uid",
		},
		{
			name: "student linked to existing institution",
			req: models.DummyRegister{
				Email: "student@example.com", Username: "student1",
				Password: "secret123", ActorType: models.ActorStudent,
				InstitutionUID: instUID,
			},
			setupMocks: func(u *UserRepoMock, i *InstitutionRepoMock) {
				i.On("GetInstitution", mock.Anything, instUID).
					Return(&models.Institution{UID: instUID}, nil).Once()
				u.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.InstitutionUID != nil && *user.InstitutionUID == instUID
				})).Return("student-uid", nil).Once()
			},
			wantUID: "student-uid",
		},
		{
			name: "student without institution rejected",
			req: models.DummyRegister{
				Email: "student@example.com", Username: "student1",
				Password: "secret123", ActorType: models.ActorStudent,
			},
			setupMocks: func(_ *UserRepoMock, _ *InstitutionRepoMock) {},
			wantKind:   apperr.KindValidation,
		},
		{
			name: "student with unknown institution rejected",
			req: models.DummyRegister{
				Email: "student@example.com", Username: "student1",
				Password: "secret123", ActorType: models.ActorStudent,
				InstitutionUID: instUID,
			},
			setupMocks: func(_ *UserRepoMock, i *InstitutionRepoMock) {
				i.On("GetInstitution", mock.Anything, instUID).
					Return(nil, errors.New("not found")).Once()
			},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			insts := new(InstitutionRepoMock)
			tokens := new(TokenStoreMock)
			svc := newService(users, insts, tokens)

			tt.setupMocks(users, insts)

			uid, err := svc.Register(context.Background(), tt.req)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUID, uid)
			}

			users.AssertExpectations(t)
			insts.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	user := &models.User{
		UID:          "550e8400-e29b-41d4-a716-446655440000",
		Username:     "reader",
		PasswordHash: hash,
		Role:         models.RoleUser,
		ActorType:    models.ActorIndividual,
	}

	t.Run("success issues both tokens", func(t *testing.T) {
		users := new(UserRepoMock)
		tokens := new(TokenStoreMock)
		svc := newService(users, new(InstitutionRepoMock), tokens)

		users.On("GetUserByUsername", mock.Anything, "reader").Return(user, nil).Once()
		tokens.On("Set", mock.MatchedBy(func(key string) bool {
			return len(key) > len("refresh:") && key[:len("refresh:")] == "refresh:"
		}), mock.Anything, 720*time.Hour).Return(nil).Once()

		token, refresh, actor, err := svc.Login(context.Background(), "reader", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.UID, actor.UID)

		tokens.AssertExpectations(t)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		users := new(UserRepoMock)
		svc := newService(users, new(InstitutionRepoMock), new(TokenStoreMock))

		users.On("GetUserByUsername", mock.Anything, "reader").Return(user, nil).Once()

		_, _, _, err := svc.Login(context.Background(), "reader", "wrongpass")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})

	t.Run("unknown user rejected with same kind", func(t *testing.T) {
		users := new(UserRepoMock)
		svc := newService(users, new(InstitutionRepoMock), new(TokenStoreMock))

		users.On("GetUserByUsername", mock.Anything, "ghost").
			Return(nil, errors.New("not found")).Once()

		_, _, _, err := svc.Login(context.Background(), "ghost", "secret123")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})
}

func TestAuthService_Refresh(t *testing.T) {
	user := &models.User{
		UID:       "550e8400-e29b-41d4-a716-446655440000",
		Username:  "reader",
		Role:      models.RoleUser,
		ActorType: models.ActorIndividual,
	}

	t.Run("valid refresh rotates the token", func(t *testing.T) {
		users := new(UserRepoMock)
		tokens := new(TokenStoreMock)
		svc := newService(users, new(InstitutionRepoMock), tokens)

		tokens.On("Get", "refresh:old-token", mock.Anything).
			Return(true, nil).
			Run(func(args mock.Arguments) {
				data := args.Get(1).(*refreshData)
				data.UserUID = user.UID
			}).Once()
		users.On("GetUser", mock.Anything, user.UID).Return(user, nil).Once()
		tokens.On("Invalidate", "refresh:old-token").Return(nil).Once()
		tokens.On("Set", mock.Anything, mock.Anything, 720*time.Hour).Return(nil).Once()

		token, newRefresh, actor, err := svc.Refresh(context.Background(), "old-token")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, newRefresh)
		assert.NotEqual(t, "old-token", newRefresh)
		assert.Equal(t, "reader", actor.Username)

		tokens.AssertExpectations(t)
	})

	t.Run("unknown refresh token rejected", func(t *testing.T) {
		tokens := new(TokenStoreMock)
		svc := newService(new(UserRepoMock), new(InstitutionRepoMock), tokens)

		tokens.On("Get", "refresh:missing", mock.Anything).Return(false, nil).Once()

		_, _, _, err := svc.Refresh(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	users := new(UserRepoMock)
	svc := newService(users, new(InstitutionRepoMock), new(TokenStoreMock))

	t.Run("valid token restores the actor", func(t *testing.T) {
		maker := jwt.NewJWTMaker("test-secret-key", 15*time.Minute)
		actor := models.Actor{
			UID: "550e8400-e29b-41d4-a716-446655440000", Username: "reader",
			Role: models.RoleUser, Type: models.ActorIndividual,
		}
		token, err := maker.GenerateToken(actor)
		require.NoError(t, err)

		got, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, actor, got)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateToken(context.Background(), "not-a-token")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expiredMaker := jwt.NewJWTMaker("test-secret-key", -time.Minute)
		token, err := expiredMaker.GenerateToken(models.Actor{
			UID: "uid", Username: "reader", Role: models.RoleUser,
			Type: models.ActorIndividual,
		})
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token)
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})
}
