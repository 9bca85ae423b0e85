// Package services содержит логику бизнес-уровня для работы с учетными
// записями и аутентификацией: регистрацию, вход, обновление и отзыв токенов.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/axmetovrr/elibrary/internal/apperr"
	"github.com/axmetovrr/elibrary/internal/lib/jwt"
	"github.com/axmetovrr/elibrary/internal/lib/password"
	"github.com/axmetovrr/elibrary/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// InstitutionRepository описывает доступ к организациям при регистрации студентов.
type InstitutionRepository interface {
	GetInstitution(ctx context.Context, uid string) (*models.Institution, error)
}

// TokenStore описывает хранилище refresh-токенов с TTL.
type TokenStore interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

const refreshKeyPrefix = "refresh:"

type refreshData struct {
	UserUID string `json:"user_uid"`
}

// AuthService отвечает за регистрацию, авторизацию и работу с токенами.
type AuthService struct {
	users        UserRepository
	institutions InstitutionRepository
	tokens       TokenStore
	jwtMaker     jwt.Maker
	refreshTTL   time.Duration
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, institutions InstitutionRepository,
	tokens TokenStore, jwtMaker jwt.Maker, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:        users,
		institutions: institutions,
		tokens:       tokens,
		jwtMaker:     jwtMaker,
		refreshTTL:   refreshTTL,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
// Студент обязан указать существующую организацию.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}

	var institutionUID *string
	if req.ActorType == models.ActorStudent {
		if req.InstitutionUID == "" {
			return "", apperr.New(apperr.KindValidation, "institution_uid is required for students")
		}
		if _, err := s.institutions.GetInstitution(ctx, req.InstitutionUID); err != nil {
			return "", apperr.Wrap(apperr.KindValidation, "unknown institution", err)
		}
		institutionUID = &req.InstitutionUID
	}

	user := models.User{
		Email:          req.Email,
		Username:       req.Username,
		PasswordHash:   hashed,
		Role:           models.RoleUser, // дефолтная роль при регистрации
		ActorType:      req.ActorType,
		InstitutionUID: institutionUID,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и выдает пару токенов:
// короткоживущий access (JWT) и долгоживущий refresh (opaque, в Redis).
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, refresh string, actor models.Actor, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", models.Actor{}, apperr.Wrap(apperr.KindUnauthenticated, "invalid credentials", err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", models.Actor{}, apperr.New(apperr.KindUnauthenticated, "invalid credentials")
	}

	actor = actorFromUser(user)
	token, err = s.jwtMaker.GenerateToken(actor)
	if err != nil {
		return "", "", models.Actor{}, err
	}
	refresh, err = s.issueRefreshToken(user.UID)
	if err != nil {
		return "", "", models.Actor{}, err
	}
	return token, refresh, actor, nil
}

// Refresh обменивает валидный refresh-токен на новую пару токенов.
// Обмен явный: истекший access-токен сам по себе не продлевается.
// Старый refresh-токен отзывается (ротация).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, models.Actor, error) {
	var data refreshData
	found, err := s.tokens.Get(refreshKeyPrefix+refreshToken, &data)
	if err != nil {
		return "", "", models.Actor{}, err
	}
	if !found {
		return "", "", models.Actor{}, apperr.New(apperr.KindUnauthenticated, "invalid or expired refresh token")
	}

	user, err := s.users.GetUser(ctx, data.UserUID)
	if err != nil {
		return "", "", models.Actor{}, apperr.Wrap(apperr.KindUnauthenticated, "invalid or expired refresh token", err)
	}

	if err := s.tokens.Invalidate(refreshKeyPrefix + refreshToken); err != nil {
		return "", "", models.Actor{}, err
	}

	actor := actorFromUser(user)
	token, err := s.jwtMaker.GenerateToken(actor)
	if err != nil {
		return "", "", models.Actor{}, err
	}
	newRefresh, err := s.issueRefreshToken(user.UID)
	if err != nil {
		return "", "", models.Actor{}, err
	}
	return token, newRefresh, actor, nil
}

// Logout отзывает refresh-токен. Access-токен просто истекает по TTL.
func (s *AuthService) Logout(_ context.Context, refreshToken string) error {
	return s.tokens.Invalidate(refreshKeyPrefix + refreshToken)
}

// ValidateToken проверяет JWT и возвращает описание актора.
func (s *AuthService) ValidateToken(_ context.Context, token string) (models.Actor, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Actor{}, apperr.Wrap(apperr.KindUnauthenticated, "invalid or expired token", err)
	}
	return claims.Actor(), nil
}

func (s *AuthService) issueRefreshToken(userUID string) (string, error) {
	refresh := uuid.NewString()
	if err := s.tokens.Set(refreshKeyPrefix+refresh, refreshData{UserUID: userUID}, s.refreshTTL); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return refresh, nil
}

func actorFromUser(user *models.User) models.Actor {
	actor := models.Actor{
		UID:      user.UID,
		Username: user.Username,
		Role:     user.Role,
		Type:     user.ActorType,
	}
	if user.InstitutionUID != nil {
		actor.InstitutionUID = *user.InstitutionUID
	}
	return actor
}
