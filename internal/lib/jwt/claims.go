package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/axmetovrr/elibrary/internal/models"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Username             string `json:"username"`                  // Имя пользователя
	Role                 string `json:"role"`                      // Роль учетной записи
	ActorType            string `json:"actor_type"`                // Тип актора
	UserUID              string `json:"user_uid"`                  // UID пользователя
	InstitutionUID       string `json:"institution_uid,omitempty"` // UID организации
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Actor восстанавливает описание актора из claims токена.
func (c *CustomClaims) Actor() models.Actor {
	return models.Actor{
		UID:            c.UserUID,
		Username:       c.Username,
		Role:           c.Role,
		Type:           c.ActorType,
		InstitutionUID: c.InstitutionUID,
	}
}

// GenerateToken создает JWT токен с данными актора, подписывая его секретным ключом.
//
// Время жизни токена определяется полем tokenTTL.
func (j *MakerImpl) GenerateToken(actor models.Actor) (string, error) {
	claims := CustomClaims{
		Username:       actor.Username,
		Role:           actor.Role,
		ActorType:      actor.Type,
		UserUID:        actor.UID,
		InstitutionUID: actor.InstitutionUID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
