// Package jwt реализует выпуск и парсинг JWT токенов с пользовательскими claim полями.
//
// CustomClaims расширяет стандартные claims JWT, добавляя uid и email аккаунта
// и тип токена (access или refresh).
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Типы выпускаемых токенов.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"user_uid"`   // Идентификатор аккаунта
	Email                string `json:"email"`      // Электронная почта аккаунта
	TokenType            string `json:"token_type"` // access или refresh
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// AccessToken создаёт access токен с uid и email, подписывая его секретным ключом.
func (j *MakerImpl) AccessToken(userUID, email string) (string, error) {
	return j.generate(userUID, email, TokenAccess, j.accessTTL)
}

// RefreshToken создаёт refresh токен. Claim ID уникален для каждого выпуска,
// его значение сохраняется как отметка живой сессии.
func (j *MakerImpl) RefreshToken(userUID, email string) (string, error) {
	return j.generate(userUID, email, TokenRefresh, j.refreshTTL)
}

func (j *MakerImpl) generate(userUID, email, tokenType string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserUID:   userUID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и срок действия,
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
