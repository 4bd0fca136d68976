// Package jwt реализует выпуск и парсинг JWT токенов доступа и обновления,
// привязанных к паре (uid, email) аккаунта.
//
// Maker определяет интерфейс выпуска и проверки токенов.
// MakerImpl — реализация на секретном ключе HS256 с раздельными TTL
// для access и refresh токенов.
package jwt

import (
	"time"
)

// Maker описывает интерфейс выпуска и парсинга JWT токенов.
type Maker interface {
	// AccessToken выпускает короткоживущий токен доступа.
	AccessToken(userUID, email string) (string, error)
	// RefreshToken выпускает долгоживущий токен обновления.
	// Его идентификатор кладется в хранилище сессий как отметка живой сессии.
	RefreshToken(userUID, email string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен корректен.
	ParseToken(tokenStr string) (*CustomClaims, error)
	// RefreshLifetime возвращает TTL refresh токена.
	RefreshLifetime() time.Duration
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токенов.
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов
	accessTTL  time.Duration // Время жизни access токена
	refreshTTL time.Duration // Время жизни refresh токена
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
func NewJWTMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RefreshLifetime возвращает TTL refresh токена. Используется как TTL
// ключа сессии в хранилище.
func (j *MakerImpl) RefreshLifetime() time.Duration {
	return j.refreshTTL
}
