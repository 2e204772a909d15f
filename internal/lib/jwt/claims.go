// Package jwt реализует генерацию и парсинг JWT токенов владельцев залов.
//
// Maker определяет интерфейс для создания и проверки токенов, несущих
// идентификатор зала и роль. MakerImpl — конкретная реализация на
// секретном ключе с ограниченным сроком жизни токена.
package jwt

import (
	"time"
)

// Роли, которые может нести токен.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создаёт токен с идентификатором зала и ролью.
	GenerateToken(gymID, role string) (string, error)
	// ParseToken возвращает *CustomClaims, если токен корректен.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
