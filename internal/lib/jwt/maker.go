// Package jwt реализует выпуск и разбор подписанных токенов сессии.
//
// Токен кладётся в cookie и содержит имя пользователя и идентификатор
// серверной сессии. Подпись HS256 делает cookie защищённой от подмены.
package jwt

import (
	"time"
)

// MakerImpl выпускает и проверяет токены сессии с секретным ключом
// и временем жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	issuer    string
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		issuer:    "awards-dashboard",
	}
}

