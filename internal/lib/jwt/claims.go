package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken возвращается для любого токена, которому нельзя доверять.
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims описывает данные, хранящиеся в токене сессии.
// Идентификатор сессии лежит в стандартном поле jti (RegisteredClaims.ID).
type SessionClaims struct {
	Username             string `json:"username"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt, ID и пр.
}

// SessionID возвращает идентификатор серверной сессии.
func (c *SessionClaims) SessionID() string {
	return c.ID
}

// GenerateToken создает токен для username и sessionID, подписывая его секретным ключом.
func (j *MakerImpl) GenerateToken(username, sessionID string) (string, error) {
	const op = "jwt.GenerateToken"
	now := time.Now()
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    j.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит токен, проверяет алгоритм, подпись, издателя и срок жизни.
func (j *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Username == "" || claims.ID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}
