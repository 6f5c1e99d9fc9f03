// Package session управляет сессиями пользователей.
//
// Браузер получает cookie с подписанным JWT, в котором лежат имя пользователя
// и идентификатор сессии. Сама сессия хранится в redis под ключом session:<id>,
// поэтому logout отзывает её сразу, не дожидаясь истечения токена.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/awards-dashboard/internal/config"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/awards-dashboard/internal/models"
)

// ErrNoSession означает, что у запроса нет действующей сессии.
var ErrNoSession = errors.New("no active session")

const keyPrefix = "session:"

// Store хранилище серверных сессий.
type Store interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// TokenMaker выпускает и проверяет токены, которые кладутся в cookie.
type TokenMaker interface {
	GenerateToken(username, sessionID string) (string, error)
	ParseToken(tokenStr string) (*jwt.SessionClaims, error)
}

// Manager выдаёт, находит и уничтожает сессии.
type Manager struct {
	store      Store
	tokens     TokenMaker
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewManager создаёт Manager.
func NewManager(store Store, tokens TokenMaker, cfg config.Session) *Manager {
	return &Manager{
		store:      store,
		tokens:     tokens,
		ttl:        cfg.SessionTTL,
		cookieName: cfg.CookieName,
		secure:     cfg.CookieSecure,
	}
}

func storeKey(id string) string {
	return keyPrefix + id
}

// Start создаёт сессию для username и выставляет cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, username string) (*models.Session, error) {
	const op = "session.Start"

	sess := &models.Session{
		ID:        uuid.NewString(),
		Username:  username,
		ExpiresAt: time.Now().Add(m.ttl).UTC(),
	}
	if err := m.store.Set(ctx, storeKey(sess.ID), sess, m.ttl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	token, err := m.tokens.GenerateToken(username, sess.ID)
	if err != nil {
		_ = m.store.Invalidate(ctx, storeKey(sess.ID))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	http.SetCookie(w, m.cookie(token, sess.ExpiresAt, int(m.ttl.Seconds())))
	return sess, nil
}

// Resolve находит сессию по cookie запроса.
// Отсутствующая, поддельная, истёкшая или отозванная сессия даёт ErrNoSession.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*models.Session, error) {
	const op = "session.Resolve"

	claims, err := m.claims(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var sess models.Session
	found, err := m.store.Get(ctx, storeKey(claims.SessionID()), &sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found || sess.Username != claims.Username || time.Now().After(sess.ExpiresAt) {
		return nil, fmt.Errorf("%s: %w", op, ErrNoSession)
	}
	return &sess, nil
}

// Destroy отзывает сессию, если она есть, и всегда стирает cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	const op = "session.Destroy"

	http.SetCookie(w, m.cookie("", time.Unix(0, 0), -1))

	claims, err := m.claims(r)
	if err != nil {
		return nil
	}
	if err := m.store.Invalidate(ctx, storeKey(claims.SessionID())); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m *Manager) claims(r *http.Request) (*jwt.SessionClaims, error) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	claims, err := m.tokens.ParseToken(c.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSession, err)
	}
	return claims, nil
}

func (m *Manager) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
