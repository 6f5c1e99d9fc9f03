// Package middlewarectx содержит HTTP middleware, которые кладут сессию в контекст запроса
// и закрывают страницы от анонимных пользователей.
//
// LoadSession разбирает cookie и, если сессия действующая, добавляет её в контекст.
// RequireSession пропускает дальше только запросы с сессией, остальных отправляет на логин.
// RedirectIfAuthenticated делает обратное для страниц входа и регистрации.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/awards-dashboard/internal/models"
	"github.com/magabrotheeeer/awards-dashboard/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey ключ сессии в контексте
const SessionKey Key = "session"

const (
	// LoginPath страница входа
	LoginPath = "/auth/login"
	// DashboardPath главная страница авторизованного пользователя
	DashboardPath = "/dashboard"
)

// SessionResolver находит сессию по запросу.
type SessionResolver interface {
	Resolve(ctx context.Context, r *http.Request) (*models.Session, error)
}

// WithSession возвращает контекст с сессией.
func WithSession(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

// SessionFromContext достаёт сессию из контекста.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*models.Session)
	return sess, ok && sess != nil
}

// Username возвращает имя пользователя текущей сессии или пустую строку.
func Username(ctx context.Context) string {
	if sess, ok := SessionFromContext(ctx); ok {
		return sess.Username
	}
	return ""
}

// LoadSession кладёт действующую сессию в контекст. Запрос без сессии идёт дальше как анонимный.
func LoadSession(resolver SessionResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.LoadSession"

			sess, err := resolver.Resolve(r.Context(), r)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					log.Error("failed to resolve session",
						sl.Op(op),
						slog.String("request_id", middleware.GetReqID(r.Context())),
						sl.Err(err),
					)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireSession отправляет анонимные запросы на страницу входа.
func RequireSession(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFromContext(r.Context()); !ok {
				log.Debug("no session, redirecting to login",
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectIfAuthenticated отправляет пользователей с сессией на дашборд.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); ok {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
