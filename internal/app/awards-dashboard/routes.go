// Package awardsdashboard собирает HTTP-приложение дашборда наград.
package awardsdashboard

import (
	"crypto/sha256"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/awards-dashboard/internal/config"
	"github.com/magabrotheeeer/awards-dashboard/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/awards-dashboard/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/awards-dashboard/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/awards-dashboard/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/awards-dashboard/internal/http/handlers/health"
	"github.com/magabrotheeeer/awards-dashboard/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/awards-dashboard/internal/services/auth"
	dashboardservice "github.com/magabrotheeeer/awards-dashboard/internal/services/dashboard"
	"github.com/magabrotheeeer/awards-dashboard/internal/session"
	"github.com/magabrotheeeer/awards-dashboard/internal/web"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	authService *authservice.AuthService,
	dashboardService *dashboardservice.DashboardService,
	sessions *session.Manager,
	renderer *web.Renderer,
	checks map[string]health.Pinger,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	// Служебные конечные точки без CSRF и сессии
	r.Get("/healthz", health.New(logger, checks).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if !cfg.CookieSecure {
			r.Use(plaintextRequests)
		}
		r.Use(csrfProtect(cfg))
		r.Use(middlewarectx.LoadSession(sessions, logger))

		r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, middlewarectx.LoginPath, http.StatusSeeOther)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RedirectIfAuthenticated)
				registerHandler := register.New(logger, authService, renderer)
				r.Get("/register", registerHandler.ServeHTTP)
				r.Post("/register", registerHandler.ServeHTTP)

				loginHandler := login.New(logger, authService, sessions, renderer)
				r.Group(func(r chi.Router) {
					r.Use(middlewarectx.RateLimitMiddleware(middlewarectx.NewLimiter(cfg.LoginRateLimit), logger))
					r.Get("/login", loginHandler.ServeHTTP)
					r.Post("/login", loginHandler.ServeHTTP)
				})
			})
			r.Get("/logout", logout.New(logger, sessions).ServeHTTP)
		})

		// Группа, доступная только с активной сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireSession(logger))
			r.Get(middlewarectx.DashboardPath, dashboard.NewView(logger, dashboardService, authService, renderer).ServeHTTP)
			r.Post("/run-query", dashboard.NewRunQuery(logger, dashboardService, authService, renderer).ServeHTTP)
			r.Post("/run-query-with-input", dashboard.NewRunInput(logger, dashboardService, authService, renderer).ServeHTTP)
		})
	})
}

// csrfProtect проверяет токен формы на всех изменяющих запросах.
func csrfProtect(cfg *config.Config) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte(cfg.SecretKey))
	return csrf.Protect(
		key[:],
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
		})),
	)
}

// plaintextRequests помечает запросы как пришедшие по HTTP, иначе csrf требует Referer с https.
func plaintextRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
