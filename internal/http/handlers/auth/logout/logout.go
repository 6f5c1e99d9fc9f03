// Package logout завершает сессию пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
)

// Sessions уничтожает сессии.
type Sessions interface {
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Handler обрабатывает GET /auth/logout. Повторный выход не считается ошибкой.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
}

// New создаёт Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		h.log.Error("failed to destroy session",
			sl.Op(op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}
