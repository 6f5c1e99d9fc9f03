package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/awards-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/awards-dashboard/internal/storage"
	"github.com/magabrotheeeer/awards-dashboard/internal/web"
)

// View обрабатывает GET /dashboard.
type View struct {
	deps
}

// NewView создаёт View.
func NewView(log *slog.Logger, svc Service, users Users, renderer Renderer) *View {
	return &View{deps{log: log, svc: svc, users: users, renderer: renderer}}
}

func (h *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.view"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := middlewarectx.Username(r.Context())
	page, err := h.page(r.Context(), username)
	if errors.Is(err, storage.ErrUserNotFound) {
		// сессия пережила пользователя
		log.Warn("session user not found", slog.String("username", username))
		http.Redirect(w, r, "/auth/logout", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		internalError(w, r)
		return
	}
	h.render(w, r, log, web.PageDashboard, page)
}
