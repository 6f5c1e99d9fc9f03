package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/awards-dashboard/internal/catalog"
	"github.com/magabrotheeeer/awards-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
	services "github.com/magabrotheeeer/awards-dashboard/internal/services/dashboard"
)

// RunQuery обрабатывает POST /run-query с полем query_id.
type RunQuery struct {
	deps
}

// NewRunQuery создаёт RunQuery.
func NewRunQuery(log *slog.Logger, svc Service, users Users, renderer Renderer) *RunQuery {
	return &RunQuery{deps{log: log, svc: svc, users: users, renderer: renderer}}
}

func (h *RunQuery) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.runquery"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		invalidQuery(w, r)
		return
	}
	id := r.PostFormValue(queryIDField)
	username := middlewarectx.Username(r.Context())
	log = log.With(slog.String("query_id", id))

	res, err := h.svc.RunQuery(r.Context(), username, id)
	if errors.Is(err, catalog.ErrUnknownQuery) {
		log.Warn("unknown query id")
		invalidQuery(w, r)
		return
	}
	if err != nil {
		log.Error("query failed", sl.Err(err))
		h.renderDashboard(w, r, log, username, []string{services.ErrorBanner(id, err)}, "")
		return
	}

	log.Info("query executed", slog.Int("rows", len(res.Rows)))
	h.renderResult(w, r, log, username, res)
}
