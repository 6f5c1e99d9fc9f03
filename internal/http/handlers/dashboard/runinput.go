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

// RunInput обрабатывает POST /run-query-with-input: вставку номинации и выборки по полям формы.
type RunInput struct {
	deps
}

// NewRunInput создаёт RunInput.
func NewRunInput(log *slog.Logger, svc Service, users Users, renderer Renderer) *RunInput {
	return &RunInput{deps{log: log, svc: svc, users: users, renderer: renderer}}
}

func (h *RunInput) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.runinput"

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

	form := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		form[key] = r.PostForm.Get(key)
	}

	out, err := h.svc.RunInputQuery(r.Context(), username, id, form)
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

	if out.Result == nil {
		log.Info("statement executed")
		h.renderDashboard(w, r, log, username, nil, out.Success)
		return
	}
	log.Info("query executed", slog.Int("rows", len(out.Result.Rows)))
	h.renderResult(w, r, log, username, out.Result)
}
