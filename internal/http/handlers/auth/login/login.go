// Package login реализует страницу и обработку формы входа.
//
// Неверный пароль и несуществующий пользователь дают одно и то же сообщение.
// При успехе выдаётся сессия и браузер уходит на дашборд.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/awards-dashboard/internal/lib/dberr"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/awards-dashboard/internal/models"
	services "github.com/magabrotheeeer/awards-dashboard/internal/services/auth"
	"github.com/magabrotheeeer/awards-dashboard/internal/web"
)

const title = "Log in"

// Service проверяет учётные данные.
type Service interface {
	Login(ctx context.Context, in services.LoginInput) (*models.User, error)
}

// Sessions выдаёт сессии.
type Sessions interface {
	Start(ctx context.Context, w http.ResponseWriter, username string) (*models.Session, error)
}

// Renderer рисует HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, page *web.Page) error
}

// Handler обрабатывает GET и POST /auth/login.
type Handler struct {
	log      *slog.Logger
	svc      Service
	sessions Sessions
	renderer Renderer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, svc Service, sessions Sessions, renderer Renderer) *Handler {
	return &Handler{
		log:      log,
		svc:      svc,
		sessions: sessions,
		renderer: renderer,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.Method != http.MethodPost {
		h.render(w, r, log, http.StatusOK, &web.Page{Title: title})
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.render(w, r, log, http.StatusBadRequest, &web.Page{Title: title, Errors: []string{services.MsgInvalidCredentials}})
		return
	}
	in := services.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	keep := map[string]string{"username": in.Username}

	user, err := h.svc.Login(r.Context(), in)
	if errors.Is(err, services.ErrInvalidCredentials) {
		log.Info("login rejected")
		h.render(w, r, log, http.StatusOK, &web.Page{Title: title, Errors: []string{services.MsgInvalidCredentials}, Form: keep})
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		h.render(w, r, log, http.StatusInternalServerError, &web.Page{Title: title, Errors: []string{dberr.Message(err)}, Form: keep})
		return
	}

	if _, err := h.sessions.Start(r.Context(), w, user.Username); err != nil {
		log.Error("failed to start session", sl.Err(err))
		h.render(w, r, log, http.StatusInternalServerError, &web.Page{Title: title, Errors: []string{"Could not start a session, try again later."}, Form: keep})
		return
	}

	log.Info("login success", slog.String("username", user.Username))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, page *web.Page) {
	if err := h.renderer.Render(w, r, status, web.PageLogin, page); err != nil {
		log.Error("failed to render page", sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
