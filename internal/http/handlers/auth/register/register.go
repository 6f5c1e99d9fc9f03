// Package register реализует страницу и обработку формы регистрации.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/awards-dashboard/internal/lib/dberr"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
	services "github.com/magabrotheeeer/awards-dashboard/internal/services/auth"
	"github.com/magabrotheeeer/awards-dashboard/internal/web"
)

const title = "Register"

// Service регистрирует пользователя.
type Service interface {
	Register(ctx context.Context, in services.RegisterInput) error
}

// Renderer рисует HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, page *web.Page) error
}

// Handler обрабатывает GET и POST /auth/register.
type Handler struct {
	log      *slog.Logger
	svc      Service
	renderer Renderer
}

// New создаёт Handler.
func New(log *slog.Logger, svc Service, renderer Renderer) *Handler {
	return &Handler{
		log:      log,
		svc:      svc,
		renderer: renderer,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
		h.render(w, r, log, http.StatusBadRequest, &web.Page{Title: title, Errors: []string{"Invalid form submission"}})
		return
	}
	in := services.RegisterInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Country:         r.PostFormValue("country"),
		Birthdate:       r.PostFormValue("birthdate"),
		Gender:          r.PostFormValue("gender"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password-confirm"),
	}
	// пароли в форму не возвращаются
	keep := map[string]string{
		"username":  in.Username,
		"email":     in.Email,
		"country":   in.Country,
		"birthdate": in.Birthdate,
		"gender":    in.Gender,
	}

	err := h.svc.Register(r.Context(), in)
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Info("registration rejected", slog.Any("reasons", vErr.Messages))
		h.render(w, r, log, http.StatusOK, &web.Page{Title: title, Errors: vErr.Messages, Form: keep})
		return
	case err != nil:
		log.Error("registration failed", sl.Err(err))
		h.render(w, r, log, http.StatusInternalServerError, &web.Page{Title: title, Errors: []string{dberr.Message(err)}, Form: keep})
		return
	}

	log.Info("user registered", slog.String("username", in.Username))
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, page *web.Page) {
	if err := h.renderer.Render(w, r, status, web.PageRegister, page); err != nil {
		log.Error("failed to render page", sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
