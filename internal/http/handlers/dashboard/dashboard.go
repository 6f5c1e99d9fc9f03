// Package dashboard реализует страницы дашборда: меню отчётов, запуск отчёта
// и запуск запросов с пользовательским вводом.
//
// Все обработчики работают за middlewarectx.RequireSession, имя пользователя
// берётся из сессии в контексте запроса.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awards-dashboard/internal/catalog"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/awards-dashboard/internal/models"
	services "github.com/magabrotheeeer/awards-dashboard/internal/services/dashboard"
	"github.com/magabrotheeeer/awards-dashboard/internal/web"
)

const (
	title = "Dashboard"
	// queryIDField поле формы с идентификатором запроса
	queryIDField = "query_id"
)

// Service исполняет запросы каталога.
type Service interface {
	Catalog() []catalog.Query
	RunQuery(ctx context.Context, username, id string) (*models.Result, error)
	RunInputQuery(ctx context.Context, username, id string, form map[string]string) (*services.Outcome, error)
}

// Users загружает пользователя сессии.
type Users interface {
	User(ctx context.Context, username string) (*models.User, error)
}

// Renderer рисует HTML-страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, page *web.Page) error
}

type deps struct {
	log      *slog.Logger
	svc      Service
	users    Users
	renderer Renderer
}

// page собирает страницу дашборда для пользователя.
func (d deps) page(ctx context.Context, username string) (*web.Page, error) {
	user, err := d.users.User(ctx, username)
	if err != nil {
		return nil, err
	}
	return &web.Page{
		Title:   title,
		User:    user,
		Queries: d.svc.Catalog(),
	}, nil
}

// renderDashboard рисует дашборд с баннером ошибки или успеха.
func (d deps) renderDashboard(w http.ResponseWriter, r *http.Request, log *slog.Logger, username string, errs []string, success string) {
	page, err := d.page(r.Context(), username)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		internalError(w, r)
		return
	}
	page.Errors = errs
	page.Success = success
	d.render(w, r, log, web.PageDashboard, page)
}

// renderResult рисует таблицу результата.
func (d deps) renderResult(w http.ResponseWriter, r *http.Request, log *slog.Logger, username string, res *models.Result) {
	user, err := d.users.User(r.Context(), username)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		internalError(w, r)
		return
	}
	d.render(w, r, log, web.PageDisplay, &web.Page{Title: res.Title, User: user, Result: res})
}

func (d deps) render(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string, page *web.Page) {
	if err := d.renderer.Render(w, r, http.StatusOK, name, page); err != nil {
		log.Error("failed to render page", sl.Err(err))
		internalError(w, r)
	}
}

func invalidQuery(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusBadRequest)
	render.PlainText(w, r, "Invalid query")
}

func internalError(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusInternalServerError)
	render.PlainText(w, r, http.StatusText(http.StatusInternalServerError))
}
