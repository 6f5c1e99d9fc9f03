// Package web рендерит HTML-страницы приложения из встроенных шаблонов.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/magabrotheeeer/awards-dashboard/internal/catalog"
	"github.com/magabrotheeeer/awards-dashboard/internal/models"
)

// Имена страниц.
const (
	PageLogin     = "login"
	PageRegister  = "register"
	PageDashboard = "dashboard"
	PageDisplay   = "display"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page данные страницы. CSRFField заполняется при рендере.
type Page struct {
	Title     string
	User      *models.User
	Queries   []catalog.Query
	Errors    []string
	Success   string
	Result    *models.Result
	Form      map[string]string
	CSRFField template.HTML
}

// Renderer держит разобранные шаблоны страниц.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer разбирает все страницы вместе с общим layout.
func NewRenderer() (*Renderer, error) {
	const op = "web.NewRenderer"
	funcs := template.FuncMap{
		"cell":       FormatCell,
		"formatDate": func(t time.Time) string { return t.Format(time.DateOnly) },
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{PageLogin, PageRegister, PageDashboard, PageDisplay} {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		pages[name] = tpl
	}
	return &Renderer{pages: pages}, nil
}

// Render отрисовывает страницу name со статусом status.
// Страница сначала собирается в буфер, чтобы ошибка шаблона не оставила полуответ.
func (rr *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page *Page) error {
	const op = "web.Render"
	tpl, ok := rr.pages[name]
	if !ok {
		return fmt.Errorf("%s: unknown page %q", op, name)
	}
	if page == nil {
		page = &Page{}
	}
	if page.Form == nil {
		page.Form = map[string]string{}
	}
	page.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// FormatCell приводит значение из базы к строке для таблицы.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.DateTime)
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
