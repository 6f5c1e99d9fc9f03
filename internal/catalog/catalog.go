// Package catalog содержит фиксированный набор запросов дашборда.
//
// Каждый запрос описан данными: идентификатор, заголовок, текст SQL,
// функция привязки параметров и необязательная постобработка результата.
// Пользовательский ввод попадает в SQL только через плейсхолдеры $n.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/magabrotheeeer/awards-dashboard/internal/models"
)

// ErrUnknownQuery идентификатора нет в каталоге.
var ErrUnknownQuery = errors.New("invalid query")

// MissingInputError обязательное поле формы не заполнено.
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return "Missing input: " + e.Field
}

// Kind определяет, как исполняется запрос.
type Kind int

const (
	// KindReport отчёт без пользовательского ввода.
	KindReport Kind = iota
	// KindLookup выборка по значениям из формы.
	KindLookup
	// KindInsert вставка одной строки.
	KindInsert
)

// Params всё, что может понадобиться для привязки аргументов.
type Params struct {
	Username string            // пользователь текущей сессии
	Form     map[string]string // поля формы
}

// Binder возвращает аргументы для плейсхолдеров запроса.
type Binder func(p Params) ([]any, error)

// Query описывает один запрос каталога.
type Query struct {
	ID        string
	Title     string
	Kind      Kind
	Statement string
	// Fields обязательные поля формы в порядке проверки.
	Fields []string
	Bind   Binder
	// Heading строит заголовок таблицы результата, по умолчанию Title.
	Heading func(p Params) string
	// Post обрабатывает результат после выборки.
	Post func(res *models.Result)
	// Success сообщение после успешной вставки.
	Success string
}

// Args проверяет обязательные поля и возвращает аргументы запроса.
func (q Query) Args(p Params) ([]any, error) {
	for _, field := range q.Fields {
		if p.Form[field] == "" {
			return nil, &MissingInputError{Field: field}
		}
	}
	if q.Bind == nil {
		return nil, nil
	}
	return q.Bind(p)
}

// HeadingFor возвращает заголовок таблицы для конкретного вызова.
func (q Query) HeadingFor(p Params) string {
	if q.Heading != nil {
		return q.Heading(p)
	}
	return q.Title
}

var (
	reports = index(reportQueries)
	inputs  = index(inputQueries)
)

func index(queries []Query) map[string]Query {
	m := make(map[string]Query, len(queries))
	for _, q := range queries {
		if _, dup := m[q.ID]; dup {
			panic(fmt.Sprintf("catalog: duplicate query id %q", q.ID))
		}
		m[q.ID] = q
	}
	return m
}

// Report возвращает отчёт по идентификатору.
func Report(id string) (Query, error) {
	q, ok := reports[id]
	if !ok {
		return Query{}, fmt.Errorf("catalog.Report %q: %w", id, ErrUnknownQuery)
	}
	return q, nil
}

// Input возвращает запрос с пользовательским вводом по идентификатору.
func Input(id string) (Query, error) {
	q, ok := inputs[id]
	if !ok {
		return Query{}, fmt.Errorf("catalog.Input %q: %w", id, ErrUnknownQuery)
	}
	return q, nil
}

// Reports возвращает отчёты, отсортированные по числовому идентификатору.
func Reports() []Query {
	out := make([]Query, 0, len(reports))
	for _, q := range reports {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i].ID)
		b, errB := strconv.Atoi(out[j].ID)
		if errA != nil || errB != nil {
			return out[i].ID < out[j].ID
		}
		return a < b
	})
	return out
}

// DedupFirstBy оставляет первую строку для каждого значения колонки col.
// Порядок строк задаёт ORDER BY запроса.
func DedupFirstBy(col int) func(res *models.Result) {
	return func(res *models.Result) {
		if res == nil {
			return
		}
		seen := make(map[string]struct{}, len(res.Rows))
		kept := res.Rows[:0]
		for _, row := range res.Rows {
			if col >= len(row) {
				kept = append(kept, row)
				continue
			}
			key := fmt.Sprint(row[col])
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			kept = append(kept, row)
		}
		res.Rows = kept
	}
}
