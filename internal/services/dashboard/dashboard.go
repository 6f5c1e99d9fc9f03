// Package services исполняет запросы каталога от имени пользователя дашборда.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/awards-dashboard/internal/catalog"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/dberr"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/awards-dashboard/internal/metrics"
	"github.com/magabrotheeeer/awards-dashboard/internal/models"
)

// insertErrorPrefix предваряет любую ошибку вставки номинации.
const insertErrorPrefix = "Error inserting nomination: "

// Repository исполняет SQL каталога.
type Repository interface {
	// Query выполняет выборку в read-only транзакции.
	Query(ctx context.Context, statement string, args ...any) (*models.Result, error)
	// Exec выполняет изменяющий запрос в транзакции, откатывая её при ошибке.
	Exec(ctx context.Context, statement string, args ...any) (int64, error)
}

// EventPublisher отправляет доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Outcome итог запроса с вводом: таблица для выборок или сообщение для вставки.
type Outcome struct {
	Result  *models.Result
	Success string
}

// DashboardService диспетчеризует запросы каталога.
type DashboardService struct {
	repo   Repository
	events EventPublisher
	log    *slog.Logger
}

// NewDashboardService создает новый экземпляр DashboardService.
func NewDashboardService(repo Repository, events EventPublisher, log *slog.Logger) *DashboardService {
	return &DashboardService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// Catalog возвращает отчёты для меню дашборда.
func (s *DashboardService) Catalog() []catalog.Query {
	return catalog.Reports()
}

// RunQuery выполняет отчёт id. Неизвестный id даёт catalog.ErrUnknownQuery без обращения к базе.
func (s *DashboardService) RunQuery(ctx context.Context, username, id string) (*models.Result, error) {
	const op = "services.RunQuery"

	q, err := catalog.Report(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p := catalog.Params{Username: username}
	args, err := q.Args(p)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(q.ID, metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.repo.Query(ctx, q.Statement, args...)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(q.ID, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if q.Post != nil {
		q.Post(res)
	}
	res.Title = q.HeadingFor(p)
	metrics.QueriesTotal.WithLabelValues(q.ID, metrics.OutcomeSuccess).Inc()
	return res, nil
}

// RunInputQuery выполняет запрос id с полями формы.
func (s *DashboardService) RunInputQuery(ctx context.Context, username, id string, form map[string]string) (*Outcome, error) {
	const op = "services.RunInputQuery"

	q, err := catalog.Input(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p := catalog.Params{Username: username, Form: form}
	args, err := q.Args(p)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(q.ID, metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if q.Kind == catalog.KindInsert {
		if _, err := s.repo.Exec(ctx, q.Statement, args...); err != nil {
			metrics.QueriesTotal.WithLabelValues(q.ID, metrics.OutcomeError).Inc()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		metrics.QueriesTotal.WithLabelValues(q.ID, metrics.OutcomeSuccess).Inc()
		s.publishNomination(ctx, p)
		return &Outcome{Success: q.Success}, nil
	}

	res, err := s.repo.Query(ctx, q.Statement, args...)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues(q.ID, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if q.Post != nil {
		q.Post(res)
	}
	res.Title = q.HeadingFor(p)
	metrics.QueriesTotal.WithLabelValues(q.ID, metrics.OutcomeSuccess).Inc()
	return &Outcome{Result: res}, nil
}

func (s *DashboardService) publishNomination(ctx context.Context, p catalog.Params) {
	const op = "services.publishNomination"
	event := models.NominationCreated{
		Nomination: catalog.NormalizeNomination(catalog.NominationFromForm(p)),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, rabbitmq.KeyNominationCreated, event); err != nil {
		s.log.Warn("failed to publish event",
			sl.Op(op),
			slog.String("routing_key", rabbitmq.KeyNominationCreated),
			sl.Err(err),
		)
	}
}

// ErrorBanner формирует текст ошибки для показа на дашборде.
func ErrorBanner(id string, err error) string {
	var msg string
	var missing *catalog.MissingInputError
	if errors.As(err, &missing) {
		msg = missing.Error()
	} else {
		msg = dberr.Message(err)
	}
	if id == catalog.InsertNomination {
		return insertErrorPrefix + msg
	}
	return msg
}
