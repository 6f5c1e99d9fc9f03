package awardsdashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/awards-dashboard/internal/cache"
	"github.com/magabrotheeeer/awards-dashboard/internal/config"
	"github.com/magabrotheeeer/awards-dashboard/internal/http/handlers/health"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/awards-dashboard/internal/migrations"
	authservice "github.com/magabrotheeeer/awards-dashboard/internal/services/auth"
	dashboardservice "github.com/magabrotheeeer/awards-dashboard/internal/services/dashboard"
	"github.com/magabrotheeeer/awards-dashboard/internal/session"
	"github.com/magabrotheeeer/awards-dashboard/internal/storage"
	"github.com/magabrotheeeer/awards-dashboard/internal/web"
)

const (
	shutdownTimeout = 15 * time.Second
	amqpRetries     = 5
	amqpRetryDelay  = 2 * time.Second
)

// Publisher отправляет события и освобождает соединение при остановке.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
	Close() error
}

// App держит HTTP-сервер и все его зависимости.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *storage.Storage
	cache     *cache.Cache
	publisher Publisher
	amqpConn  *amqp.Connection
}

// New поднимает зависимости и собирает роутер. При ошибке уже открытые ресурсы закрываются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}
	var err error
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	app.db, err = storage.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(app.db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	if err = app.initPublisher(cfg); err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.SecretKey, cfg.SessionTTL)
	sessions := session.NewManager(app.cache, jwtMaker, cfg.Session)

	authService, err := authservice.NewAuthService(app.db, app.publisher, logger)
	if err != nil {
		return nil, err
	}
	dashboardService := dashboardservice.NewDashboardService(app.db, app.publisher, logger)

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, dashboardService, sessions, renderer, map[string]health.Pinger{
		"postgres": app.db,
		"redis":    app.cache,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// initPublisher подключает RabbitMQ, если он настроен. Без AMQP_URL события отбрасываются.
func (a *App) initPublisher(cfg *config.Config) error {
	if cfg.AMQPURL == "" {
		a.logger.Info("AMQP_URL is empty, domain events are disabled")
		a.publisher = rabbitmq.NopPublisher{}
		return nil
	}

	conn, err := rabbitmq.Connect(cfg.AMQPURL, amqpRetries, amqpRetryDelay)
	if err != nil {
		return err
	}
	a.amqpConn = conn

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.EventQueues())
	if err != nil {
		return err
	}
	a.publisher = rabbitmq.NewPublisher(ch)
	a.logger.Info("connected to RabbitMQ", slog.String("exchange", rabbitmq.Exchange))
	return nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close publisher", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close AMQP connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", sl.Err(err))
		}
	}
}
