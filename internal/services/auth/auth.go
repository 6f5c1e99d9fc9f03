// Package services содержит логику регистрации и входа пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/awards-dashboard/internal/lib/password"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/awards-dashboard/internal/metrics"
	"github.com/magabrotheeeer/awards-dashboard/internal/models"
	"github.com/magabrotheeeer/awards-dashboard/internal/storage"
)

// ErrInvalidCredentials общий отказ во входе: не раскрывает, существует ли пользователь.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя.
	RegisterUser(ctx context.Context, user models.User) error

	// GetUserByUsername возвращает пользователя по имени или storage.ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// EventPublisher отправляет доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// RegisterInput поля формы регистрации. Теги form задают имена полей в сообщениях.
type RegisterInput struct {
	Username        string `form:"username" validate:"required,max=100"`
	Email           string `form:"email" validate:"required,email,max=255"`
	Country         string `form:"country" validate:"required,max=100"`
	Birthdate       string `form:"birthdate" validate:"required,date"`
	Gender          string `form:"gender" validate:"required,oneof=M F"`
	Password        string `form:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `form:"password-confirm" validate:"required,eqfield=Password"`
}

// LoginInput поля формы входа.
type LoginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// AuthService отвечает за регистрацию и проверку учётных данных.
type AuthService struct {
	users     UserRepository
	events    EventPublisher
	validate  *validator.Validate
	log       *slog.Logger
	dummyHash string
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, events EventPublisher, log *slog.Logger) (*AuthService, error) {
	const op = "services.NewAuthService"
	// хэш для сравнения, когда пользователя нет: время ответа не выдаёт его отсутствие
	dummy, err := password.GetHash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthService{
		users:     users,
		events:    events,
		validate:  newValidator(),
		log:       log,
		dummyHash: dummy,
	}, nil
}

// Register проверяет форму, хэширует пароль и сохраняет пользователя.
// Ошибки, которые надо показать в форме, возвращаются как *ValidationError.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	const op = "services.Register"

	if msgs := s.validateStruct(in); len(msgs) > 0 {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return &ValidationError{Messages: msgs}
	}
	// max в теге считает руны, bcrypt ограничен байтами
	if len(in.Password) > password.MaxBytes {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return &ValidationError{Messages: []string{MsgPasswordTooLong}}
	}

	_, err := s.users.GetUserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return &ValidationError{Messages: []string{MsgUsernameTaken}}
	case !errors.Is(err, storage.ErrUserNotFound):
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	birthdate, err := time.Parse(time.DateOnly, in.Birthdate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(in.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		Gender:       in.Gender,
		Birthdate:    birthdate,
		Country:      in.Country,
		PasswordHash: hashed,
	}
	if err := s.users.RegisterUser(ctx, user); err != nil {
		// проигравшая гонка за уникальный ключ
		switch {
		case errors.Is(err, storage.ErrUserExists):
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return &ValidationError{Messages: []string{MsgUsernameTaken}}
		case errors.Is(err, storage.ErrEmailExists):
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return &ValidationError{Messages: []string{MsgEmailTaken}}
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	event := models.UserRegistered{
		Username:     user.Username,
		Email:        user.Email,
		Country:      user.Country,
		RegisteredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, rabbitmq.KeyUserRegistered, event); err != nil {
		s.log.Warn("failed to publish event",
			sl.Op(op),
			slog.String("routing_key", rabbitmq.KeyUserRegistered),
			sl.Err(err),
		)
	}
	return nil
}

// Login проверяет имя и пароль. Отсутствующий пользователь и неверный пароль
// дают одну и ту же ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	const op = "services.Login"

	if err := s.validate.Struct(in); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, storage.ErrUserNotFound) {
		password.Matches(s.dummyHash, in.Password)
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !password.Matches(user.PasswordHash, in.Password) {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, ErrInvalidCredentials
	}
	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return user, nil
}

// User возвращает пользователя по имени.
func (s *AuthService) User(ctx context.Context, username string) (*models.User, error) {
	const op = "services.User"
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
