package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/awards-dashboard/internal/models"
)

// Имена ограничений из migrations/000001_create_users.up.sql.
const (
	usersPrimaryKey  = "users_pkey"
	usersEmailUnique = "users_email_key"
)

// RegisterUser сохраняет нового пользователя.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) error {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (username, email, gender, birthdate, country, password_hash)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query,
		user.Username, user.Email, user.Gender, user.Birthdate, user.Country, user.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case usersPrimaryKey:
				return fmt.Errorf("%s: %w", op, ErrUserExists)
			case usersEmailUnique:
				return fmt.Errorf("%s: %w", op, ErrEmailExists)
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, email, gender, birthdate, country, password_hash
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, username).
		Scan(&u.Username, &u.Email, &u.Gender, &u.Birthdate, &u.Country, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
