// Package dberr переводит ошибки базы данных в короткие сообщения для баннера
// на дашборде.
//
// Сначала смотрим на SQLSTATE из *pgconn.PgError, текст ошибки разбираем
// только если кода нет.
package dberr

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind класс ошибки.
type Kind int

const (
	KindUnknown Kind = iota
	KindDatabase
	KindDuplicate
	KindForeignKey
	KindMissingField
	KindIntegrity
	KindInvalidData
)

var messages = map[Kind]string{
	KindUnknown:      "An unknown error occurred.",
	KindDatabase:     "Database error occurred.",
	KindDuplicate:    "A nomination with the same data already exists.",
	KindForeignKey:   "You tried to insert a reference that does not exist (e.g., movie or staff not found).",
	KindMissingField: "One of the required fields was missing.",
	KindIntegrity:    "Integrity constraint failed.",
	KindInvalidData:  "The data you entered is invalid or too long.",
}

// Message возвращает текст для пользователя.
func (k Kind) Message() string {
	if msg, ok := messages[k]; ok {
		return msg
	}
	return messages[KindUnknown]
}

// Error помечает ошибку как пришедшую из слоя хранения.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap оборачивает ошибку драйвера. nil остаётся nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Classify определяет класс ошибки.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyCode(pgErr.Code)
	}

	var dbErr *Error
	isDB := errors.As(err, &dbErr) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, sql.ErrTxDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		pgconn.Timeout(err)
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		isDB = true
	}
	if !isDB {
		return KindUnknown
	}

	if kind, ok := classifyText(err.Error()); ok {
		return kind
	}
	return KindDatabase
}

// Message сокращение для Classify(err).Message().
func Message(err error) string {
	return Classify(err).Message()
}

func classifyCode(code string) Kind {
	switch code {
	case pgerrcode.UniqueViolation:
		return KindDuplicate
	case pgerrcode.ForeignKeyViolation:
		return KindForeignKey
	case pgerrcode.NotNullViolation:
		return KindMissingField
	}
	switch {
	case pgerrcode.IsIntegrityConstraintViolation(code):
		return KindIntegrity
	case pgerrcode.IsDataException(code):
		return KindInvalidData
	}
	return KindDatabase
}

// classifyText запасной путь для ошибок без SQLSTATE.
func classifyText(text string) (Kind, bool) {
	msg := strings.ToLower(text)
	switch {
	case strings.Contains(msg, "duplicate"):
		return KindDuplicate, true
	case strings.Contains(msg, "foreign key"):
		return KindForeignKey, true
	case strings.Contains(msg, "null value"):
		return KindMissingField, true
	case strings.Contains(msg, "too long"), strings.Contains(msg, "invalid input syntax"):
		return KindInvalidData, true
	}
	return KindUnknown, false
}
