package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/awards-dashboard/internal/lib/dberr"
	"github.com/magabrotheeeer/awards-dashboard/internal/models"
)

// Query выполняет выборку в транзакции только для чтения и возвращает
// колонки и строки как есть. При ошибке транзакция откатывается.
func (s *Storage) Query(ctx context.Context, statement string, args ...any) (*models.Result, error) {
	const op = "storage.Query"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, dberr.Wrap(op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, dberr.Wrap(op, err)
	}
	result, err := scanResult(rows)
	if err != nil {
		return nil, dberr.Wrap(op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, dberr.Wrap(op, err)
	}
	return result, nil
}

// Exec выполняет одну изменяющую команду в транзакции и возвращает число затронутых строк.
func (s *Storage) Exec(ctx context.Context, statement string, args ...any) (int64, error) {
	const op = "storage.Exec"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, dberr.Wrap(op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, statement, args...)
	if err != nil {
		return 0, dberr.Wrap(op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, dberr.Wrap(op, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, dberr.Wrap(op, err)
	}
	return affected, nil
}

func scanResult(rows *sql.Rows) (*models.Result, error) {
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &models.Result{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err = rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
