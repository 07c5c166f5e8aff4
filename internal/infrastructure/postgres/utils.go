package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/devis-factures-api/internal/domain"
)

// Querier abstrae *pgxpool.Pool y pgx.Tx para que los repositorios funcionen dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// isCheckViolation verifica si un error es una violación de CHECK (23514).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	return false
}

// checkRejected traduce una violación de CHECK a ErrInvalidArgument con el nombre del constraint.
func checkRejected(err error, msg string) error {
	var pgErr *pgconn.PgError
	details := map[string]any{}
	if errors.As(err, &pgErr) {
		details["constraint"] = pgErr.ConstraintName
	}
	return &domain.Error{Kind: domain.ErrInvalidArgument, Message: msg, Details: details}
}

func duplicate(msg string) error {
	return &domain.Error{Kind: domain.ErrDuplicate, Message: msg}
}

// nullIfEmpty convierte "" en NULL para columnas opcionales (uuid, fk).
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// pageArgs normaliza limit/offset: limit <= 0 significa sin límite.
func pageArgs(limit, offset int) (any, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil, offset
	}
	return limit, offset
}
