package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// nullable devuelve nil para string vacío (columnas NULL en vez de '').
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// fromNullable devuelve "" para NULL.
func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
