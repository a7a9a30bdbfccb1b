package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que la app traduce a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// UniqueViolation informa si err es una violación de índice unique y qué constraint la disparó.
func UniqueViolation(err error) (string, bool) {
	return violation(err, codeUniqueViolation)
}

// ForeignKeyViolation informa si err es una violación de FK y qué constraint la disparó.
func ForeignKeyViolation(err error) (string, bool) {
	return violation(err, codeForeignKeyViolation)
}

func violation(err error, code string) (string, bool) {
	var postgresError *pgconn.PgError
	if errors.As(err, &postgresError) && postgresError.Code == code {
		return postgresError.ConstraintName, true
	}
	return "", false
}
