package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que los repositorios traducen a errores del dominio.
const (
	pgUniqueViolation = "23505"
)

// isUniqueViolation detecta choques de unicidad: código de producto, código de
// barras, número de recepción, email o nombre de usuario repetidos.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
