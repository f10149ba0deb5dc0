package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsExclusionConflict detecta violação de índice único ou de exclusão do
// Postgres — a corrida de double-booking perdida depois do scan com lock.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}
