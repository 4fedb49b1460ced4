package postgres

import (
	"errors"
	"fmt"

	"healcoin-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeLockNotAvailable     = "55P03"
)

// wrapErr prefixes err with op and marks lost races with ports.ErrWriteConflict.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeUniqueViolation, codeLockNotAvailable:
			return fmt.Errorf("%s: %w: %w", op, ports.ErrWriteConflict, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
