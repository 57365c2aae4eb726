package dberrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/freshman/internal/pkg/apperrors"
)

const codeQueryCanceled = "57014"

// IsStatementTimeout reports whether PostgreSQL cancelled the statement,
// which is how the pool's statement_timeout surfaces.
func IsStatementTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeQueryCanceled
}

// IsNoRows reports whether err is pgx's no-rows sentinel.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Wrap annotates a store error with the operation name. Statement timeouts are
// additionally tagged with apperrors.ErrStoreUnavailable.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsStatementTimeout(err) {
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
