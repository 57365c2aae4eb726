package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/freshman/internal/pkg/apperrors"
)

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap("select", nil))
	})

	t.Run("statement timeout is tagged unavailable", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"}
		err := Wrap("list approvals", pgErr)

		assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
		assert.True(t, IsStatementTimeout(err))
		assert.Contains(t, err.Error(), "list approvals")
	})

	t.Run("other errors are only annotated", func(t *testing.T) {
		err := Wrap("bind", errors.New("broken pipe"))
		assert.NotErrorIs(t, err, apperrors.ErrStoreUnavailable)
		assert.EqualError(t, err, "bind: broken pipe")
	})
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("x")))
}
