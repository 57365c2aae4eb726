package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx records how a transaction was finished.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		err := WithTransaction(ctx, b, func(context.Context, pgx.Tx) error { return nil })

		require.NoError(t, err)
		assert.True(t, b.tx.committed)
		assert.False(t, b.tx.rolledBack)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		boom := errors.New("boom")
		err := WithTransaction(ctx, b, func(context.Context, pgx.Tx) error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.True(t, b.tx.rolledBack)
		assert.False(t, b.tx.committed)
	})

	t.Run("rolls back and repanics", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		assert.Panics(t, func() {
			_ = WithTransaction(ctx, b, func(context.Context, pgx.Tx) error { panic("bad") })
		})
		assert.True(t, b.tx.rolledBack)
	})

	t.Run("begin failure", func(t *testing.T) {
		b := &fakeBeginner{err: errors.New("pool closed")}
		err := WithTransaction(ctx, b, func(context.Context, pgx.Tx) error { return nil })
		assert.ErrorContains(t, err, "failed to begin transaction")
	})
}
