package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Wilfix07/ecom-sub000/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin  = errs.New("failed to begin transaction")
	errTransactionCommit = errs.New("failed to commit transaction")
)

// PgxTransactor runs command mutations inside one pgx transaction. A rolled
// back function leaves no partial ledger state.
type PgxTransactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *PgxTransactor {
	return &PgxTransactor{pool: pool}
}

func (t *PgxTransactor) Within(ctx context.Context, fn func(tx DBTX) error) error {
	pgxTx, err := t.pool.Begin(ctx)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if err := fn(pgxTx); err != nil {
		return err
	}

	if err := pgxTx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

// DB returns the non-transactional handle for single-statement operations.
func (t *PgxTransactor) DB() DBTX {
	return t.pool
}
