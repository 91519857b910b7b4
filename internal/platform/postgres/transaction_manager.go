package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionManager starts transactions. *pgxpool.Pool satisfies it.
type TransactionManager interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

func NewTransactionManager(pool *pgxpool.Pool) TransactionManager {
	return pool
}

// WithinTx runs fn in a read-committed transaction. It commits when fn
// returns nil and rolls back otherwise. Errors from fn are returned unwrapped.
func WithinTx(ctx context.Context, tm TransactionManager, fn func(tx pgx.Tx) error) error {
	return WithinTxOptions(ctx, tm, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// WithinTxOptions is WithinTx with explicit isolation and access mode
func WithinTxOptions(ctx context.Context, tm TransactionManager, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := tm.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// no-op once committed
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
