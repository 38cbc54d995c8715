package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type contextKey string

const txKey contextKey = "postgresql_transaction"

// serializationFailure is the SQLSTATE returned when a SERIALIZABLE
// transaction could not be committed and must be re-run.
const serializationFailure = "40001"

// deadlockDetected is treated like a serialization failure.
const deadlockDetected = "40P01"

// GetTx extracts transaction from context (helper function)
func GetTx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// WithTx executes a function within a read-committed transaction with automatic rollback on error
func WithTx(ctx context.Context, db PostgreSQLClient, fn func(ctx context.Context) error) error {
	return WithTxOptions(ctx, db, pgx.TxOptions{}, fn)
}

// WithTxOptions executes a function within a transaction with specific options.
// The transaction travels in the context, so Exec/Query/QueryRow of the
// client called with txCtx run inside it.
func WithTxOptions(ctx context.Context, db PostgreSQLClient, txOptions pgx.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	txCtx := context.WithValue(ctx, txKey, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// WithSerializableRetry runs fn in a SERIALIZABLE transaction and re-runs it
// while the database reports a serialization failure. Any other error stops
// the retry and is returned as is.
func WithSerializableRetry(ctx context.Context, db PostgreSQLClient, retries int, fn func(ctx context.Context) error) error {
	operation := func() error {
		err := WithTxOptions(ctx, db, SerializableTxOptions(), fn)
		if err == nil || IsSerializationFailure(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(max(retries, 0))), ctx))
}

// IsSerializationFailure reports whether err is a retryable transaction conflict.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected
}

// ReadOnlyTxOptions returns transaction options for read-only transactions
func ReadOnlyTxOptions() pgx.TxOptions {
	return pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadOnly,
	}
}

// SerializableTxOptions returns transaction options for serializable transactions
func SerializableTxOptions() pgx.TxOptions {
	return pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	}
}
