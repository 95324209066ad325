package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leaguehq/leaguehq-auth/internal/models"
)

// MapPostgresError translates driver failures into the domain taxonomy.
// Everything unrecognized collapses to StorageError so driver details never
// leak past the repository layer. Timeouts and cancellations are storage
// errors too; retries belong to the caller.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return models.ErrStorage
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return models.ErrDuplicate
		case "23503", "23502": // foreign_key_violation, not_null_violation
			return models.ErrValidation
		}
	}

	return models.ErrStorage
}

// TxBeginner is satisfied by *pgxpool.Pool and by pgxmock pools.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RunInTx executes fn inside a transaction, committing on nil and rolling
// back on error or panic.
func RunInTx(ctx context.Context, b TxBeginner, fn func(pgx.Tx) error) (err error) {
	tx, err := b.Begin(ctx)
	if err != nil {
		return MapPostgresError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

func (db *DB) WithTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	return RunInTx(ctx, db.Pool, fn)
}
