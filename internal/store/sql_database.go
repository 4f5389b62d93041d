package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/migrations"
	sq "github.com/Masterminds/squirrel"
	"github.com/codeGROOVE-dev/retry"
)

const txAttempts = 3

// psql builds postgres statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the server schema.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// MigrateClient applies the client session schema.
func (db *DB) MigrateClient() error {
	return migrations.MigrateClient(db.DB)
}

// inTx runs fn in a transaction. Transactions failing with an error the
// classificator marks retryable (serialization failures, deadlocks, lost
// connections) are retried from the start.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var last error
	attempt := func() error {
		last = db.attemptTx(ctx, fn)
		if last != nil && (db.errorClassificator == nil || db.errorClassificator.Classify(last) != Retryable) {
			return retry.Unrecoverable(last)
		}
		return last
	}

	err := retry.Do(attempt,
		retry.Attempts(txAttempts),
		retry.Delay(20*time.Millisecond),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			db.logger.Warn().Err(err).Uint("attempt", n+1).Msg("retrying transaction")
		}),
	)
	if err != nil && last != nil {
		// callers match on the error of the final attempt
		return last
	}
	return err
}

func (db *DB) attemptTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("%w: %w", ErrRollingBackTransaction, rbErr))
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
