package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells inTx whether a failed transaction is worth
// another attempt.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// PostgresErrorClassifier classifies errors of the pgx driver by SQLSTATE
// class. Like and comment counters are updated in the same transaction as
// the row they count, so serialization failures and deadlocks between
// concurrent likers are expected and retried.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify reports Retryable for:
//   - class 08 (connection exceptions)
//   - class 40 (transaction rollback: serialization failure, deadlock)
//   - 57P03 (cannot connect now)
//   - driver errors that never reached the server
//
// Everything else, constraint violations included, is NonRetryable.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	code := postgresError(err)
	switch {
	case code == "":
		if pgconn.SafeToRetry(err) {
			return Retryable
		}
		return NonRetryable
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsTransactionRollback(code),
		code == pgerrcode.CannotConnectNow:
		return Retryable
	}
	return NonRetryable
}

// postgresError returns the SQLSTATE of err or "" when err did not come
// from the server.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
