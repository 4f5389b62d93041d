package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	pgErr := func(code string) error {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, &pgconn.PgError{Code: code})
	}

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "serialization failure", err: pgErr(pgerrcode.SerializationFailure), want: Retryable},
		{name: "deadlock", err: pgErr(pgerrcode.DeadlockDetected), want: Retryable},
		{name: "connection failure", err: pgErr(pgerrcode.ConnectionFailure), want: Retryable},
		{name: "cannot connect now", err: pgErr(pgerrcode.CannotConnectNow), want: Retryable},
		{name: "unique violation", err: pgErr(pgerrcode.UniqueViolation), want: NonRetryable},
		{name: "foreign key violation", err: pgErr(pgerrcode.ForeignKeyViolation), want: NonRetryable},
		{name: "undefined table", err: pgErr(pgerrcode.UndefinedTable), want: NonRetryable},
		{name: "plain error", err: errors.New("boom"), want: NonRetryable},
	}

	c := NewPostgresErrorClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestPostgresError(t *testing.T) {
	assert.Equal(t, pgerrcode.UniqueViolation, postgresError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})))
	assert.Empty(t, postgresError(errors.New("boom")))
}
