package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_SameKeyCommitsInOrder(t *testing.T) {
	var mu sync.Mutex
	c := NewCoordinator(&mu, time.Second, nil, logger.Nop())

	release := make(chan struct{})
	var order []string
	var orderMu sync.Mutex
	record := func(name string) {
		orderMu.Lock()
		order = append(order, name)
		orderMu.Unlock()
	}

	first := Submit(context.Background(), c, Mutation[struct{}, struct{}]{
		Name: "first",
		Key:  "k",
		Commit: func(context.Context, struct{}) (struct{}, error) {
			<-release
			record("first")
			return struct{}{}, nil
		},
	})
	second := Submit(context.Background(), c, Mutation[struct{}, struct{}]{
		Name: "second",
		Key:  "k",
		Commit: func(context.Context, struct{}) (struct{}, error) {
			record("second")
			return struct{}{}, nil
		},
	})

	close(release)
	require.NoError(t, await(t, first))
	require.NoError(t, await(t, second))
	c.Wait()

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestCoordinator_ApplyConfirmCompensate(t *testing.T) {
	var mu sync.Mutex
	notified := 0
	c := NewCoordinator(&mu, time.Second, func() { notified++ }, logger.Nop())

	state := 0
	ch := Submit(context.Background(), c, Mutation[int, int]{
		Name:    "inc",
		Key:     "state",
		Apply:   func() int { state++; return state },
		Commit:  func(_ context.Context, p int) (int, error) { return p * 10, nil },
		Confirm: func(_ int, r int) { state = r },
	})
	require.NoError(t, await(t, ch))
	c.Wait()
	assert.Equal(t, 10, state)

	boom := errors.New("boom")
	ch = Submit(context.Background(), c, Mutation[int, int]{
		Name:       "inc",
		Key:        "state",
		Apply:      func() int { prev := state; state = -1; return prev },
		Commit:     func(context.Context, int) (int, error) { return 0, boom },
		Compensate: func(p int, cause error) { state = p },
	})
	err := await(t, ch)
	c.Wait()

	assert.ErrorIs(t, err, ErrMutationFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, state)
	// apply, confirm, apply, compensate
	assert.Equal(t, 4, notified)
}

func TestCoordinator_CommitTimeout(t *testing.T) {
	var mu sync.Mutex
	c := NewCoordinator(&mu, 20*time.Millisecond, nil, logger.Nop())

	ch := Submit(context.Background(), c, Mutation[struct{}, struct{}]{
		Name: "slow",
		Key:  "k",
		Commit: func(ctx context.Context, _ struct{}) (struct{}, error) {
			<-ctx.Done()
			return struct{}{}, ctx.Err()
		},
	})

	err := await(t, ch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCoordinator_RecoverErrorIsJoined(t *testing.T) {
	var mu sync.Mutex
	c := NewCoordinator(&mu, time.Second, nil, logger.Nop())

	commitErr, recoverErr := errors.New("commit"), errors.New("recover")
	ch := Submit(context.Background(), c, Mutation[struct{}, struct{}]{
		Name:    "delete",
		Key:     "k",
		Commit:  func(context.Context, struct{}) (struct{}, error) { return struct{}{}, commitErr },
		Recover: func(context.Context, struct{}, error) error { return recoverErr },
	})

	err := await(t, ch)
	assert.ErrorIs(t, err, commitErr)
	assert.ErrorIs(t, err, recoverErr)
}
