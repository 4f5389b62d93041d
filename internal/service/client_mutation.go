package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/logger"
)

// DefaultMutationTimeout bounds a single remote write when none is configured.
const DefaultMutationTimeout = 10 * time.Second

// Mutation is a two-phase local change: Apply runs immediately, Commit
// issues the remote write, then Confirm or Compensate settles the local
// state. Apply, Confirm and Compensate run under the view lock; Commit and
// Recover run without it.
type Mutation[P, R any] struct {
	Name string
	// Key identifies the entity. Commits with the same key reach the server
	// in submission order.
	Key string

	Apply      func() P
	Commit     func(ctx context.Context, patch P) (R, error)
	Confirm    func(patch P, result R)
	Compensate func(patch P, cause error)
	// Recover runs after Compensate for mutations that restore state
	// from the server instead of reverting locally.
	Recover func(ctx context.Context, patch P, cause error) error
}

// Coordinator runs the mutations of one view.
type Coordinator struct {
	locker  sync.Locker
	timeout time.Duration
	changed func()
	logger  *logger.Logger

	mu    sync.Mutex
	tails map[string]chan struct{}
	wg    sync.WaitGroup
}

// NewCoordinator returns a coordinator applying changes under locker.
// changed, if set, is called after every local change with the lock released.
func NewCoordinator(locker sync.Locker, timeout time.Duration, changed func(), log *logger.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultMutationTimeout
	}
	return &Coordinator{
		locker:  locker,
		timeout: timeout,
		changed: changed,
		logger:  log,
		tails:   make(map[string]chan struct{}),
	}
}

// Submit applies m locally before returning and commits it in the
// background. The returned channel receives nil or an error wrapping
// ErrMutationFailed once the mutation settled.
func Submit[P, R any](ctx context.Context, c *Coordinator, m Mutation[P, R]) <-chan error {
	result := make(chan error, 1)

	c.locker.Lock()
	var patch P
	if m.Apply != nil {
		patch = m.Apply()
	}
	prev, done := c.enqueue(m.Key)
	c.locker.Unlock()
	c.notify()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.release(m.Key, done)

		if prev != nil {
			select {
			case <-prev:
			case <-ctx.Done():
			}
		}
		result <- settle(ctx, c, m, patch)
	}()

	return result
}

func settle[P, R any](ctx context.Context, c *Coordinator, m Mutation[P, R], patch P) error {
	commitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	res, err := m.Commit(commitCtx, patch)
	cancel()

	if err == nil {
		if m.Confirm != nil {
			c.locker.Lock()
			m.Confirm(patch, res)
			c.locker.Unlock()
			c.notify()
		}
		return nil
	}

	c.logger.Warn().Err(err).
		Str("mutation", m.Name).
		Str("key", m.Key).
		Msg("remote write failed, compensating")

	if m.Compensate != nil {
		c.locker.Lock()
		m.Compensate(patch, err)
		c.locker.Unlock()
		c.notify()
	}

	if m.Recover != nil {
		if rerr := m.Recover(ctx, patch, err); rerr != nil {
			c.logger.Err(rerr).Str("mutation", m.Name).Str("key", m.Key).Msg("recovery failed")
			err = errors.Join(err, rerr)
		}
	}

	return fmt.Errorf("%w: %s: %w", ErrMutationFailed, m.Name, mapAdapterError(err))
}

// enqueue registers a commit for key and returns the done channel of its
// predecessor, if any.
func (c *Coordinator) enqueue(key string) (prev, done chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	done = make(chan struct{})
	prev = c.tails[key]
	c.tails[key] = done
	return prev, done
}

func (c *Coordinator) release(key string, done chan struct{}) {
	c.mu.Lock()
	if c.tails[key] == done {
		delete(c.tails, key)
	}
	c.mu.Unlock()
	close(done)
}

func (c *Coordinator) notify() {
	if c.changed != nil {
		c.changed()
	}
}

// Wait blocks until every submitted mutation settled.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// failed returns a settled result channel carrying err.
func failed(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	return ch
}
