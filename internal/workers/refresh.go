// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/logger"
)

// DefaultRefreshInterval is used when the configured interval is not positive.
const DefaultRefreshInterval = 2 * time.Minute

// RefreshWorker resyncs views on a ticker. Realtime channels that dropped
// are not reopened, so this is what eventually brings such a view back in
// step with the server.
type RefreshWorker struct {
	targets  []Resyncer
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRefreshWorker(interval time.Duration, log *logger.Logger, targets ...Resyncer) *RefreshWorker {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RefreshWorker{targets: targets, interval: interval, logger: log}
}

// Run stops a previous run, if any, and starts ticking. The goroutine exits
// when ctx is cancelled or Stop is called.
func (w *RefreshWorker) Run(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				w.tick(jobCtx)
			}
		}
	}()
}

func (w *RefreshWorker) tick(ctx context.Context) {
	for _, target := range w.targets {
		if err := target.Resync(ctx); err != nil && ctx.Err() == nil {
			// a failed resync is retried on the next tick
			w.logger.Warn().Err(err).Str("func", "*RefreshWorker.tick").Msg("resync failed")
		}
	}
}

// Stop cancels the running goroutine and waits for it. Safe to call when
// the worker is not running.
func (w *RefreshWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
