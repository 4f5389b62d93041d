// Package workers runs the client's background jobs.
//
// A Worker is started with Run, which must return promptly and do its
// work in a goroutine, and is stopped with Stop, which blocks until that
// goroutine exited.
package workers

import "context"

// Worker is a background job bound to the lifetime of the context passed to Run.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

// Resyncer merges a fresh server copy into a view.
type Resyncer interface {
	Resync(ctx context.Context) error
}
