// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// It defines a single Start method that runs the worker until ctx is
// cancelled.
//
// Implementations are expected to block for the duration of their work;
// the aggregate runs each worker on its own goroutine.
type Worker interface {
	Start(ctx context.Context)
}
