package worker

import (
	"context"
)

// Worker is the contract every background worker implements.
type Worker interface {
	// Start runs the worker loop until Stop or context cancellation.
	Start(ctx context.Context) error

	// Stop signals the worker to finish its current cycle and exit.
	Stop() error

	// Name returns the worker name used in logs.
	Name() string
}
