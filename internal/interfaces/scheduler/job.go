package scheduler

import "context"

// Job is a unit of work run by the worker pool.
type Job interface {
	// Execute runs the job. The context carries the per-job timeout.
	Execute(ctx context.Context) error

	// Name identifies the job kind in logs and metrics, e.g. "sync".
	Name() string

	// Description is a human-readable summary used in logs.
	Description() string
}
