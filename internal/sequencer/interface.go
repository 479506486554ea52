package sequencer

import "context"

// Sequencer runs pipeline jobs one at a time in arrival order.
type Sequencer interface {
	// Start runs the worker loop until ctx is cancelled or Close has drained the queue.
	Start(ctx context.Context) error
	// Enqueue validates req and queues it behind every job already accepted.
	Enqueue(req Request) (*Handle, error)
	// Close stops accepting jobs. Jobs already queued still run.
	Close()
	// Snapshot reports queue counters.
	Snapshot() Stats
}

// RunFunc executes one job. It is never called concurrently.
type RunFunc func(ctx context.Context, job Job) (Result, error)
