package intake

import "context"

// Intake turns request files dropped into the inbox into queued jobs
// and writes each job's outcome next to the published artifacts.
type Intake interface {
	// Handle processes one request file. It blocks until the job finishes or ctx ends.
	Handle(ctx context.Context, path string) error
	// Recover returns files left in the processing folder by an interrupted run to the inbox.
	Recover(ctx context.Context) error
}
