package async

import "context"

// Worker is a long running loop. Run blocks until ctx is cancelled and calls
// done on exit.
type Worker interface {
	Run(ctx context.Context, done func())
	Shutdown()
}
