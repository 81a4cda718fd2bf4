// Package lifecycle provides retry helpers for startup steps that talk to
// slow or flaky collaborators.
//
// # Usage
//
//	b := lifecycle.NewBackoff(200*time.Millisecond, 2*time.Second)
//	err := lifecycle.Retry(ctx, 5, b, func(ctx context.Context) error {
//	    return store.open(ctx)
//	})
//
// Waits between attempts grow exponentially with ±20% jitter and stop early
// when the context is done.
package lifecycle
