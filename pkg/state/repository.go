package state

import "context"

// Repository handles persistence of the last run record.
type Repository interface {
	// Load retrieves the last saved state.
	// Returns an empty state and nil error if no state exists.
	Load(ctx context.Context) (State, error)

	// Save persists the state atomically.
	Save(ctx context.Context, state State) error
}
