package ports

import (
	"context"

	"github.com/anno-app/annoboot/internal/domain"
)

// StorageEngine brings the local persistent store online.
type StorageEngine interface {
	// InitDB opens the store, creating it if needed.
	// It returns once the store is ready for reads and writes.
	InitDB(ctx context.Context) error
}

// SessionStore holds the cached signed-in user.
type SessionStore interface {
	// RemoveUser discards any cached user. Removing when no user is
	// cached is not an error.
	RemoveUser(ctx context.Context) error
}

// SettingsStore reads and updates persisted settings.
type SettingsStore interface {
	// ReadSettings returns the persisted settings.
	// Returns empty settings and nil error if none were saved yet.
	ReadSettings(ctx context.Context) (domain.Settings, error)

	// SaveServer assigns the server endpoint.
	SaveServer(ctx context.Context, endpoint domain.Endpoint) error
}
