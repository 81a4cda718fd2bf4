package ports

import (
	"context"

	"github.com/anno-app/annoboot/internal/domain"
)

// PlatformReady blocks until the host platform is ready to run the startup
// sequence.
type PlatformReady interface {
	// Wait returns nil once the platform is ready, or the context error.
	Wait(ctx context.Context) error
}

// ProcessControl terminates the running application.
type ProcessControl interface {
	// Exit ends the process with the given status code.
	// Real implementations do not return.
	Exit(code int)
}

// AppShell instantiates and displays the application.
type AppShell interface {
	// Launch hands control to the application with its configuration.
	Launch(ctx context.Context, cfg domain.LaunchConfig) error
}
