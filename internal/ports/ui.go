package ports

import "context"

// Notifier shows a blocking message to the user.
type Notifier interface {
	// ShowMessage displays msg and returns once the user acknowledged it.
	ShowMessage(ctx context.Context, msg string) error
}

// LoadingIndicator toggles a busy indicator.
type LoadingIndicator interface {
	Show()
	Hide()
}
