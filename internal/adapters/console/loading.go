package console

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/anno-app/annoboot/internal/ports"
)

// Spinner implements ports.LoadingIndicator with a terminal spinner.
type Spinner struct {
	mu      sync.Mutex
	s       *spinner.Spinner
	visible bool
}

// NewSpinner creates a spinner that writes to w with the given label.
func NewSpinner(w io.Writer, label string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	if label != "" {
		s.Suffix = " " + label
	}
	return &Spinner{s: s}
}

// Show starts the spinner. Showing a visible spinner does nothing.
func (l *Spinner) Show() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.visible {
		return
	}
	l.visible = true
	l.s.Start()
}

// Hide stops the spinner. Hiding a hidden spinner does nothing.
func (l *Spinner) Hide() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.visible {
		return
	}
	l.visible = false
	l.s.Stop()
}

// Visible reports whether the spinner is shown.
func (l *Spinner) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

var _ ports.LoadingIndicator = (*Spinner)(nil)
