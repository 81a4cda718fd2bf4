package annoboot

import (
	"io"

	"github.com/anno-app/annoboot/internal/domain"
	"github.com/anno-app/annoboot/internal/ports"
	"github.com/anno-app/annoboot/pkg/log"
)

// Collaborator interfaces that can be supplied through options.
type (
	// HTTPClient is satisfied by *http.Client.
	HTTPClient = ports.HTTPClient

	// AppShell receives the launch configuration at the end of the sequence.
	AppShell = ports.AppShell

	// Notifier shows a blocking message to the user.
	Notifier = ports.Notifier

	// LoadingIndicator is shown while the endpoint is being selected.
	LoadingIndicator = ports.LoadingIndicator

	// ProcessControl terminates the process after an abort.
	ProcessControl = ports.ProcessControl

	// PlatformReady signals that the host platform finished starting.
	PlatformReady = ports.PlatformReady

	// LaunchConfig is the configuration handed to the shell.
	LaunchConfig = domain.LaunchConfig
)

// Option configures optional behavior of a Bootstrapper.
type Option func(*options)

type options struct {
	httpClient   HTTPClient
	logger       log.Logger
	eventHandler EventHandler
	shell        AppShell
	notifier     Notifier
	loading      LoadingIndicator
	process      ProcessControl
	ready        PlatformReady
	in           io.Reader
	out          io.Writer
}

// WithHTTPClient sets the client used by the connectivity, region and proxy
// probes. If not provided, a client with the configured HTTP timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for stage changes.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithShell replaces the application shell.
func WithShell(shell AppShell) Option {
	return func(o *options) {
		o.shell = shell
	}
}

// WithNotifier replaces the console dialog.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithLoadingIndicator replaces the console spinner.
func WithLoadingIndicator(l LoadingIndicator) Option {
	return func(o *options) {
		o.loading = l
	}
}

// WithProcessControl replaces os.Exit as the way the sequence ends the process.
func WithProcessControl(p ProcessControl) Option {
	return func(o *options) {
		o.process = p
	}
}

// WithPlatformReady replaces the platform ready signal.
func WithPlatformReady(r PlatformReady) Option {
	return func(o *options) {
		o.ready = r
	}
}

// WithIO sets the terminal streams used by the console dialog and spinner.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *options) {
		o.in = in
		o.out = out
	}
}
