package annoboot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anno-app/annoboot/internal/adapters/console"
	"github.com/anno-app/annoboot/internal/adapters/endpoint"
	httpAdapter "github.com/anno-app/annoboot/internal/adapters/http"
	"github.com/anno-app/annoboot/internal/adapters/platform"
	"github.com/anno-app/annoboot/internal/adapters/shell"
	"github.com/anno-app/annoboot/internal/adapters/sqlite"
	"github.com/anno-app/annoboot/internal/app"
	"github.com/anno-app/annoboot/internal/cliconfig"
	"github.com/anno-app/annoboot/internal/domain"
	"github.com/anno-app/annoboot/internal/resource"
	"github.com/anno-app/annoboot/pkg/log"
	"github.com/anno-app/annoboot/pkg/state"
)

// Config holds the configuration of a Bootstrapper.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Result is the outcome of a run.
type Result = domain.Result

// RunRecord is the persisted summary of the last run.
type RunRecord = state.State

// Exit codes passed to ProcessControl.
const (
	ExitStartupFailure = app.ExitStartupFailure
	ExitNoConnectivity = app.ExitNoConnectivity
)

// Errors returned by Run. Check with errors.Is.
var (
	ErrNoConnectivity = domain.ErrNoConnectivity
	ErrStorageInit    = domain.ErrStorageInit
	ErrSettingsRead   = domain.ErrSettingsRead
	ErrLaunch         = domain.ErrLaunch
	ErrAlreadyRan     = domain.ErrAlreadyRan
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Bootstrapper owns the collaborators of one startup sequence.
type Bootstrapper struct {
	config Config
	seq    *app.Sequencer
	store  *sqlite.Store
	status state.Repository
	shell  AppShell
	logger log.Logger
}

// New validates cfg, loads the launch configuration and wires the
// collaborators. Nothing touches the network or the store until Run.
func New(cfg Config, opts ...Option) (*Bootstrapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	o := options{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     log.NewNoopLogger(),
		in:         os.Stdin,
		out:        os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.NewNoopLogger()
	}

	launch, err := resource.Load(cfg.LaunchConfig)
	if err != nil {
		return nil, err
	}

	storeOpts := sqlite.DefaultOptions()
	storeOpts.OpenAttempts = cfg.OpenAttempts
	store := sqlite.New(cfg.DBFile, storeOpts, o.logger)

	deps := app.Collaborators{
		Ready:        o.ready,
		Connectivity: httpAdapter.NewConnectivityProbe(o.httpClient, cfg.ProbeURL, o.logger),
		Notifier:     o.notifier,
		Process:      o.process,
		Storage:      store,
		Session:      store,
		Settings:     store,
		Loading:      o.loading,
		Region:       httpAdapter.NewRegionDetector(o.httpClient, cfg.GeoURL, cfg.ProxyRegions, o.logger),
		Endpoints: endpoint.New(store, o.httpClient, cfg.DefaultEndpoint(), cfg.ProxyEndpoints(),
			endpoint.WithLogger(o.logger),
		),
		Shell: o.shell,
	}
	if deps.Ready == nil {
		deps.Ready = platform.Immediate{}
		if cfg.ReadyFile != "" {
			deps.Ready = platform.NewFileSignal(cfg.ReadyFile, o.logger)
		}
	}
	if deps.Notifier == nil {
		deps.Notifier = console.NewDialog(o.out, o.in, !cfg.NonInteractive)
	}
	if deps.Loading == nil {
		deps.Loading = console.NewSpinner(o.out, "Finding the best Anno server")
	}
	if deps.Process == nil {
		deps.Process = console.NewProcess()
	}
	if deps.Shell == nil {
		deps.Shell = defaultShell(cfg, store, o.logger)
	}

	seqCfg := app.DefaultSequencerConfig()
	seqCfg.StageTimeout = cfg.StageTimeout

	seq, err := app.NewSequencer(deps, launch, seqCfg, o.logger, &eventEmitterWrapper{handler: o.eventHandler})
	if err != nil {
		return nil, err
	}

	return &Bootstrapper{
		config: cfg,
		seq:    seq,
		store:  store,
		status: state.NewFileRepository(cfg.DataDir),
		shell:  deps.Shell,
		logger: o.logger,
	}, nil
}

func defaultShell(cfg Config, store *sqlite.Store, logger log.Logger) AppShell {
	args := strings.Fields(cfg.ShellCommand)
	if len(args) == 0 {
		return shell.Log{Logger: logger}
	}
	return shell.NewCommand(args[0], args[1:], store, logger)
}

// Run executes the startup sequence. Only the first call runs; later calls
// return ErrAlreadyRan. The outcome is recorded in the data directory.
func (b *Bootstrapper) Run(ctx context.Context) (Result, error) {
	res, err := b.seq.Run(ctx)
	if errors.Is(err, domain.ErrAlreadyRan) {
		return res, err
	}
	b.record(context.WithoutCancel(ctx), res)
	return res, err
}

func (b *Bootstrapper) record(ctx context.Context, res Result) {
	prev, err := b.status.Load(ctx)
	if err != nil {
		b.logger.Warn("load last run failed", log.Err(err))
		prev = state.State{}
	}

	finished := time.Now()
	prev.Record(state.State{
		RunID:      res.RunID,
		Stage:      res.Stage.String(),
		Launched:   res.Stage == domain.StageLaunched,
		ServerName: res.Endpoint.Name,
		ServerURL:  res.Endpoint.URL,
		SelectedBy: string(res.SelectedBy),
		StartedAt:  finished.Add(-res.Duration),
		FinishedAt: finished,
		Error:      res.Error,
	})
	if err := b.status.Save(ctx, prev); err != nil {
		b.logger.Warn("save last run failed", log.Err(err))
	}
}

// LastRun returns the record of the most recent run in the data directory.
func (b *Bootstrapper) LastRun(ctx context.Context) (RunRecord, error) {
	return b.status.Load(ctx)
}

// LoadLastRun reads the run record from dataDir without building a
// Bootstrapper.
func LoadLastRun(ctx context.Context, dataDir string) (RunRecord, error) {
	return state.NewFileRepository(dataDir).Load(ctx)
}

// Stage returns the stage the sequence is in.
func (b *Bootstrapper) Stage() Stage {
	return b.seq.Stage()
}

// Config returns the validated configuration.
func (b *Bootstrapper) Config() Config {
	return b.config
}

// Wait blocks until a host program started by the shell exits. It returns
// nil at once when the shell does not run a separate program.
func (b *Bootstrapper) Wait() error {
	c, ok := b.shell.(*shell.Command)
	if !ok {
		return nil
	}
	if err := c.Wait(); err != nil && !errors.Is(err, shell.ErrNotStarted) {
		return err
	}
	return nil
}

// Close releases the local store.
func (b *Bootstrapper) Close() error {
	return b.store.Close()
}
