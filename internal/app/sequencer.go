package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/anno-app/annoboot/internal/domain"
	"github.com/anno-app/annoboot/internal/ports"
	"github.com/anno-app/annoboot/pkg/log"
)

// Process exit codes used by the sequence.
const (
	ExitStartupFailure = 1
	ExitNoConnectivity = 2
)

// Messages shown to the user before the process exits.
const (
	DefaultNoConnectionMessage   = "Please sign-up/sign-in when there is a connection."
	DefaultStartupFailureMessage = "Anno could not start. Please try again later."
)

// DefaultStageTimeout bounds the storage, settings and region stages.
const DefaultStageTimeout = 30 * time.Second

// Collaborators are the ports the sequencer drives. All fields are required.
type Collaborators struct {
	Ready        ports.PlatformReady
	Connectivity ports.ConnectivityProbe
	Notifier     ports.Notifier
	Process      ports.ProcessControl
	Storage      ports.StorageEngine
	Session      ports.SessionStore
	Settings     ports.SettingsStore
	Loading      ports.LoadingIndicator
	Region       ports.RegionDetector
	Endpoints    ports.EndpointConfigurator
	Shell        ports.AppShell
}

func (c Collaborators) validate() error {
	missing := func(name string) error {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidConfig, name)
	}
	switch {
	case c.Ready == nil:
		return missing("platform ready signal")
	case c.Connectivity == nil:
		return missing("connectivity probe")
	case c.Notifier == nil:
		return missing("notifier")
	case c.Process == nil:
		return missing("process control")
	case c.Storage == nil:
		return missing("storage engine")
	case c.Session == nil:
		return missing("session store")
	case c.Settings == nil:
		return missing("settings store")
	case c.Loading == nil:
		return missing("loading indicator")
	case c.Region == nil:
		return missing("region detector")
	case c.Endpoints == nil:
		return missing("endpoint configurator")
	case c.Shell == nil:
		return missing("app shell")
	}
	return nil
}

// SequencerConfig tunes the sequence.
type SequencerConfig struct {
	// StageTimeout bounds storage init, settings read and region detection.
	// Zero or negative disables the bound.
	StageTimeout time.Duration

	NoConnectionMessage   string
	StartupFailureMessage string
}

// DefaultSequencerConfig returns the configuration used by the CLI.
func DefaultSequencerConfig() SequencerConfig {
	return SequencerConfig{
		StageTimeout:          DefaultStageTimeout,
		NoConnectionMessage:   DefaultNoConnectionMessage,
		StartupFailureMessage: DefaultStartupFailureMessage,
	}
}

// Sequencer runs the startup sequence once per process.
type Sequencer struct {
	deps    Collaborators
	launch  domain.LaunchConfig
	cfg     SequencerConfig
	logger  log.Logger
	stages  *stageMachine
	ran     atomic.Bool
	newUUID func() string
}

// NewSequencer creates a sequencer that will hand launch to the shell.
// Returns an error if a collaborator is missing.
func NewSequencer(deps Collaborators, launch domain.LaunchConfig, cfg SequencerConfig, logger log.Logger, emitter EventEmitter) (*Sequencer, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if cfg.NoConnectionMessage == "" {
		cfg.NoConnectionMessage = DefaultNoConnectionMessage
	}
	if cfg.StartupFailureMessage == "" {
		cfg.StartupFailureMessage = DefaultStartupFailureMessage
	}
	return &Sequencer{
		deps:    deps,
		launch:  launch,
		cfg:     cfg,
		logger:  logger,
		stages:  newStageMachine(logger, emitter),
		newUUID: uuid.NewString,
	}, nil
}

// Stage returns the stage the sequence is in.
func (s *Sequencer) Stage() domain.Stage {
	return s.stages.Stage()
}

// Run executes the sequence. It returns ErrAlreadyRan on every call after
// the first, so the shell is launched at most once.
func (s *Sequencer) Run(ctx context.Context) (domain.Result, error) {
	if !s.ran.CompareAndSwap(false, true) {
		return domain.Result{}, domain.ErrAlreadyRan
	}

	start := time.Now()
	res := domain.Result{RunID: s.newUUID()}
	r := &run{
		Sequencer: s,
		logger:    log.With(s.logger, log.String("run_id", res.RunID)),
		res:       &res,
	}
	r.logger.Info("startup sequence begins")

	err := r.execute(ctx)

	res.Stage = s.stages.Stage()
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err.Error()
		r.logger.Error("startup sequence ended", log.Stringer("stage", res.Stage), log.Err(err))
	} else {
		r.logger.Info("startup sequence ended",
			log.Stringer("stage", res.Stage),
			log.String("server_url", res.Endpoint.URL),
			log.Duration("duration", res.Duration),
		)
	}
	return res, err
}

// run holds the per-run state.
type run struct {
	*Sequencer
	logger        log.Logger
	res           *domain.Result
	loadingShown  bool
	launchInvoked bool
}

func (r *run) execute(ctx context.Context) error {
	defer r.hideLoading()

	if err := r.deps.Ready.Wait(ctx); err != nil {
		_ = r.stages.TransitionTo(domain.StageFailed, "platform ready wait ended")
		return fmt.Errorf("wait for platform: %w", err)
	}
	if err := r.stages.TransitionTo(domain.StageCheckingConnectivity, "platform ready"); err != nil {
		return err
	}

	if !r.deps.Connectivity.HasConnection(ctx) {
		return r.abort(ctx)
	}

	if err := r.stages.TransitionTo(domain.StageInitializingStorage, "connection present"); err != nil {
		return err
	}
	if _, err := bounded(ctx, r.cfg.StageTimeout, "storage init", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.deps.Storage.InitDB(ctx)
	}); err != nil {
		return r.fail(ctx, fmt.Errorf("%w: %w", domain.ErrStorageInit, err))
	}

	if err := r.stages.TransitionTo(domain.StageResettingSession, "storage ready"); err != nil {
		return err
	}
	if err := r.deps.Session.RemoveUser(ctx); err != nil {
		r.logger.Warn("clear cached user failed", log.Err(err))
	}

	if err := r.stages.TransitionTo(domain.StageResolvingSettings, "session cleared"); err != nil {
		return err
	}
	settings, err := bounded(ctx, r.cfg.StageTimeout, "settings read", r.deps.Settings.ReadSettings)
	if err != nil {
		return r.fail(ctx, fmt.Errorf("%w: %w", domain.ErrSettingsRead, err))
	}

	if settings.Configured() {
		r.res.Endpoint = domain.Endpoint{Name: settings.ServerID, URL: settings.ServerURL}
		r.res.SelectedBy = domain.SelectionConfigured
		if err := r.stages.TransitionTo(domain.StageLaunching, "server already configured"); err != nil {
			return err
		}
		return r.launchShell(ctx)
	}

	if err := r.stages.TransitionTo(domain.StageSelectingEndpoint, "no server configured"); err != nil {
		return err
	}
	if err := r.selectEndpoint(ctx); err != nil {
		_ = r.stages.TransitionTo(domain.StageFailed, err.Error())
		return err
	}
	if err := r.stages.TransitionTo(domain.StageLaunching, "server selected"); err != nil {
		return err
	}
	return r.launchShell(ctx)
}

// abort shows the no-connection message and terminates the process.
func (r *run) abort(ctx context.Context) error {
	if err := r.stages.TransitionTo(domain.StageAborted, "no connection"); err != nil {
		return err
	}
	r.logger.Warn("no network connection, exiting")
	if err := r.deps.Notifier.ShowMessage(context.WithoutCancel(ctx), r.cfg.NoConnectionMessage); err != nil {
		r.logger.Warn("show message failed", log.Err(err))
	}
	r.deps.Process.Exit(ExitNoConnectivity)
	return domain.ErrNoConnectivity
}

// fail tells the user startup failed and terminates the process.
func (r *run) fail(ctx context.Context, cause error) error {
	if err := r.stages.TransitionTo(domain.StageFailed, cause.Error()); err != nil {
		return err
	}
	if err := r.deps.Notifier.ShowMessage(context.WithoutCancel(ctx), r.cfg.StartupFailureMessage); err != nil {
		r.logger.Warn("show message failed", log.Err(err))
	}
	r.deps.Process.Exit(ExitStartupFailure)
	return cause
}

// selectEndpoint assigns the proxy or default server depending on region.
// A region detection failure falls back to the default server. The
// assignment finishes before the caller launches the shell.
func (r *run) selectEndpoint(ctx context.Context) error {
	r.deps.Loading.Show()
	r.loadingShown = true

	requiresProxy, err := bounded(ctx, r.cfg.StageTimeout, "region detection", r.deps.Region.RequiresProxy)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("select endpoint: %w", ctx.Err())
		}
		r.logger.Warn("region detection failed, using default server", log.Err(err))
		requiresProxy = false
	}

	var ep domain.Endpoint
	if requiresProxy {
		r.res.SelectedBy = domain.SelectionProxy
		ep, err = r.deps.Endpoints.ChooseProxyServer(ctx)
	} else {
		r.res.SelectedBy = domain.SelectionDefault
		ep, err = r.deps.Endpoints.SetDefaultServer(ctx)
	}
	if err != nil {
		r.logger.Error("assign server failed", log.Bool("proxy", requiresProxy), log.Err(err))
	}
	r.res.Endpoint = ep
	if ep.IsZero() {
		r.logger.Warn("no server assigned, launching without one", log.Bool("proxy", requiresProxy))
		return nil
	}
	r.logger.Info("server assigned",
		log.Bool("proxy", requiresProxy),
		log.String("server", ep.Name),
		log.String("server_url", ep.URL),
	)
	return nil
}

// launchShell invokes the shell. It is reached at most once per run.
func (r *run) launchShell(ctx context.Context) error {
	if r.launchInvoked {
		return domain.ErrAlreadyRan
	}
	r.launchInvoked = true

	err := r.deps.Shell.Launch(ctx, r.launch)
	r.hideLoading()
	if err != nil {
		_ = r.stages.TransitionTo(domain.StageFailed, "shell launch failed")
		return fmt.Errorf("%w: %w", domain.ErrLaunch, err)
	}
	return r.stages.TransitionTo(domain.StageLaunched, "shell launched")
}

func (r *run) hideLoading() {
	if r.loadingShown {
		r.deps.Loading.Hide()
		r.loadingShown = false
	}
}

// bounded runs fn with a deadline of timeout. It returns ErrStageTimeout
// when the deadline passes, even if fn ignores its context; the late result
// is discarded.
func bounded[T any](ctx context.Context, timeout time.Duration, stage string, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}

	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(sctx)
		done <- result{v, err}
	}()

	var zero T
	select {
	case res := <-done:
		if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return zero, fmt.Errorf("%w: %s after %s", domain.ErrStageTimeout, stage, timeout)
		}
		return res.v, res.err
	case <-sctx.Done():
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w: %s after %s", domain.ErrStageTimeout, stage, timeout)
	}
}
