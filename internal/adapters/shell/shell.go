// Package shell hands control from the startup sequence to the application.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/anno-app/annoboot/internal/domain"
	"github.com/anno-app/annoboot/internal/ports"
	"github.com/anno-app/annoboot/pkg/log"
)

// ServerURLEnv carries the assigned server endpoint to the host program.
const ServerURLEnv = "ANNO_SERVER_URL"

// ErrNotStarted is returned by Wait before a successful Launch.
var ErrNotStarted = errors.New("shell: host not started")

// Func adapts a function to ports.AppShell.
type Func func(ctx context.Context, cfg domain.LaunchConfig) error

// Launch calls f.
func (f Func) Launch(ctx context.Context, cfg domain.LaunchConfig) error {
	return f(ctx, cfg)
}

// Log is a dry-run shell that only logs what would be launched.
type Log struct {
	Logger log.Logger
}

// Launch logs the top-level keys of cfg.
func (l Log) Launch(ctx context.Context, cfg domain.LaunchConfig) error {
	keys := make([]string, 0, len(cfg.Values))
	for k := range cfg.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	logger := l.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	logger.Info("launch (dry run)", log.Any("config_keys", keys), log.Int("config_bytes", len(cfg.Raw)))
	return nil
}

// Command starts a host program with the launch configuration on stdin as
// TOML and the assigned server URL in its environment.
type Command struct {
	path     string
	args     []string
	settings ports.SettingsStore
	stdout   io.Writer
	stderr   io.Writer
	logger   log.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewCommand creates a Command. settings may be nil, in which case no server
// URL is exported.
func NewCommand(path string, args []string, settings ports.SettingsStore, logger log.Logger) *Command {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Command{
		path:     path,
		args:     append([]string(nil), args...),
		settings: settings,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		logger:   logger,
	}
}

// SetOutput redirects the host program's stdout and stderr.
func (c *Command) SetOutput(stdout, stderr io.Writer) {
	c.stdout, c.stderr = stdout, stderr
}

// Launch starts the host program and returns once it is running.
func (c *Command) Launch(ctx context.Context, cfg domain.LaunchConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd != nil {
		return fmt.Errorf("shell: %s already started", c.path)
	}

	stdin, err := encode(cfg)
	if err != nil {
		return err
	}

	cmd := exec.Command(c.path, c.args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	cmd.Env = os.Environ()

	if c.settings != nil {
		st, err := c.settings.ReadSettings(ctx)
		if err != nil {
			return fmt.Errorf("read settings for launch: %w", err)
		}
		if st.Configured() {
			cmd.Env = append(cmd.Env, ServerURLEnv+"="+st.ServerURL)
		}
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", c.path, err)
	}
	c.cmd = cmd
	c.logger.Info("application started", log.String("path", c.path), log.Int("pid", cmd.Process.Pid))
	return nil
}

// Wait blocks until the host program exits.
func (c *Command) Wait() error {
	c.mu.Lock()
	cmd := c.cmd
	c.mu.Unlock()

	if cmd == nil {
		return ErrNotStarted
	}
	return cmd.Wait()
}

func encode(cfg domain.LaunchConfig) ([]byte, error) {
	if len(cfg.Values) == 0 {
		return cfg.Raw, nil
	}
	b, err := toml.Marshal(cfg.Values)
	if err != nil {
		return nil, fmt.Errorf("encode launch config: %w", err)
	}
	return b, nil
}

var (
	_ ports.AppShell = Func(nil)
	_ ports.AppShell = Log{}
	_ ports.AppShell = (*Command)(nil)
)
