package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/anno-app/annoboot/internal/cliconfig"
	"github.com/anno-app/annoboot/pkg/annoboot"
	"github.com/anno-app/annoboot/pkg/log"
)

const helpDescription = `
Run the Anno startup sequence once and hand control to the application.

Steps:
  - Wait for the platform to be ready, then check for a network connection.
  - Bring the local store online and sign out any cached user.
  - Use the saved server, or pick the default or a proxy server by region.
  - Launch the application shell with the bundled launch configuration.

The outcome is printed to stdout as JSON.
`

var exampleUsage = strings.TrimSpace(`
  annoboot --data-dir ~/.annoboot --shell-command "/usr/local/bin/anno-host"
  annoboot --proxy-server hk=https://hk.anno.example.com --proxy-regions CN,HK
  annoboot --config $HOME/.annoboot/config.toml --non-interactive
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// exitRecorder defers the process exit requested by the sequence until the
// result has been written.
type exitRecorder struct {
	code int
	set  bool
}

func (e *exitRecorder) Exit(code int) {
	if !e.set {
		e.code, e.set = code, true
	}
}

// resolveConfig layers the config file and ANNOBOOT_* environment under the
// flags set on cmd.
func resolveConfig(cmd *cobra.Command, cfgPath string, cfg *cliconfig.Config) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	// Environment overrides the file; explicit flags override both.
	return cliconfig.ApplyEnvConfig(cfg, changed)
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	exit := &exitRecorder{}

	logger := log.NewZerologAdapter(os.Stderr, zerolog.InfoLevel)

	root := &cobra.Command{
		Use:           "annoboot",
		Short:         "Start the Anno application",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, cfgPath, &cfg); err != nil {
				return err
			}

			logger = log.NewZerologAdapter(os.Stderr, log.ParseLevel(cfg.LogLevel))

			b, err := annoboot.New(cfg,
				annoboot.WithLogger(logger),
				annoboot.WithProcessControl(exit),
				annoboot.WithIO(os.Stdin, os.Stderr),
			)
			if err != nil {
				return fmt.Errorf("create bootstrapper: %w", err)
			}
			defer b.Close()

			zl := logger.Logger()
			zl.Debug().Interface("config", b.Config()).Msg("configuration")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()

			res, runErr := b.Run(ctx)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("write result: %w", err)
			}

			if exit.set {
				// The sequence already told the user; the exit code says why.
				return nil
			}
			if runErr != nil {
				return runErr
			}
			return b.Wait()
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.annoboot/config.toml)")
	root.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the local store (default: $HOME/.annoboot)")
	root.Flags().StringVar(&cfg.DBFile, "db-file", cfg.DBFile, "SQLite database file, relative to data-dir")

	root.Flags().StringVar(&cfg.ProbeURL, "probe-url", cfg.ProbeURL, "URL used to check for a network connection")
	root.Flags().StringVar(&cfg.GeoURL, "geo-url", cfg.GeoURL, "geo-IP URL returning JSON with country_code")
	root.Flags().StringVar(&cfg.DefaultServer, "default-server", cfg.DefaultServer, "server assigned outside proxy regions")
	root.Flags().StringArrayVar(&cfg.ProxyServers, "proxy-server", cfg.ProxyServers, "proxy server candidate as url or name=url (repeatable)")
	root.Flags().StringSliceVar(&cfg.ProxyRegions, "proxy-regions", cfg.ProxyRegions, "country codes that require a proxy server")

	root.Flags().DurationVar(&cfg.StageTimeout, "stage-timeout", cfg.StageTimeout, "bound for storage, settings and region stages (0 disables)")
	root.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "bound for the whole sequence")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "HTTP timeout")
	root.Flags().IntVar(&cfg.OpenAttempts, "open-attempts", cfg.OpenAttempts, "attempts to open the local store")
	if err := root.Flags().MarkHidden("open-attempts"); err != nil {
		logger.Info("failed to hide open-attempts flag", log.Err(err))
	}

	root.Flags().StringVar(&cfg.ReadyFile, "ready-file", cfg.ReadyFile, "wait for this file to exist before starting")
	root.Flags().StringVar(&cfg.LaunchConfig, "launch-config", cfg.LaunchConfig, "launch configuration TOML (default: bundled)")
	root.Flags().StringVar(&cfg.ShellCommand, "shell-command", cfg.ShellCommand, "host program to launch (default: dry run)")
	root.Flags().BoolVar(&cfg.NonInteractive, "non-interactive", cfg.NonInteractive, "do not wait for Enter on messages")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the outcome of the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, cfgPath, &cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			last, err := annoboot.LoadLastRun(cmd.Context(), cfg.DataDir)
			if err != nil {
				return fmt.Errorf("load last run: %w", err)
			}
			if last.IsEmpty() {
				return fmt.Errorf("no run recorded in %s", cfg.DataDir)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(last)
		},
	})

	if err := root.Execute(); err != nil {
		logger.Error("annoboot", log.Err(err))
		os.Exit(annoboot.ExitStartupFailure)
	}
	if exit.set {
		os.Exit(exit.code)
	}
}
