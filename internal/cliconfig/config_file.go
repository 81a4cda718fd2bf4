package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	DataDir        string   `toml:"data_dir"`
	DBFile         string   `toml:"db_file"`
	ProbeURL       string   `toml:"probe_url"`
	GeoURL         string   `toml:"geo_url"`
	DefaultServer  string   `toml:"default_server"`
	ProxyServers   []string `toml:"proxy_servers"`
	ProxyRegions   []string `toml:"proxy_regions"`
	StageTimeout   string   `toml:"stage_timeout"`
	Timeout        string   `toml:"timeout"`
	HTTPTimeout    string   `toml:"http_timeout"`
	OpenAttempts   int      `toml:"open_attempts"`
	ReadyFile      string   `toml:"ready_file"`
	LaunchConfig   string   `toml:"launch_config"`
	ShellCommand   string   `toml:"shell_command"`
	NonInteractive *bool    `toml:"non_interactive"`
	LogLevel       string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.annoboot/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".annoboot", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data-dir", fc.DataDir, &cfg.DataDir)
	s.setString("db-file", fc.DBFile, &cfg.DBFile)
	s.setString("probe-url", fc.ProbeURL, &cfg.ProbeURL)
	s.setString("geo-url", fc.GeoURL, &cfg.GeoURL)
	s.setString("default-server", fc.DefaultServer, &cfg.DefaultServer)
	s.setString("ready-file", fc.ReadyFile, &cfg.ReadyFile)
	s.setString("launch-config", fc.LaunchConfig, &cfg.LaunchConfig)
	s.setString("shell-command", fc.ShellCommand, &cfg.ShellCommand)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setStrings("proxy-server", fc.ProxyServers, &cfg.ProxyServers)
	s.setStrings("proxy-regions", fc.ProxyRegions, &cfg.ProxyRegions)

	if err := s.setDuration("stage-timeout", fc.StageTimeout, &cfg.StageTimeout); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setInt("open-attempts", fc.OpenAttempts, &cfg.OpenAttempts)
	s.setBool("non-interactive", fc.NonInteractive, &cfg.NonInteractive)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
