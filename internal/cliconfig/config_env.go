package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (ANNOBOOT_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data-dir", os.Getenv("ANNOBOOT_DATA_DIR"), &cfg.DataDir)
	s.setString("db-file", os.Getenv("ANNOBOOT_DB_FILE"), &cfg.DBFile)
	s.setString("probe-url", os.Getenv("ANNOBOOT_PROBE_URL"), &cfg.ProbeURL)
	s.setString("geo-url", os.Getenv("ANNOBOOT_GEO_URL"), &cfg.GeoURL)
	s.setString("default-server", os.Getenv("ANNOBOOT_DEFAULT_SERVER"), &cfg.DefaultServer)
	s.setString("ready-file", os.Getenv("ANNOBOOT_READY_FILE"), &cfg.ReadyFile)
	s.setString("launch-config", os.Getenv("ANNOBOOT_LAUNCH_CONFIG"), &cfg.LaunchConfig)
	s.setString("shell-command", os.Getenv("ANNOBOOT_SHELL_COMMAND"), &cfg.ShellCommand)
	s.setString("log-level", os.Getenv("ANNOBOOT_LOG_LEVEL"), &cfg.LogLevel)

	s.setListFromString("proxy-server", os.Getenv("ANNOBOOT_PROXY_SERVERS"), &cfg.ProxyServers)
	s.setListFromString("proxy-regions", os.Getenv("ANNOBOOT_PROXY_REGIONS"), &cfg.ProxyRegions)

	if err := s.setDuration("stage-timeout", os.Getenv("ANNOBOOT_STAGE_TIMEOUT"), &cfg.StageTimeout); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("ANNOBOOT_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", os.Getenv("ANNOBOOT_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("open-attempts", os.Getenv("ANNOBOOT_OPEN_ATTEMPTS"), &cfg.OpenAttempts); err != nil {
		return err
	}

	s.setBoolFromString("non-interactive", os.Getenv("ANNOBOOT_NON_INTERACTIVE"), &cfg.NonInteractive)

	return nil
}
