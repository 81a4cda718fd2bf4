package cliconfig

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anno-app/annoboot/internal/domain"
)

// Default endpoints used when nothing is configured.
const (
	DefaultServerURL = "https://usersource-anno.appspot.com"
	DefaultProxyURL  = "https://anno-proxy.usersource.cn"
	DefaultProbeURL  = "http://connectivitycheck.gstatic.com/generate_204"
	DefaultGeoURL    = "https://ipapi.co/json/"
	DefaultDBFile    = "anno.db"
)

// Config holds CLI configuration for annoboot.
type Config struct {
	DataDir string
	DBFile  string

	ProbeURL      string
	GeoURL        string
	DefaultServer string
	ProxyServers  []string
	ProxyRegions  []string

	StageTimeout time.Duration
	Timeout      time.Duration
	HTTPTimeout  time.Duration
	OpenAttempts int

	ReadyFile      string
	LaunchConfig   string
	ShellCommand   string
	NonInteractive bool
	LogLevel       string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ProbeURL:      DefaultProbeURL,
		GeoURL:        DefaultGeoURL,
		DefaultServer: DefaultServerURL,
		ProxyServers:  []string{"cn=" + DefaultProxyURL},
		ProxyRegions:  []string{"CN"},
		StageTimeout:  30 * time.Second,
		Timeout:       2 * time.Minute,
		HTTPTimeout:   10 * time.Second,
		OpenAttempts:  3,
		LogLevel:      "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("data-dir is required: %w", err)
		}
		c.DataDir = filepath.Join(h, ".annoboot")
	}

	if c.DBFile == "" {
		c.DBFile = filepath.Join(c.DataDir, DefaultDBFile)
	} else if !filepath.IsAbs(c.DBFile) {
		c.DBFile = filepath.Join(c.DataDir, c.DBFile)
	}

	if c.DefaultServer == "" {
		c.DefaultServer = DefaultServerURL
	}
	c.DefaultServer = strings.TrimSuffix(c.DefaultServer, "/")

	urls := []string{c.ProbeURL, c.GeoURL, c.DefaultServer}
	for _, ep := range c.ProxyEndpoints() {
		urls = append(urls, ep.URL)
	}
	for _, u := range urls {
		if err := checkURL(u); err != nil {
			return err
		}
	}

	for i, r := range c.ProxyRegions {
		c.ProxyRegions[i] = strings.ToUpper(strings.TrimSpace(r))
	}
	// An empty region list falls back to the detector's defaults, so a
	// proxy candidate is always needed.
	if len(c.ProxyServers) == 0 {
		return fmt.Errorf("at least one proxy-server is required for proxy regions")
	}

	if c.StageTimeout < 0 {
		return fmt.Errorf("stage timeout must not be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.OpenAttempts <= 0 {
		c.OpenAttempts = 1
	}

	return nil
}

// DefaultEndpoint returns the endpoint assigned outside proxy regions.
func (c Config) DefaultEndpoint() domain.Endpoint {
	return domain.Endpoint{Name: "default", URL: c.DefaultServer}
}

// ProxyEndpoints returns the proxy candidates in configured order.
// Entries may be given as "name=url"; unnamed entries are numbered.
func (c Config) ProxyEndpoints() []domain.Endpoint {
	eps := make([]domain.Endpoint, 0, len(c.ProxyServers))
	for i, s := range c.ProxyServers {
		name, u, ok := strings.Cut(s, "=")
		if !ok || strings.Contains(name, "://") {
			name, u = "proxy-"+strconv.Itoa(i+1), s
		}
		eps = append(eps, domain.Endpoint{Name: name, URL: strings.TrimSuffix(u, "/")})
	}
	return eps
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q", raw)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings replaces a list if the new one is not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setListFromString splits a comma-separated list.
// Used for environment variables that come as strings.
func (s *configSetter) setListFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	s.setStrings(flag, out, dst)
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
