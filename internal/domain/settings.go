package domain

import "time"

// Settings is the persisted application configuration.
// It is written by earlier runs and setup flows and read once per launch.
type Settings struct {
	// ServerURL is the configured server endpoint; empty means unset.
	ServerURL string

	// ServerID names the endpoint ServerURL was taken from.
	ServerID string

	// UpdatedAt is when the endpoint was last assigned.
	UpdatedAt time.Time
}

// Configured reports whether a server endpoint has already been assigned.
func (s Settings) Configured() bool {
	return s.ServerURL != ""
}

// Endpoint is a named server the application can talk to.
type Endpoint struct {
	Name string `toml:"name" json:"name"`
	URL  string `toml:"url" json:"url"`
}

// IsZero reports whether the endpoint is unset.
func (e Endpoint) IsZero() bool {
	return e.URL == ""
}

// User is the cached signed-in user. Every launch discards it.
type User struct {
	ID          string
	Email       string
	DisplayName string
}
