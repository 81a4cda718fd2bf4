// Package domain contains the core entities and value objects of the Anno
// startup sequence.
//
// This package has no dependencies on infrastructure concerns (SQLite, HTTP,
// terminal UI, logging) and contains only the types the sequencer reasons about.
//
// # Entities
//
//   - [Settings]: persisted application settings, read once per launch
//   - [Endpoint]: a named server the application can talk to
//   - [User]: the cached signed-in user cleared on every launch
//   - [LaunchConfig]: the opaque application shell configuration
//   - [Stage]: the current step of a startup run
//   - [Result]: the outcome of a startup run
package domain
