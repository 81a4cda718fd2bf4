package domain

import "errors"

// Domain errors represent the failure kinds of a startup run.
// They are returned by the public API and can be checked with errors.Is.
var (
	// ErrNoConnectivity is returned when the device has no network connection.
	// It is the only abort path of the sequence.
	ErrNoConnectivity = errors.New("annoboot: no network connection")

	// ErrStorageInit is returned when the local store could not be opened.
	ErrStorageInit = errors.New("annoboot: storage initialization failed")

	// ErrSettingsRead is returned when persisted settings could not be read.
	ErrSettingsRead = errors.New("annoboot: settings read failed")

	// ErrStageTimeout is returned when a collaborator did not answer in time.
	ErrStageTimeout = errors.New("annoboot: stage timeout")

	// ErrLaunch is returned when the application shell failed to start.
	ErrLaunch = errors.New("annoboot: launch failed")

	// ErrAlreadyRan is returned when Run is called more than once.
	ErrAlreadyRan = errors.New("annoboot: sequence already ran")

	// ErrInvalidTransition is returned on a stage change the sequence does not allow.
	ErrInvalidTransition = errors.New("annoboot: invalid stage transition")

	// ErrNoProxyServers is returned when a proxy is required but none is configured.
	ErrNoProxyServers = errors.New("annoboot: no proxy servers configured")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("annoboot: invalid configuration")
)
