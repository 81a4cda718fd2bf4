package domain

import "time"

// Stage is the step a startup run is currently in.
type Stage int

const (
	StageIdle Stage = iota
	StageCheckingConnectivity
	StageInitializingStorage
	StageResettingSession
	StageResolvingSettings
	StageSelectingEndpoint
	StageLaunching
	StageAborted
	StageLaunched
	StageFailed
)

// String returns a human-readable representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageCheckingConnectivity:
		return "CheckingConnectivity"
	case StageInitializingStorage:
		return "InitializingStorage"
	case StageResettingSession:
		return "ResettingSession"
	case StageResolvingSettings:
		return "ResolvingSettings"
	case StageSelectingEndpoint:
		return "SelectingEndpoint"
	case StageLaunching:
		return "Launching"
	case StageAborted:
		return "Aborted"
	case StageLaunched:
		return "Launched"
	case StageFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions leave the stage.
func (s Stage) Terminal() bool {
	return s == StageAborted || s == StageLaunched || s == StageFailed
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Selection records how the endpoint used for the launch was obtained.
type Selection string

const (
	SelectionConfigured Selection = "configured"
	SelectionDefault    Selection = "default"
	SelectionProxy      Selection = "proxy"
)

// Result is the outcome of one startup run.
type Result struct {
	RunID      string        `json:"run_id"`
	Stage      Stage         `json:"stage"`
	Endpoint   Endpoint      `json:"endpoint"`
	SelectedBy Selection     `json:"selected_by,omitempty"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}
