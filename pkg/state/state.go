package state

import "time"

// State is the persisted record of the most recent startup run.
type State struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`

	// Stage is the stage the run ended in.
	Stage string `json:"stage"`

	// Launched reports whether the application shell was started.
	Launched bool `json:"launched"`

	ServerName string `json:"server_name,omitempty"`
	ServerURL  string `json:"server_url,omitempty"`
	SelectedBy string `json:"selected_by,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Error string `json:"error,omitempty"`

	// Launches counts successful launches across runs.
	Launches int `json:"launches"`
}

// IsEmpty returns true if no run has been recorded.
func (s State) IsEmpty() bool {
	return s.RunID == ""
}

// Duration returns how long the recorded run took.
func (s State) Duration() time.Duration {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Record replaces s with the run in next, carrying the launch count forward.
func (s *State) Record(next State) {
	launches := s.Launches
	if next.Launched {
		launches++
	}
	*s = next
	s.Launches = launches
}
