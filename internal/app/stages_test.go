package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/anno-app/annoboot/internal/domain"
	"github.com/anno-app/annoboot/pkg/log"
)

// mockEmitter tracks stage change events for testing.
type mockEmitter struct {
	mu     sync.Mutex
	events []stageChangeEvent
}

type stageChangeEvent struct {
	previous domain.Stage
	current  domain.Stage
	reason   string
}

func (m *mockEmitter) OnStageChange(previous, current domain.Stage, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stageChangeEvent{previous, current, reason})
}

func (m *mockEmitter) Events() []stageChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stageChangeEvent{}, m.events...)
}

func (m *mockEmitter) Stages() []domain.Stage {
	var out []domain.Stage
	for _, e := range m.Events() {
		out = append(out, e.current)
	}
	return out
}

func TestNewStageMachine(t *testing.T) {
	m := newStageMachine(log.NewNoopLogger(), nil)
	if m.Stage() != domain.StageIdle {
		t.Errorf("initial stage = %v, want Idle", m.Stage())
	}
}

func TestStage_String(t *testing.T) {
	tests := []struct {
		stage domain.Stage
		want  string
	}{
		{domain.StageIdle, "Idle"},
		{domain.StageCheckingConnectivity, "CheckingConnectivity"},
		{domain.StageInitializingStorage, "InitializingStorage"},
		{domain.StageResettingSession, "ResettingSession"},
		{domain.StageResolvingSettings, "ResolvingSettings"},
		{domain.StageSelectingEndpoint, "SelectingEndpoint"},
		{domain.StageLaunching, "Launching"},
		{domain.StageAborted, "Aborted"},
		{domain.StageLaunched, "Launched"},
		{domain.StageFailed, "Failed"},
		{domain.Stage(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %s, want %s", tt.stage, got, tt.want)
		}
	}
}

func TestStageMachine_TransitionTo_Valid(t *testing.T) {
	tests := []struct {
		name string
		from domain.Stage
		to   domain.Stage
	}{
		{"idle to connectivity", domain.StageIdle, domain.StageCheckingConnectivity},
		{"idle to failed", domain.StageIdle, domain.StageFailed},
		{"connectivity to storage", domain.StageCheckingConnectivity, domain.StageInitializingStorage},
		{"connectivity to aborted", domain.StageCheckingConnectivity, domain.StageAborted},
		{"storage to session", domain.StageInitializingStorage, domain.StageResettingSession},
		{"storage to failed", domain.StageInitializingStorage, domain.StageFailed},
		{"session to settings", domain.StageResettingSession, domain.StageResolvingSettings},
		{"settings to endpoint", domain.StageResolvingSettings, domain.StageSelectingEndpoint},
		{"settings to launching", domain.StageResolvingSettings, domain.StageLaunching},
		{"endpoint to launching", domain.StageSelectingEndpoint, domain.StageLaunching},
		{"launching to launched", domain.StageLaunching, domain.StageLaunched},
		{"launching to failed", domain.StageLaunching, domain.StageFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newStageMachine(log.NewNoopLogger(), nil)
			m.stage = tt.from

			if err := m.TransitionTo(tt.to, "test"); err != nil {
				t.Fatalf("TransitionTo() error = %v", err)
			}
			if m.Stage() != tt.to {
				t.Errorf("stage = %v after transition, want %v", m.Stage(), tt.to)
			}
		})
	}
}

func TestStageMachine_TransitionTo_Invalid(t *testing.T) {
	tests := []struct {
		name string
		from domain.Stage
		to   domain.Stage
	}{
		{"idle skips connectivity", domain.StageIdle, domain.StageInitializingStorage},
		{"storage cannot abort", domain.StageInitializingStorage, domain.StageAborted},
		{"session cannot fail", domain.StageResettingSession, domain.StageFailed},
		{"settings cannot go back", domain.StageResolvingSettings, domain.StageResettingSession},
		{"endpoint skips launching", domain.StageSelectingEndpoint, domain.StageLaunched},
		{"launched is absorbing", domain.StageLaunched, domain.StageLaunching},
		{"aborted is absorbing", domain.StageAborted, domain.StageCheckingConnectivity},
		{"failed is absorbing", domain.StageFailed, domain.StageIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emitter := &mockEmitter{}
			m := newStageMachine(log.NewNoopLogger(), emitter)
			m.stage = tt.from

			err := m.TransitionTo(tt.to, "test")
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Errorf("TransitionTo() error = %v, want ErrInvalidTransition", err)
			}
			if m.Stage() != tt.from {
				t.Errorf("stage changed to %v on invalid transition, want %v", m.Stage(), tt.from)
			}
			if len(emitter.Events()) != 0 {
				t.Errorf("emitted %d events on invalid transition", len(emitter.Events()))
			}
		})
	}
}

func TestStageMachine_TransitionTo_EmitsEvents(t *testing.T) {
	emitter := &mockEmitter{}
	m := newStageMachine(log.NewNoopLogger(), emitter)

	_ = m.TransitionTo(domain.StageCheckingConnectivity, "platform ready")
	_ = m.TransitionTo(domain.StageAborted, "no connection")

	events := emitter.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].previous != domain.StageIdle || events[0].current != domain.StageCheckingConnectivity {
		t.Errorf("event[0] = %+v", events[0])
	}
	if events[1].reason != "no connection" {
		t.Errorf("event[1].reason = %q, want %q", events[1].reason, "no connection")
	}
}

func TestStage_Terminal(t *testing.T) {
	for s := domain.StageIdle; s <= domain.StageFailed; s++ {
		want := s == domain.StageAborted || s == domain.StageLaunched || s == domain.StageFailed
		if got := s.Terminal(); got != want {
			t.Errorf("%v.Terminal() = %v, want %v", s, got, want)
		}
		if want && len(allowed[s]) != 0 {
			t.Errorf("terminal stage %v has outgoing transitions", s)
		}
	}
}
