package annoboot

import "github.com/anno-app/annoboot/internal/domain"

// Stage is the step a startup run is in.
type Stage = domain.Stage

// Stages reported in events and results.
const (
	StageIdle                 = domain.StageIdle
	StageCheckingConnectivity = domain.StageCheckingConnectivity
	StageInitializingStorage  = domain.StageInitializingStorage
	StageResettingSession     = domain.StageResettingSession
	StageResolvingSettings    = domain.StageResolvingSettings
	StageSelectingEndpoint    = domain.StageSelectingEndpoint
	StageLaunching            = domain.StageLaunching
	StageAborted              = domain.StageAborted
	StageLaunched             = domain.StageLaunched
	StageFailed               = domain.StageFailed
)

// StageChangeEvent describes one transition of the sequence.
type StageChangeEvent struct {
	Previous Stage
	Current  Stage
	Reason   string
}

// EventHandler receives stage changes. Called synchronously from Run.
type EventHandler interface {
	OnStageChange(StageChangeEvent)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(StageChangeEvent)

// OnStageChange calls f.
func (f EventHandlerFunc) OnStageChange(e StageChangeEvent) { f(e) }

// eventEmitterWrapper adapts EventHandler to the internal emitter interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStageChange(previous, current domain.Stage, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStageChange(StageChangeEvent{
		Previous: previous,
		Current:  current,
		Reason:   reason,
	})
}
