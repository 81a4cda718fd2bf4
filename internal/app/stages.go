package app

import (
	"fmt"
	"sync"

	"github.com/anno-app/annoboot/internal/domain"
	"github.com/anno-app/annoboot/pkg/log"
)

// EventEmitter is called when the sequence moves to another stage.
type EventEmitter interface {
	OnStageChange(previous, current domain.Stage, reason string)
}

// allowed lists the stages reachable from each stage. Terminal stages have
// no entry.
var allowed = map[domain.Stage][]domain.Stage{
	domain.StageIdle:                 {domain.StageCheckingConnectivity, domain.StageFailed},
	domain.StageCheckingConnectivity: {domain.StageInitializingStorage, domain.StageAborted},
	domain.StageInitializingStorage:  {domain.StageResettingSession, domain.StageFailed},
	domain.StageResettingSession:     {domain.StageResolvingSettings},
	domain.StageResolvingSettings:    {domain.StageSelectingEndpoint, domain.StageLaunching, domain.StageFailed},
	domain.StageSelectingEndpoint:    {domain.StageLaunching, domain.StageFailed},
	domain.StageLaunching:            {domain.StageLaunched, domain.StageFailed},
}

// stageMachine tracks the current stage of a run and validates moves.
type stageMachine struct {
	mu      sync.RWMutex
	stage   domain.Stage
	logger  log.Logger
	emitter EventEmitter
}

func newStageMachine(logger log.Logger, emitter EventEmitter) *stageMachine {
	return &stageMachine{
		stage:   domain.StageIdle,
		logger:  logger,
		emitter: emitter,
	}
}

// Stage returns the current stage.
func (m *stageMachine) Stage() domain.Stage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stage
}

// TransitionTo moves to next if the current stage allows it.
func (m *stageMachine) TransitionTo(next domain.Stage, reason string) error {
	m.mu.Lock()
	prev := m.stage
	if !canMove(prev, next) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, prev, next)
	}
	m.stage = next
	m.mu.Unlock()

	if m.emitter != nil {
		m.emitter.OnStageChange(prev, next, reason)
	}

	m.logger.Info("stage change",
		log.Stringer("from", prev),
		log.Stringer("to", next),
		log.String("reason", reason),
	)
	return nil
}

func canMove(from, to domain.Stage) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}
