package simulation

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/kara-go/domain/agent"
)

// Recorder captures the actions a routine issues. It wraps a controller bound
// to a private copy of the world: sensors pass through, and every mutator is
// appended to the log before it is applied.
//
// The first failure is sticky. Once a mutator fails, later mutators return
// the same error without recording anything.
type Recorder struct {
	mu     sync.Mutex
	target agent.Controller
	max    int
	log    Log
	err    error
}

var _ agent.Controller = (*Recorder)(nil)

// NewRecorder wraps target with a log bounded by maxActions.
// A bound below one uses DefaultMaxActions.
func NewRecorder(target agent.Controller, maxActions int) *Recorder {
	if maxActions < 1 {
		maxActions = DefaultMaxActions
	}
	return &Recorder{
		target: target,
		max:    maxActions,
		log:    make(Log, 0, maxActions),
	}
}

// IsTreeAhead implements agent.Sensors.
func (r *Recorder) IsTreeAhead() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target.IsTreeAhead()
}

// IsTreeLeft implements agent.Sensors.
func (r *Recorder) IsTreeLeft() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target.IsTreeLeft()
}

// IsTreeRight implements agent.Sensors.
func (r *Recorder) IsTreeRight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target.IsTreeRight()
}

// IsGoalAhead implements agent.Sensors.
func (r *Recorder) IsGoalAhead() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target.IsGoalAhead()
}

// IsOnMarker implements agent.Sensors.
func (r *Recorder) IsOnMarker() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target.IsOnMarker()
}

// Move implements agent.Actuators.
func (r *Recorder) Move() error { return r.record(agent.ActionMove) }

// TurnLeft implements agent.Actuators.
func (r *Recorder) TurnLeft() error { return r.record(agent.ActionTurnLeft) }

// TurnRight implements agent.Actuators.
func (r *Recorder) TurnRight() error { return r.record(agent.ActionTurnRight) }

// PlaceMarker implements agent.Actuators.
func (r *Recorder) PlaceMarker() error { return r.record(agent.ActionPlaceMarker) }

// RemoveMarker implements agent.Actuators.
func (r *Recorder) RemoveMarker() error { return r.record(agent.ActionRemoveMarker) }

// record appends a and applies it, atomically.
func (r *Recorder) record(a agent.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	if len(r.log) >= r.max {
		r.err = fmt.Errorf("%w: %s would exceed %d actions", ErrLogOverflow, a, r.max)
		return r.err
	}

	r.log = append(r.log, a)
	if err := a.Apply(r.target); err != nil {
		r.err = err
		return err
	}
	return nil
}

// Actions returns a copy of the log.
func (r *Recorder) Actions() Log {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(Log, len(r.log))
	copy(out, r.log)
	return out
}

// Len returns the number of recorded actions.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.log)
}

// Err returns the sticky failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
