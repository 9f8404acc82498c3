package simulation

import (
	"context"
	"time"

	"github.com/felixgeelhaar/kara-go/domain/agent"
)

// Stepper slows a controller down for watching. Sensors pass through; every
// mutator first waits for the step delay and then applies the action.
//
// Stepper carries the context of the replay it belongs to, since the
// controller methods take none. Cancelling it aborts the pending action.
type Stepper struct {
	ctx    context.Context
	target agent.Controller
	delay  time.Duration
}

var _ agent.Controller = (*Stepper)(nil)

// NewStepper wraps target, pausing delay before each action.
func NewStepper(ctx context.Context, target agent.Controller, delay time.Duration) *Stepper {
	if delay < 0 {
		delay = 0
	}
	return &Stepper{ctx: ctx, target: target, delay: delay}
}

// Delay returns the pause before each action.
func (s *Stepper) Delay() time.Duration { return s.delay }

// IsTreeAhead implements agent.Sensors.
func (s *Stepper) IsTreeAhead() bool { return s.target.IsTreeAhead() }

// IsTreeLeft implements agent.Sensors.
func (s *Stepper) IsTreeLeft() bool { return s.target.IsTreeLeft() }

// IsTreeRight implements agent.Sensors.
func (s *Stepper) IsTreeRight() bool { return s.target.IsTreeRight() }

// IsGoalAhead implements agent.Sensors.
func (s *Stepper) IsGoalAhead() bool { return s.target.IsGoalAhead() }

// IsOnMarker implements agent.Sensors.
func (s *Stepper) IsOnMarker() bool { return s.target.IsOnMarker() }

// Move implements agent.Actuators.
func (s *Stepper) Move() error { return s.step(agent.ActionMove) }

// TurnLeft implements agent.Actuators.
func (s *Stepper) TurnLeft() error { return s.step(agent.ActionTurnLeft) }

// TurnRight implements agent.Actuators.
func (s *Stepper) TurnRight() error { return s.step(agent.ActionTurnRight) }

// PlaceMarker implements agent.Actuators.
func (s *Stepper) PlaceMarker() error { return s.step(agent.ActionPlaceMarker) }

// RemoveMarker implements agent.Actuators.
func (s *Stepper) RemoveMarker() error { return s.step(agent.ActionRemoveMarker) }

func (s *Stepper) step(a agent.Action) error {
	if err := s.wait(); err != nil {
		return err
	}
	return a.Apply(s.target)
}

// wait blocks for the delay or until the context is done.
func (s *Stepper) wait() error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	if s.delay == 0 {
		return nil
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	case <-timer.C:
		return nil
	}
}
