package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/kara-go/domain/simulation"
)

// Interpreter wraps the statekit interpreter and keeps the run's phase in
// step with the machine.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates an interpreter for run, already started in idle.
func NewInterpreter(run *simulation.Run, onTransition TransitionFunc) (*Interpreter, error) {
	machine, err := NewRunMachine()
	if err != nil {
		return nil, fmt.Errorf("build run machine: %w", err)
	}

	ctx := NewContext(run, onTransition)
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	interp.Start()

	return &Interpreter{interp: interp, ctx: ctx}, nil
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Phase returns the machine's current phase.
func (i *Interpreter) Phase() simulation.Phase {
	return PhaseFromMachine(i.interp.State().Value)
}

// Transition moves the run to phase to.
func (i *Interpreter) Transition(to simulation.Phase, reason string) error {
	from := i.ctx.Run.Phase
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s to %s", simulation.ErrInvalidPhaseTransition, from, to)
	}

	i.interp.Send(statekit.Event{
		Type:    EventForPhase(to),
		Payload: TransitionPayload{From: from, To: to, Reason: reason},
	})

	if got := i.Phase(); got != to {
		return fmt.Errorf("%w: machine stayed in %s, wanted %s", simulation.ErrInvalidPhaseTransition, got, to)
	}
	return i.ctx.Run.TransitionTo(to)
}

// Fail moves the run to failed and records err.
func (i *Interpreter) Fail(err error) error {
	if i.ctx.Run.Phase.IsTerminal() {
		return fmt.Errorf("%w: run already %s", simulation.ErrInvalidPhaseTransition, i.ctx.Run.Phase)
	}
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	if terr := i.Transition(simulation.PhaseFailed, reason); terr != nil {
		return terr
	}
	i.ctx.Run.Fail(err)
	return nil
}

// IsTerminal returns true if the interpreter is in a terminal state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Matches checks if the current state matches the given phase.
func (i *Interpreter) Matches(p simulation.Phase) bool {
	return i.interp.Matches(statekit.StateID(p))
}

// Run returns the run the interpreter drives.
func (i *Interpreter) Run() *simulation.Run {
	return i.ctx.Run
}
