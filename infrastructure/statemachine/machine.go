// Package statemachine provides the statekit statechart that drives a run
// through its phases.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/kara-go/domain/simulation"
)

// TransitionFunc observes a phase change.
type TransitionFunc func(run *simulation.Run, from, to simulation.Phase, reason string)

// Context carries run state through the state machine.
type Context struct {
	Run          *simulation.Run
	OnTransition TransitionFunc
}

// NewContext creates a new machine context.
func NewContext(run *simulation.Run, onTransition TransitionFunc) *Context {
	return &Context{
		Run:          run,
		OnTransition: onTransition,
	}
}

// State IDs as StateID type for statekit.
const (
	stateIdle      statekit.StateID = statekit.StateID(simulation.PhaseIdle)
	stateCapturing statekit.StateID = statekit.StateID(simulation.PhaseCapturing)
	stateReplaying statekit.StateID = statekit.StateID(simulation.PhaseReplaying)
	stateDone      statekit.StateID = statekit.StateID(simulation.PhaseDone)
	stateFailed    statekit.StateID = statekit.StateID(simulation.PhaseFailed)
)

// Events.
const (
	EventCapture statekit.EventType = "CAPTURE"
	EventReplay  statekit.EventType = "REPLAY"
	EventDone    statekit.EventType = "DONE"
	EventFail    statekit.EventType = "FAIL"
)

// NewRunMachine creates the run statechart:
// idle → capturing → replaying → done, with failed reachable from every
// non-terminal phase.
func NewRunMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("run").
		WithInitial(stateIdle).
		WithContext(&Context{}).
		WithAction("recordTransition", recordTransition).
		WithGuard("canTransition", guardCanTransition).
		State(stateIdle).
			On(EventCapture).Target(stateCapturing).Guard("canTransition").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateCapturing).
			On(EventReplay).Target(stateReplaying).Guard("canTransition").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateReplaying).
			On(EventDone).Target(stateDone).Guard("canTransition").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateDone).
			Final().
			Done().
		State(stateFailed).
			Final().
			Done().
		Build()
}

// EventForPhase returns the event that enters phase.
func EventForPhase(to simulation.Phase) statekit.EventType {
	switch to {
	case simulation.PhaseCapturing:
		return EventCapture
	case simulation.PhaseReplaying:
		return EventReplay
	case simulation.PhaseDone:
		return EventDone
	case simulation.PhaseFailed:
		return EventFail
	default:
		return statekit.EventType(to)
	}
}

// PhaseFromMachine converts the machine state ID to a domain Phase.
func PhaseFromMachine(stateID statekit.StateID) simulation.Phase {
	return simulation.Phase(stateID)
}

// TransitionPayload carries additional data with a transition event.
type TransitionPayload struct {
	From   simulation.Phase
	To     simulation.Phase
	Reason string
}

// recordTransition reports the transition to the context's observer.
// Actions receive a pointer to the context; with *Context that is **Context.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).OnTransition == nil {
		return
	}
	payload, ok := event.Payload.(TransitionPayload)
	if !ok {
		return
	}
	(*ctx).OnTransition((*ctx).Run, payload.From, payload.To, payload.Reason)
}

// guardCanTransition checks the domain transition table.
// Guards receive the context by value, which is *Context here.
func guardCanTransition(ctx *Context, event statekit.Event) bool {
	if ctx == nil || ctx.Run == nil {
		return false
	}
	payload, ok := event.Payload.(TransitionPayload)
	if !ok {
		return false
	}
	return ctx.Run.Phase.CanTransitionTo(payload.To)
}
