package simulation

// Phase is the stage a run is in. Phases are identified by stable strings.
type Phase string

const (
	PhaseIdle      Phase = "idle"      // Not yet started
	PhaseCapturing Phase = "capturing" // Routine running against the hidden copy
	PhaseReplaying Phase = "replaying" // Log being replayed on the live world
	PhaseDone      Phase = "done"      // Terminal success
	PhaseFailed    Phase = "failed"    // Terminal failure
)

// transitions lists the phases reachable from each phase.
var transitions = map[Phase][]Phase{
	PhaseIdle:      {PhaseCapturing, PhaseFailed},
	PhaseCapturing: {PhaseReplaying, PhaseFailed},
	PhaseReplaying: {PhaseDone, PhaseFailed},
}

// IsTerminal returns true for done and failed.
func (p Phase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// IsValid returns true if p is a known phase.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseIdle, PhaseCapturing, PhaseReplaying, PhaseDone, PhaseFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether next is reachable from p in one step.
func (p Phase) CanTransitionTo(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// String returns the phase name.
func (p Phase) String() string {
	return string(p)
}

// AllPhases returns every phase in run order.
func AllPhases() []Phase {
	return []Phase{PhaseIdle, PhaseCapturing, PhaseReplaying, PhaseDone, PhaseFailed}
}
