package simulation

import "errors"

// Domain errors for capture and replay.
var (
	// ErrLogOverflow indicates the routine issued more actions than the log may hold.
	ErrLogOverflow = errors.New("action log overflow")

	// ErrInvalidPhaseTransition indicates a run was moved to a phase it cannot reach.
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")
)
