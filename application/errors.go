package application

import "errors"

// Application errors.
var (
	// ErrRunInProgress indicates another run or a manual action holds the game.
	ErrRunInProgress = errors.New("run in progress")

	// ErrRoutinePanic indicates the routine panicked during capture.
	ErrRoutinePanic = errors.New("routine panicked")

	// ErrNilRoutine indicates Execute was called without a routine.
	ErrNilRoutine = errors.New("routine is nil")

	// ErrUnknownKey indicates an unmapped control key.
	ErrUnknownKey = errors.New("unknown key")
)
