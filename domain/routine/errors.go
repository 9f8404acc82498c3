package routine

import "errors"

// Domain errors for routines.
var (
	// ErrRoutineNotFound indicates the requested routine is not registered.
	ErrRoutineNotFound = errors.New("routine not found")

	// ErrRoutineExists indicates a routine with the same name is already registered.
	ErrRoutineExists = errors.New("routine already exists")

	// ErrEmptyName indicates a routine was registered without a name.
	ErrEmptyName = errors.New("routine name cannot be empty")
)
