package world

import "errors"

// Domain errors for grid operations.
var (
	// ErrMalformedSpec indicates a textual world spec could not be decoded.
	ErrMalformedSpec = errors.New("malformed world spec")

	// ErrOutOfBounds indicates a coordinate outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrInvalidSize indicates a grid dimension below one.
	ErrInvalidSize = errors.New("invalid grid size")
)
