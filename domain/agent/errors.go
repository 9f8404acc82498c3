package agent

import "errors"

// Domain errors for the Kara agent.
var (
	// ErrInvalidMove indicates Kara tried to walk into a tree or off the grid.
	ErrInvalidMove = errors.New("invalid move")

	// ErrInvalidPosition indicates a pose that is off the grid or on a tree.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrNoStartPosition indicates a grid without a start glyph or empty cell.
	ErrNoStartPosition = errors.New("no start position")

	// ErrUnknownAction indicates an action outside the closed action set.
	ErrUnknownAction = errors.New("unknown action")
)
