// Package agent provides Kara, the directional agent living on a world grid,
// together with the contracts shared by Kara and her decorators.
package agent

// Sensors are Kara's read-only queries. They never fail.
type Sensors interface {
	IsTreeAhead() bool
	IsTreeLeft() bool
	IsTreeRight() bool
	IsGoalAhead() bool
	IsOnMarker() bool
}

// Actuators are Kara's mutating actions. Each is atomic: it is either
// fully applied or not applied at all.
type Actuators interface {
	Move() error
	TurnLeft() error
	TurnRight() error
	PlaceMarker() error
	RemoveMarker() error
}

// Controller is anything that can be driven like Kara.
type Controller interface {
	Sensors
	Actuators
}

var _ Controller = (*Kara)(nil)
