package agent

import (
	"fmt"
	"strings"
)

// Action is one of Kara's mutating actions.
type Action uint8

const (
	ActionMove Action = iota
	ActionTurnLeft
	ActionTurnRight
	ActionPlaceMarker
	ActionRemoveMarker
)

var actionNames = [...]string{
	ActionMove:         "move",
	ActionTurnLeft:     "turnLeft",
	ActionTurnRight:    "turnRight",
	ActionPlaceMarker:  "placeMarker",
	ActionRemoveMarker: "removeMarker",
}

// AllActions returns the closed action set.
func AllActions() []Action {
	return []Action{ActionMove, ActionTurnLeft, ActionTurnRight, ActionPlaceMarker, ActionRemoveMarker}
}

// IsValid returns true if a belongs to the action set.
func (a Action) IsValid() bool {
	return int(a) < len(actionNames)
}

// String returns the action name.
func (a Action) String() string {
	if !a.IsValid() {
		return fmt.Sprintf("action(%d)", uint8(a))
	}
	return actionNames[a]
}

// Apply invokes the matching method on target.
func (a Action) Apply(target Actuators) error {
	switch a {
	case ActionMove:
		return target.Move()
	case ActionTurnLeft:
		return target.TurnLeft()
	case ActionTurnRight:
		return target.TurnRight()
	case ActionPlaceMarker:
		return target.PlaceMarker()
	case ActionRemoveMarker:
		return target.RemoveMarker()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, a)
	}
}

// ParseAction parses an action name. Names are case-insensitive and may
// use dashes or underscores ("turn-left", "turn_left", "turnLeft").
// The clover aliases putLeaf and removeLeaf are accepted too.
func ParseAction(s string) (Action, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	switch key {
	case "move":
		return ActionMove, nil
	case "turnleft", "left":
		return ActionTurnLeft, nil
	case "turnright", "right":
		return ActionTurnRight, nil
	case "placemarker", "putleaf":
		return ActionPlaceMarker, nil
	case "removemarker", "removeleaf":
		return ActionRemoveMarker, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if !a.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
