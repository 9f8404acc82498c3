package routine

import "github.com/felixgeelhaar/kara-go/domain/agent"

// Names of the built-in routines.
const (
	FindMushroom = "find-mushroom"
	FollowWall   = "follow-wall"
	MarkTrail    = "mark-trail"
	ToggleMarker = "toggle-marker"
)

// Builtins returns a registry holding the built-in routines.
func Builtins() *Registry {
	r := NewRegistry()
	for _, def := range []Definition{
		{FindMushroom, "turn left at trees, otherwise walk, until a mushroom is ahead", FindMushroomRoutine},
		{FollowWall, "keep a tree on the right until a mushroom is ahead", FollowWallRoutine},
		{MarkTrail, "walk until blocked, leaving a clover on every cell", MarkTrailRoutine},
		{ToggleMarker, "place a clover, or pick it up if there is one", ToggleMarkerRoutine},
	} {
		// Names are distinct constants.
		_ = r.Register(def.Name, def.Description, def.Run)
	}
	return r
}

func goalAhead(s agent.Sensors) bool { return s.IsGoalAhead() }

// TurnOrMove turns left if a tree is ahead, otherwise moves.
func TurnOrMove(k agent.Controller) error {
	if k.IsTreeAhead() {
		return k.TurnLeft()
	}
	return k.Move()
}

// FindMushroomRoutine repeats TurnOrMove until a mushroom is ahead.
var FindMushroomRoutine = Until(goalAhead, TurnOrMove)

// FollowWallRoutine is a right-hand wall follower.
var FollowWallRoutine = Until(goalAhead, func(k agent.Controller) error {
	switch {
	case !k.IsTreeRight():
		if err := k.TurnRight(); err != nil {
			return err
		}
		return k.Move()
	case !k.IsTreeAhead():
		return k.Move()
	default:
		return k.TurnLeft()
	}
})

// MarkTrailRoutine marks the start cell, then moves and marks until a tree is ahead.
func MarkTrailRoutine(k agent.Controller) error {
	if err := k.PlaceMarker(); err != nil {
		return err
	}
	for !k.IsTreeAhead() {
		if err := k.Move(); err != nil {
			return err
		}
		if err := k.PlaceMarker(); err != nil {
			return err
		}
	}
	return nil
}

// ToggleMarkerRoutine flips the clover under Kara.
func ToggleMarkerRoutine(k agent.Controller) error {
	if k.IsOnMarker() {
		return k.RemoveMarker()
	}
	return k.PlaceMarker()
}
