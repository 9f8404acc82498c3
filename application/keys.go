package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/kara-go/domain/agent"
	"github.com/felixgeelhaar/kara-go/infrastructure/logging"
)

// Key is a manual control key.
type Key int

// Control keys. Up moves, Left and Right turn, Down toggles a marker.
const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = [...]string{
	KeyUp:    "up",
	KeyDown:  "down",
	KeyLeft:  "left",
	KeyRight: "right",
}

// String returns the key name.
func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return fmt.Sprintf("key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey accepts arrow names and the w/a/s/d keys.
func ParseKey(s string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w", "arrowup":
		return KeyUp, nil
	case "down", "s", "arrowdown":
		return KeyDown, nil
	case "left", "a", "arrowleft":
		return KeyLeft, nil
	case "right", "d", "arrowright":
		return KeyRight, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, s)
	}
}

// HandleKey applies one manual action to the live world and returns it.
// Keys are rejected while a run is active.
func (g *Game) HandleKey(ctx context.Context, key Key) (agent.Action, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return 0, ErrRunInProgress
	}

	var a agent.Action
	switch key {
	case KeyUp:
		a = agent.ActionMove
	case KeyLeft:
		a = agent.ActionTurnLeft
	case KeyRight:
		a = agent.ActionTurnRight
	case KeyDown:
		a = agent.ActionPlaceMarker
		if g.kara.IsOnMarker() {
			a = agent.ActionRemoveMarker
		}
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	err := a.Apply(g.kara)
	g.config.Metrics.RecordManualAction(ctx, a.String(), err == nil)

	var event *logging.LogEvent
	if err != nil {
		event = g.log.Warn().Add(logging.ErrorField(err))
	} else {
		event = g.log.Debug()
	}
	event.Add(logging.Str("key", key.String())).
		Add(logging.Action(a)).
		Add(logging.Position(g.kara.Position())).
		Add(logging.Facing(g.kara.Facing())).
		Msg("manual action")

	return a, err
}
