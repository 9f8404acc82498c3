package agent_test

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/kara-go/domain/agent"
)

// callLog is an Actuators that remembers which method was called.
type callLog struct {
	calls []string
}

func (c *callLog) Move() error         { c.calls = append(c.calls, "Move"); return nil }
func (c *callLog) TurnLeft() error     { c.calls = append(c.calls, "TurnLeft"); return nil }
func (c *callLog) TurnRight() error    { c.calls = append(c.calls, "TurnRight"); return nil }
func (c *callLog) PlaceMarker() error  { c.calls = append(c.calls, "PlaceMarker"); return nil }
func (c *callLog) RemoveMarker() error { c.calls = append(c.calls, "RemoveMarker"); return nil }

func TestAction_Apply(t *testing.T) {
	t.Parallel()

	want := map[agent.Action]string{
		agent.ActionMove:         "Move",
		agent.ActionTurnLeft:     "TurnLeft",
		agent.ActionTurnRight:    "TurnRight",
		agent.ActionPlaceMarker:  "PlaceMarker",
		agent.ActionRemoveMarker: "RemoveMarker",
	}

	for _, a := range agent.AllActions() {
		log := &callLog{}
		if err := a.Apply(log); err != nil {
			t.Fatalf("%s.Apply() error = %v", a, err)
		}
		if len(log.calls) != 1 || log.calls[0] != want[a] {
			t.Errorf("%s.Apply() called %v, want [%s]", a, log.calls, want[a])
		}
	}

	if err := agent.Action(42).Apply(&callLog{}); !errors.Is(err, agent.ErrUnknownAction) {
		t.Errorf("Apply(42) error = %v, want ErrUnknownAction", err)
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    agent.Action
		wantErr bool
	}{
		{"move", agent.ActionMove, false},
		{"turnLeft", agent.ActionTurnLeft, false},
		{"turn-left", agent.ActionTurnLeft, false},
		{"TURN_RIGHT", agent.ActionTurnRight, false},
		{"placeMarker", agent.ActionPlaceMarker, false},
		{"putLeaf", agent.ActionPlaceMarker, false},
		{"remove-marker", agent.ActionRemoveMarker, false},
		{"removeLeaf", agent.ActionRemoveMarker, false},
		{"jump", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := agent.ParseAction(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAction(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAction(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestAction_StringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, a := range agent.AllActions() {
		text, err := a.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText() error = %v", err)
		}
		var back agent.Action
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if back != a {
			t.Errorf("round trip of %s = %s", a, back)
		}
	}
}
