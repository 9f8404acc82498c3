package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/kara-go/domain/agent"
	"github.com/felixgeelhaar/kara-go/domain/simulation"
	"github.com/felixgeelhaar/kara-go/domain/world"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Phase adds a phase field.
func Phase(p simulation.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", string(p))
	}
}

// FromPhase adds a from_phase field for transitions.
func FromPhase(p simulation.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_phase", string(p))
	}
}

// ToPhase adds a to_phase field for transitions.
func ToPhase(p simulation.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("to_phase", string(p))
	}
}

// Action adds an action field.
func Action(a agent.Action) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", a.String())
	}
}

// Routine adds a routine name field.
func Routine(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("routine", name)
	}
}

// Position adds x and y fields.
func Position(c world.Coord) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("x", c.X).Int("y", c.Y)
	}
}

// Facing adds a facing field.
func Facing(d world.Direction) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("facing", d.String())
	}
}

// Step adds a step index field.
func Step(i int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("step", i)
	}
}

// Count adds an action count field.
func Count(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("count", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Path adds a file path field.
func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", p)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
