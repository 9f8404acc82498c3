// Package routine defines the control programs that drive Kara.
package routine

import "github.com/felixgeelhaar/kara-go/domain/agent"

// Routine drives a controller. It is invoked once per run, synchronously,
// and should return the first error a mutator reports.
type Routine func(k agent.Controller) error

// Definition is a named routine.
type Definition struct {
	Name        string
	Description string
	Run         Routine
}

// Repeat returns a routine that calls step n times, stopping at the first error.
func Repeat(n int, step Routine) Routine {
	return func(k agent.Controller) error {
		for i := 0; i < n; i++ {
			if err := step(k); err != nil {
				return err
			}
		}
		return nil
	}
}

// Until returns a routine that calls step until done reports true.
// The recorder's log bound stops routines whose condition never holds.
func Until(done func(agent.Sensors) bool, step Routine) Routine {
	return func(k agent.Controller) error {
		for !done(k) {
			if err := step(k); err != nil {
				return err
			}
		}
		return nil
	}
}
