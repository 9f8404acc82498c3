package routine

import (
	"fmt"

	"github.com/felixgeelhaar/kara-go/domain/agent"
)

// Script returns a routine that issues actions in order.
func Script(actions []agent.Action) Routine {
	steps := make([]agent.Action, len(actions))
	copy(steps, actions)

	return func(k agent.Controller) error {
		for _, a := range steps {
			if err := a.Apply(k); err != nil {
				return err
			}
		}
		return nil
	}
}

// ParseScript parses action names into a scripted routine.
func ParseScript(names []string) (Routine, error) {
	actions := make([]agent.Action, 0, len(names))
	for i, name := range names {
		a, err := agent.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("script step %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return Script(actions), nil
}
