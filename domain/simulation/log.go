package simulation

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/kara-go/domain/agent"
)

// Log is an ordered action sequence produced by capture and consumed by replay.
type Log []agent.Action

// ParseLog parses action names in order.
func ParseLog(names []string) (Log, error) {
	log := make(Log, 0, len(names))
	for i, name := range names {
		a, err := agent.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		log = append(log, a)
	}
	return log, nil
}

// Len returns the number of actions.
func (l Log) Len() int { return len(l) }

// Strings returns the action names.
func (l Log) Strings() []string {
	out := make([]string, len(l))
	for i, a := range l {
		out[i] = a.String()
	}
	return out
}

// String returns the log as "[move, move, turnLeft]".
func (l Log) String() string {
	return "[" + strings.Join(l.Strings(), ", ") + "]"
}

// Replay applies every action to target front to back, calling observe
// after each applied action. It stops at the first failure and returns the
// number of actions applied.
func (l Log) Replay(ctx context.Context, target agent.Actuators, observe func(step int, a agent.Action)) (int, error) {
	for i, a := range l {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := a.Apply(target); err != nil {
			return i, fmt.Errorf("step %d (%s): %w", i, a, err)
		}
		if observe != nil {
			observe(i, a)
		}
	}
	return len(l), nil
}
