package simulation

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/kara-go/domain/agent"
	"github.com/felixgeelhaar/kara-go/domain/world"
)

// Run is one capture-then-replay execution. It is the aggregate root of the
// simulation domain.
type Run struct {
	ID        string     `json:"id"`
	Routine   string     `json:"routine,omitempty"`
	Phase     Phase      `json:"phase"`
	Actions   Log        `json:"actions"`
	Captured  string     `json:"captured,omitempty"`
	FinalPose agent.Pose `json:"final_pose"`
	Replayed  int        `json:"replayed"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time,omitempty"`
	Error     string     `json:"error,omitempty"`

	// CaptureError is the routine failure swallowed during capture. The
	// recorded prefix is still replayed.
	CaptureError string `json:"capture_error,omitempty"`
}

// NewRun creates an idle run.
func NewRun(id, routine string) *Run {
	return &Run{
		ID:      id,
		Routine: routine,
		Phase:   PhaseIdle,
		Actions: Log{},
	}
}

// TransitionTo moves the run to next. Entering capturing stamps the start
// time; entering a terminal phase stamps the end time.
func (r *Run) TransitionTo(next Phase) error {
	if !r.Phase.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidPhaseTransition, r.Phase, next)
	}
	r.Phase = next
	switch {
	case next == PhaseCapturing:
		r.StartTime = time.Now()
	case next.IsTerminal():
		r.EndTime = time.Now()
	}
	return nil
}

// Capture stores the result of the capture phase: the log and the world
// and pose the routine left behind.
func (r *Run) Capture(actions Log, grid *world.Grid, pose agent.Pose) {
	r.Actions = actions
	r.FinalPose = pose
	if grid != nil {
		r.Captured = grid.String()
	}
}

// SwallowCaptureError notes a routine failure that did not stop the run.
func (r *Run) SwallowCaptureError(err error) {
	if err != nil {
		r.CaptureError = err.Error()
	}
}

// Fail moves the run to failed and records err.
func (r *Run) Fail(err error) {
	if !r.Phase.IsTerminal() {
		r.Phase = PhaseFailed
		r.EndTime = time.Now()
	}
	if err != nil {
		r.Error = err.Error()
	}
}

// Consistent reports whether the replayed world and pose match what the
// capture produced.
func (r *Run) Consistent(final *world.Grid, pose agent.Pose) bool {
	if final == nil {
		return false
	}
	return final.String() == r.Captured && pose == r.FinalPose
}

// IsTerminal returns true if the run has finished.
func (r *Run) IsTerminal() bool {
	return r.Phase.IsTerminal()
}

// Duration returns how long the run took, or has taken so far.
func (r *Run) Duration() time.Duration {
	if r.StartTime.IsZero() {
		return 0
	}
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}
