package pool

import (
	"time"

	"insight/internal/detect"
)

// Task priorities are advisory hints to the pool's scheduler, not a hard
// ordering guarantee. Higher runs earlier when workers are contended.
const (
	PriorityNormal = 0
	PriorityHigh   = 10
)

// Task is the unit of dispatch to the worker pool.
type Task struct {
	ID            string
	DetectorName  string
	WorkspaceRoot string
	Priority      int
}

// TaskResult is the outcome of one task. Crashed and TimedOut are distinct
// from generic detector-reported failure (a non-empty Errors slice with both
// flags false). Crashed and timed-out results never carry issues: partial
// output from a dead worker is not trusted.
type TaskResult struct {
	TaskID       string
	DetectorName string
	Issues       []detect.Issue
	Crashed      bool
	TimedOut     bool
	Errors       []error
	Duration     time.Duration
}

// Failed reports whether the result is anything other than a clean success.
func (r TaskResult) Failed() bool {
	return r.Crashed || r.TimedOut || len(r.Errors) > 0
}
