package engine

import "time"

// Phase identifies a stage of a detector run. Phases are emitted in order:
// collectFiles (by the caller's file-discovery step, not by executors),
// runDetectors, aggregateResults, complete. Consumers must tolerate
// receiving zero events for phases a given executor does not use.
type Phase string

const (
	PhaseCollectFiles     Phase = "collectFiles"
	PhaseRunDetectors     Phase = "runDetectors"
	PhaseAggregateResults Phase = "aggregateResults"
	PhaseComplete         Phase = "complete"
)

// DetectorStatus is the terminal status of one requested detector. Every
// requested, non-skipped detector ends a run with exactly one of
// success/failed/timeout. Skipped detectors get no per-detector event;
// executors announce the whole skip set once via DetectorsSkipped, and
// consumers that need a per-detector label use StatusSkipped for the
// announced names.
type DetectorStatus string

const (
	StatusSuccess DetectorStatus = "success"
	StatusFailed  DetectorStatus = "failed"
	StatusTimeout DetectorStatus = "timeout"
	StatusSkipped DetectorStatus = "skipped"
)

// ProgressEvent is a one-way status notification. Completed is monotonically
// non-decreasing within one run.
type ProgressEvent struct {
	Phase Phase

	Completed int
	Total     int

	DetectorName     string
	DetectorDuration time.Duration
	DetectorStatus   DetectorStatus
	DetectorError    string

	// DetectorsSkipped carries the full skip set, announced once before
	// any detector starts (fan-out and worker-pool executors only).
	DetectorsSkipped []string
}

// ProgressFunc receives progress events. Fire-and-forget.
type ProgressFunc func(ProgressEvent)
