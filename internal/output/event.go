package output

import (
	"insight/internal/detect"
	"insight/internal/engine"
)

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - progress (one per engine progress event)
// - issue
// - run.finished
//
// JSON mode remains an aggregate of detect.Issue values.
type Event struct {
	Type  string `json:"type"`
	RunID string `json:"run_id,omitempty"`

	// run.started fields
	Workspace string `json:"workspace,omitempty"`
	Detectors int    `json:"detectors,omitempty"`
	Files     int    `json:"files,omitempty"`

	// progress fields
	Phase      string   `json:"phase,omitempty"`
	Detector   string   `json:"detector,omitempty"`
	Status     string   `json:"status,omitempty"`
	DurationMS int64    `json:"duration_ms,omitempty"`
	Completed  int      `json:"completed,omitempty"`
	Total      int      `json:"total,omitempty"`
	Skipped    []string `json:"skipped,omitempty"`
	Error      string   `json:"error,omitempty"`

	// issue payload
	*detect.Issue

	// run.finished fields
	Issues   int `json:"issues,omitempty"`
	ExitCode int `json:"exit_code,omitempty"`
}

func eventFromIssue(is detect.Issue) Event {
	return Event{Type: "issue", Issue: &is}
}

// EventFromProgress converts an engine progress event into its streamed
// form. Durations are reported in milliseconds.
func EventFromProgress(ev engine.ProgressEvent) Event {
	return Event{
		Type:       "progress",
		Phase:      string(ev.Phase),
		Detector:   ev.DetectorName,
		Status:     string(ev.DetectorStatus),
		DurationMS: ev.DetectorDuration.Milliseconds(),
		Completed:  ev.Completed,
		Total:      ev.Total,
		Skipped:    ev.DetectorsSkipped,
		Error:      ev.DetectorError,
	}
}
