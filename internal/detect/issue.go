package detect

type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// Issue is a single finding. File is workspace-relative; Column is optional
// (0 means unknown). Detector is filled in by the executor that ran the
// detector, never by the detector itself.
type Issue struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Detector string   `json:"detector"`
}
