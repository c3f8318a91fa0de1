package detect

import "context"

// Scope describes how much of a workspace a detector inspects. File-scoped
// detectors are candidates for change-aware skipping; global and
// workspace-scoped detectors always run.
type Scope string

const (
	ScopeGlobal    Scope = "global"
	ScopeWorkspace Scope = "workspace"
	ScopeFile      Scope = "file"
)

// Metadata is the static description a detector publishes so the engine can
// decide whether the detector is relevant to a given change set.
type Metadata struct {
	// Scope is the detector's declared scope. An empty scope is treated the
	// same as global: the detector is never skipped.
	Scope Scope

	// Extensions lists the file extensions the detector cares about
	// (".go", ".ts", ...). Matching is case-insensitive; a leading dot is
	// optional. Empty means the detector is relevant to every file.
	Extensions []string
}

type Detector interface {
	Name() string
	Title() string
	Description() string

	// Metadata returns the detector's static scope/extension declaration.
	// It must be cheap and side-effect free.
	Metadata() Metadata

	// Detect inspects the workspace rooted at workspaceRoot and returns the
	// issues it found. Detectors must not stamp the Detector field on
	// returned issues; the executor owns attribution.
	Detect(ctx context.Context, workspaceRoot string) ([]Issue, error)
}

type Option struct {
	Name        string
	Description string
	Default     string
}

type ConfigurableDetector interface {
	Detector
	Options() []Option
	Configure(opts map[string]string) error
}
