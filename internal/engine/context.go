package engine

// ExecutionContext describes a single detector run. It is immutable for the
// lifetime of the run: the detector-name set and the changed-file set are
// fixed once RunDetectors is called.
type ExecutionContext struct {
	// WorkspaceRoot must be a readable directory.
	WorkspaceRoot string

	// DetectorNames selects which detectors to run, in order. Empty means
	// the registry's default set (every registered detector).
	DetectorNames []string

	// ChangedFiles drives change-aware skipping. nil means "no change
	// information; run everything". An empty non-nil slice means "a no-op
	// change set"; file-scoped detectors with declared extensions are
	// skipped.
	ChangedFiles []string

	// OnProgress, if set, receives progress events as the run proceeds.
	// It is fire-and-forget: no return value, no backpressure. Callers
	// must not block indefinitely inside it.
	OnProgress ProgressFunc
}
