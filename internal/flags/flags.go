package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// engine. Keeping these as constants helps avoid drift between Cobra flag
// wiring and other code paths that need to reference flags (e.g. config-file
// merging, which must know whether a flag was set on the command line).
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Workspace.Path, flags.FlagPath, ".", "...")
//	arg := "--" + flags.FlagPath
const (
	// Workspace
	FlagPath        = "path"
	FlagRepo        = "repo"
	FlagChangedFile = "changed-file"
	FlagChangedFrom = "changed-from"
	FlagToken       = "token"

	// Detectors
	FlagDetectors = "detectors"
	FlagSet       = "set"
	FlagOption    = "option"

	// Output
	FlagConsoleFormat         = "console-format"
	FlagConsoleFilterSeverity = "console-filter-severity"
	FlagReport                = "report"
	FlagOut                   = "out"
	FlagOutFormat             = "out-format"
	FlagEmit                  = "emit"
	FlagNoConsole             = "no-console"

	// Runtime
	FlagStrategy        = "strategy"
	FlagConcurrency     = "concurrency"
	FlagDetectorTimeout = "detector-timeout"
	FlagTimeout         = "timeout"
)
