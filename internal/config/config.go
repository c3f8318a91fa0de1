package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// scan behavior, keep the CLI flags in internal/cli/scan.go in sync.
	Workspace Workspace
	Detectors Detectors
	Output    Output
	Runtime   Runtime
}

type Workspace struct {
	// Path is the local workspace root to scan (see --path).
	Path string

	// Repo is a GitHub repository as OWNER/REPO; when set, the workspace
	// is fetched to a temporary directory before scanning (see --repo).
	// Mutually exclusive with --path.
	Repo string

	// ChangedFiles is an explicit changed-file list used for change-aware
	// skipping (see --changed-file). Empty means no change filtering
	// unless ChangedFrom is set.
	ChangedFiles []string

	// ChangedFrom is a git ref; when set, the changed-file set is computed
	// as `git diff --name-only <ref>` in the workspace (see --changed-from).
	ChangedFrom string

	// Token is an explicit GitHub access token for --repo fetches (see
	// --token). Empty falls back to GITHUB_TOKEN, then the gh CLI.
	Token string
}

type Detectors struct {
	// Selector selects which detectors to run.
	// Empty means all detectors; otherwise a comma-separated name list
	// (see --detectors).
	Selector string

	// Set provides per-detector option overrides from the CLI.
	// Entries are of the form detector.option=value (repeatable;
	// comma-separated accepted; see --set).
	Set []string
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format
	// (see --console-format). Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterSeverity filters console output by issue severity
	// (see --console-filter-severity). Allowed values: ERROR, WARNING, INFO.
	ConsoleFilterSeverity []string

	// Report writes a Markdown report to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, inferred from the --out
	// file extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout
	// (see --emit). Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	// Use with --emit/--out/--report for machine-readable output.
	NoConsole bool
}

type Runtime struct {
	// Strategy selects the execution strategy (see --strategy).
	// Allowed values: sequential, fanout, pool.
	Strategy string

	// Concurrency bounds in-flight detectors for the fanout and pool
	// strategies (see --concurrency). 0 means min(4, CPU count).
	Concurrency int

	// DetectorTimeout is the per-detector deadline for the fanout and
	// pool strategies (see --detector-timeout). Must be > 0.
	DetectorTimeout time.Duration

	// Timeout is the global scan timeout for the run (see --timeout).
	// Must be > 0.
	Timeout time.Duration

	// Verbose enables more detailed diagnostics (primarily GitHub fetch
	// and fallback logging).
	Verbose bool
}

const (
	StrategySequential = "sequential"
	StrategyFanout     = "fanout"
	StrategyPool       = "pool"
)

func New() *Config {
	return &Config{
		Workspace: Workspace{
			Path: ".",
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Strategy:        StrategyFanout,
			DetectorTimeout: 60 * time.Second,
			Timeout:         30 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Workspace.ChangedFiles = splitCommaList(c.Workspace.ChangedFiles)
	c.Detectors.Set = splitCommaList(c.Detectors.Set)

	// Workspace validation
	if strings.TrimSpace(c.Workspace.Repo) != "" && c.Workspace.Path != "." && c.Workspace.Path != "" {
		return errors.New("--path and --repo are mutually exclusive")
	}
	if strings.TrimSpace(c.Workspace.Path) == "" && strings.TrimSpace(c.Workspace.Repo) == "" {
		return errors.New("one of --path or --repo must be provided")
	}
	if len(c.Workspace.ChangedFiles) > 0 && c.Workspace.ChangedFrom != "" {
		return errors.New("--changed-file and --changed-from are mutually exclusive")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		c.Output.ConsoleFormat = "text"
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for _, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", emit)
		}
	}

	if c.Output.Out != "" && c.Output.OutFormat != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported --out-format: %s (must be one of: json, ndjson)", c.Output.OutFormat)
		}
	}

	// Runtime validation
	c.Runtime.Strategy = normalizeEnumValue(c.Runtime.Strategy)
	if c.Runtime.Strategy == "" {
		c.Runtime.Strategy = StrategyFanout
	}
	if c.Runtime.Strategy != StrategySequential && c.Runtime.Strategy != StrategyFanout && c.Runtime.Strategy != StrategyPool {
		return fmt.Errorf("unsupported --strategy: %s (must be one of: sequential, fanout, pool)", c.Runtime.Strategy)
	}
	if c.Runtime.Concurrency < 0 {
		return errors.New("--concurrency must be >= 0")
	}
	if c.Runtime.DetectorTimeout <= 0 {
		return errors.New("--detector-timeout must be > 0")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	// Detector option syntax validation (detector.option=value)
	if len(c.Detectors.Set) > 0 {
		if _, err := ParseDetectorOptionAssignments(c.Detectors.Set); err != nil {
			return err
		}
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseDetectorOptionAssignments parses values of the form
// "detector.option=value".
//
// Notes:
// - Entries may be provided via repeated flags and/or comma-delimited lists.
// - This validates syntax only (no validation of detector names or options).
// - Empty values are allowed ("detector.option=").
func ParseDetectorOptionAssignments(values []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	for _, raw := range splitCommaList(values) {
		left, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set entry %q: expected detector.option=value", raw)
		}
		left = strings.TrimSpace(left)
		value = strings.TrimSpace(value)
		name, opt, ok := strings.Cut(left, ".")
		if !ok {
			return nil, fmt.Errorf("invalid --set entry %q: expected detector.option=value", raw)
		}
		name = strings.TrimSpace(name)
		opt = strings.TrimSpace(opt)
		if name == "" || opt == "" {
			return nil, fmt.Errorf("invalid --set entry %q: expected non-empty detector and option", raw)
		}
		if _, ok := out[name]; !ok {
			out[name] = make(map[string]string)
		}
		out[name][opt] = value
	}
	return out, nil
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
