package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"insight/internal/config"
	"insight/internal/flags"
	"insight/internal/run"
)

var cfg = config.New()

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a workspace with the configured detectors",
	Long: `Scan a local workspace (or a GitHub repository snapshot) and report the
issues the configured detectors find.

Workspace:
	--path scans a local directory (default: current directory).
	--repo OWNER/REPO fetches a repository snapshot to a temporary directory
	and scans that instead. A GitHub token (GITHUB_TOKEN or gh auth) raises
	rate limits and enables private repositories.

Change-aware scanning:
	--changed-file and --changed-from restrict file-scoped detectors to the
	given change set. Detectors whose declared extensions do not intersect the
	changed files are skipped; global and workspace-scoped detectors always
	run. An empty change set (e.g. no diff against --changed-from) skips every
	file-scoped detector that declares extensions.

Execution:
	--strategy selects how detectors run:
	- sequential: one at a time, in order
	- fanout: bounded concurrency with a per-detector deadline (default)
	- pool: worker pool with crash isolation; falls back to fanout if the
	  pool cannot initialize

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, progress, issue, run.finished).

Exit codes:
	0 = clean run, no issues
	1 = issues found
	2 = partial run (some detectors failed or timed out)
	3 = fatal error (scan did not run)

Examples:
  # Scan the current directory with all detectors
  insight scan --path .

  # Scan only what changed relative to main, with two detectors
  insight scan --changed-from main --detectors long-lines,todo-comments

  # Scan a GitHub repository snapshot
  insight scan --repo octocat/hello-world

	# AI Agent: stream machine-readable events to stdout
	insight scan --path . --no-console --emit ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(run.ExitFatal)
		}

		if err := applyWorkspaceFile(cmd, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(run.ExitFatal)
		}
		// File values feed back into validation (strategy, set syntax).
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(run.ExitFatal)
		}

		os.Exit(run.Scan(context.Background(), cfg, os.Stdout, os.Stderr))
	},
}

// applyWorkspaceFile merges .insight.yml defaults from the workspace root.
// Flags set on the command line always win. Remote workspaces (--repo) have
// no local root to read from before the fetch, so the file is skipped there.
func applyWorkspaceFile(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.Workspace.Repo != "" {
		return nil
	}
	fc, err := config.LoadFile(cfg.Workspace.Path)
	if err != nil {
		return err
	}
	cfg.ApplyFile(fc, cmd.Flags().Changed)
	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// MAINTAINER NOTE: If you add/change/remove any scan-affecting flags here,
	// keep internal/config/config.go's field docs and Validate in sync.

	// Workspace
	scanCmd.Flags().StringVar(&cfg.Workspace.Path, flags.FlagPath, ".", "Local workspace root to scan (default: current directory)")
	scanCmd.Flags().StringVar(&cfg.Workspace.Repo, flags.FlagRepo, "", "GitHub repository to fetch and scan as OWNER/REPO (mutually exclusive with --path)")
	scanCmd.Flags().StringSliceVar(&cfg.Workspace.ChangedFiles, flags.FlagChangedFile, nil, "Changed file for change-aware skipping (repeatable; comma-separated accepted)")
	scanCmd.Flags().StringVar(&cfg.Workspace.ChangedFrom, flags.FlagChangedFrom, "", "Git ref to diff against for change-aware skipping (mutually exclusive with --changed-file)")
	scanCmd.Flags().StringVar(&cfg.Workspace.Token, flags.FlagToken, "", "GitHub access token for --repo (default: GITHUB_TOKEN, then gh auth)")

	// Detectors
	scanCmd.Flags().StringVar(&cfg.Detectors.Selector, flags.FlagDetectors, "", "Detector selector as a comma-separated name list (empty = all detectors)")
	scanCmd.Flags().StringSliceVar(&cfg.Detectors.Set, flags.FlagSet, nil, "Per-detector options as detector.option=value (repeatable; comma-separated accepted)")

	// Output
	scanCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	scanCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterSeverity, flags.FlagConsoleFilterSeverity, nil, "Filter console output by severity (ERROR, WARNING, INFO). Comma-separated.")
	scanCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	scanCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	scanCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	scanCmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	scanCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")

	// Runtime
	scanCmd.Flags().StringVar(&cfg.Runtime.Strategy, flags.FlagStrategy, cfg.Runtime.Strategy, "Execution strategy: sequential|fanout|pool (default: fanout)")
	scanCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, 0, "Concurrent detectors for fanout/pool (0 = min(4, CPU count))")
	scanCmd.Flags().DurationVar(&cfg.Runtime.DetectorTimeout, flags.FlagDetectorTimeout, cfg.Runtime.DetectorTimeout, "Per-detector deadline for fanout/pool (default: 60s)")
	scanCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout (default: 30m)")
}
