package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"insight/internal/config"
	"insight/internal/detect"
	"insight/internal/engine"
	"insight/internal/github"
	"insight/internal/output"
	"insight/internal/workspace"
)

// Exit codes form the scan contract:
//
//	0 - scan completed, no issues
//	1 - scan completed, issues found
//	2 - scan partially completed (one or more detectors failed or timed out)
//	3 - fatal error (scan could not run)
const (
	ExitClean    = 0
	ExitFindings = 1
	ExitPartial  = 2
	ExitFatal    = 3
)

// Scan executes a full scan per cfg and returns the process exit code.
// Human-facing output goes to stdout (unless suppressed), diagnostics to
// stderr.
func Scan(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	mgr, err := buildSinks(cfg, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "insight: %v\n", err)
		return ExitFatal
	}

	code := scan(ctx, cfg, mgr, stderr)

	if err := mgr.Close(); err != nil {
		fmt.Fprintf(stderr, "insight: %v\n", err)
		if code == ExitClean {
			code = ExitFatal
		}
	}
	return code
}

func scan(ctx context.Context, cfg *config.Config, mgr *output.Manager, stderr io.Writer) int {
	ctx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()

	root, cleanup, err := resolveWorkspace(ctx, cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "insight: %v\n", err)
		return ExitFatal
	}
	defer cleanup()

	detectors, err := detect.Resolve(cfg.Detectors.Selector)
	if err != nil {
		fmt.Fprintf(stderr, "insight: %v\n", err)
		return ExitFatal
	}
	names := make([]string, len(detectors))
	for i, d := range detectors {
		names[i] = d.Name()
	}

	if err := applyDetectorOptions(cfg.Detectors.Set); err != nil {
		fmt.Fprintf(stderr, "insight: %v\n", err)
		return ExitFatal
	}

	runID := uuid.NewString()
	files, err := workspace.CollectFiles(root)
	if err != nil {
		fmt.Fprintf(stderr, "insight: %v\n", err)
		return ExitFatal
	}
	writeEvent(mgr, stderr, output.Event{
		Type:      "run.started",
		RunID:     runID,
		Workspace: root,
		Detectors: len(names),
		Files:     len(files),
	})
	writeEvent(mgr, stderr, output.EventFromProgress(engine.ProgressEvent{
		Phase: engine.PhaseCollectFiles,
		Total: len(names),
	}))

	changed, err := resolveChangedFiles(ctx, cfg, root)
	if err != nil {
		fmt.Fprintf(stderr, "insight: %v\n", err)
		return ExitFatal
	}

	executor := buildExecutor(cfg, stderr)
	defer func() {
		if err := executor.Shutdown(); err != nil {
			fmt.Fprintf(stderr, "insight: executor shutdown: %v\n", err)
		}
	}()

	var (
		mu      sync.Mutex
		partial bool
	)
	ec := &engine.ExecutionContext{
		WorkspaceRoot: root,
		DetectorNames: names,
		ChangedFiles:  changed,
		OnProgress: func(ev engine.ProgressEvent) {
			mu.Lock()
			if ev.DetectorStatus == engine.StatusFailed || ev.DetectorStatus == engine.StatusTimeout {
				partial = true
			}
			mu.Unlock()
			writeEvent(mgr, stderr, output.EventFromProgress(ev))
		},
	}

	issues, err := executor.RunDetectors(ctx, ec)
	if err != nil {
		fmt.Fprintf(stderr, "insight: %v\n", err)
		return ExitFatal
	}

	for _, is := range issues {
		if werr := mgr.Write(is); werr != nil {
			fmt.Fprintf(stderr, "insight: %v\n", werr)
		}
	}

	code := ExitClean
	switch {
	case partial:
		code = ExitPartial
	case len(issues) > 0:
		code = ExitFindings
	}

	writeEvent(mgr, stderr, output.Event{
		Type:     "run.finished",
		RunID:    runID,
		Issues:   len(issues),
		ExitCode: code,
	})
	return code
}

func buildSinks(cfg *config.Config, stdout io.Writer) (*output.Manager, error) {
	mgr := output.NewManager()

	if !cfg.Output.NoConsole {
		sink := output.NewConsoleSink(stdout, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterSeverity)
		if err := mgr.AddSink(sink); err != nil {
			return nil, err
		}
	}
	for _, format := range cfg.Output.Emit {
		sink, err := output.NewEmitSink(stdout, format)
		if err != nil {
			return nil, err
		}
		if err := mgr.AddSink(sink); err != nil {
			return nil, err
		}
	}
	if cfg.Output.Out != "" {
		sink, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			return nil, err
		}
		if err := mgr.AddSink(sink); err != nil {
			return nil, err
		}
	}
	if cfg.Output.Report != "" {
		sink, err := output.NewReportSink(cfg.Output.Report)
		if err != nil {
			return nil, err
		}
		if err := mgr.AddSink(sink); err != nil {
			return nil, err
		}
	}
	return mgr, nil
}

// resolveWorkspace returns the local root to scan. For --repo the repository
// is fetched into a temporary directory; cleanup removes it.
func resolveWorkspace(ctx context.Context, cfg *config.Config, stderr io.Writer) (root string, cleanup func(), err error) {
	cleanup = func() {}

	if cfg.Workspace.Repo == "" {
		return cfg.Workspace.Path, cleanup, nil
	}

	token, source, err := github.ResolveToken(ctx, cfg.Workspace.Token)
	if err != nil {
		return "", cleanup, fmt.Errorf("resolve github token: %w", err)
	}
	if cfg.Runtime.Verbose && token != "" {
		fmt.Fprintf(stderr, "[verbose] github auth: using token from %s\n", source)
	}

	client := github.NewClient(github.ClientConfig{
		Token:     token,
		Verbose:   cfg.Runtime.Verbose,
		LogWriter: stderr,
	})

	dir, err := client.FetchWorkspace(ctx, cfg.Workspace.Repo, "")
	if err != nil {
		return "", cleanup, err
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func resolveChangedFiles(ctx context.Context, cfg *config.Config, root string) ([]string, error) {
	if len(cfg.Workspace.ChangedFiles) > 0 {
		return cfg.Workspace.ChangedFiles, nil
	}
	if cfg.Workspace.ChangedFrom != "" {
		// Never nil on success, so an empty diff still enables skipping.
		return workspace.ChangedFiles(ctx, root, cfg.Workspace.ChangedFrom)
	}
	return nil, nil
}

// applyDetectorOptions pushes --set assignments into the named detectors.
func applyDetectorOptions(assignments []string) error {
	parsed, err := config.ParseDetectorOptionAssignments(assignments)
	if err != nil {
		return err
	}
	for name, opts := range parsed {
		d, err := detect.Load(name)
		if err != nil {
			return err
		}
		c, ok := d.(detect.ConfigurableDetector)
		if !ok {
			return fmt.Errorf("detector %s does not accept options", name)
		}
		if err := c.Configure(opts); err != nil {
			return fmt.Errorf("configure detector %s: %w", name, err)
		}
	}
	return nil
}

func buildExecutor(cfg *config.Config, stderr io.Writer) engine.Executor {
	switch cfg.Runtime.Strategy {
	case config.StrategySequential:
		return engine.NewSequentialExecutor()
	case config.StrategyPool:
		return engine.NewWorkerPoolExecutor(engine.WorkerPoolConfig{
			MaxConcurrency:  cfg.Runtime.Concurrency,
			DetectorTimeout: cfg.Runtime.DetectorTimeout,
			UseWorkerPool:   true,
			LogWriter:       stderr,
		})
	default:
		return engine.NewFanoutExecutor(engine.FanoutConfig{
			MaxConcurrency:  cfg.Runtime.Concurrency,
			DetectorTimeout: cfg.Runtime.DetectorTimeout,
		})
	}
}

func writeEvent(mgr *output.Manager, stderr io.Writer, ev output.Event) {
	if err := mgr.Write(ev); err != nil {
		fmt.Fprintf(stderr, "insight: %v\n", err)
	}
}
