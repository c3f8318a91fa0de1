package engine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"insight/internal/detect"
)

const defaultDetectorTimeout = 60 * time.Second

// Executor is a strategy implementing how detectors are scheduled and run.
//
// RunDetectors never returns an error for individual detector failures;
// those are contained and reported through the progress stream. Only
// environment-level faults (an unreadable workspace root) propagate.
type Executor interface {
	RunDetectors(ctx context.Context, ec *ExecutionContext) ([]detect.Issue, error)

	// Shutdown releases any pooled resources. Safe to call multiple times.
	Shutdown() error
}

// defaultMaxConcurrency bounds in-flight detectors when the caller does not
// configure a limit.
func defaultMaxConcurrency() int {
	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	return n
}

// resolveRun validates the environment and fixes the detector-name set for
// the run. An unreadable workspace root is the one fault that propagates to
// the caller.
func resolveRun(ec *ExecutionContext) ([]string, error) {
	if ec == nil {
		return nil, fmt.Errorf("execution context is nil")
	}
	info, err := os.Stat(ec.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("workspace root %q is not readable: %w", ec.WorkspaceRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %q is not a directory", ec.WorkspaceRoot)
	}

	names := ec.DetectorNames
	if len(names) == 0 {
		names = detect.DefaultNames()
	}
	return names, nil
}

// emit delivers a progress event if the caller installed a sink.
func emit(ec *ExecutionContext, ev ProgressEvent) {
	if ec.OnProgress != nil {
		ec.OnProgress(ev)
	}
}

// stamp tags every issue with the detector that produced it. Attribution is
// owned by the executor, not the detector.
func stamp(issues []detect.Issue, detectorName string) []detect.Issue {
	for i := range issues {
		issues[i].Detector = detectorName
	}
	return issues
}

// invokeDetector loads a detector by name and runs it, containing panics so
// a crashing detector cannot abort the run.
func invokeDetector(ctx context.Context, name, workspaceRoot string) (issues []detect.Issue, err error) {
	d, err := detect.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load detector %s: %w", name, err)
	}

	defer func() {
		if r := recover(); r != nil {
			issues = nil
			err = fmt.Errorf("detector %s panicked: %v", name, r)
		}
	}()

	issues, err = d.Detect(ctx, workspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("detector %s: %w", name, err)
	}
	return issues, nil
}
