package engine

import (
	"context"
	"time"

	"insight/internal/detect"
)

// FanoutConfig configures the bounded fan-out strategy. Zero values select
// the defaults: min(4, CPU count) in-flight detectors and a 60s per-detector
// deadline.
type FanoutConfig struct {
	MaxConcurrency  int
	DetectorTimeout time.Duration
}

func (c FanoutConfig) withDefaults() FanoutConfig {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = defaultMaxConcurrency()
	}
	if c.DetectorTimeout <= 0 {
		c.DetectorTimeout = defaultDetectorTimeout
	}
	return c
}

// FanoutExecutor runs detectors with bounded in-flight concurrency and a
// per-detector deadline, without isolation between detector and caller.
// Detectors execute in batches of MaxConcurrency; a batch must fully finish
// before the next one starts, and no single outcome can abort a batch.
//
// A detector that outlives its deadline is reported as timeout and its work
// is abandoned, not killed: in-process execution cannot forcibly interrupt
// it. The deadline is also carried on the detector's context so cooperative
// detectors stop early.
type FanoutExecutor struct {
	cfg FanoutConfig
}

func NewFanoutExecutor(cfg FanoutConfig) *FanoutExecutor {
	return &FanoutExecutor{cfg: cfg.withDefaults()}
}

// detectorOutcome is one detector's terminal result within a batch.
type detectorOutcome struct {
	name     string
	issues   []detect.Issue
	status   DetectorStatus
	err      error
	duration time.Duration
}

func (e *FanoutExecutor) RunDetectors(ctx context.Context, ec *ExecutionContext) ([]detect.Issue, error) {
	names, err := resolveRun(ec)
	if err != nil {
		return nil, err
	}
	run, skipped := partitionBySkip(names, ec.ChangedFiles)
	total := len(run)

	// Announce the full skip set before any detector starts.
	emit(ec, ProgressEvent{
		Phase:            PhaseRunDetectors,
		Total:            total,
		DetectorsSkipped: skipped,
	})

	issues := make([]detect.Issue, 0)
	completed := 0

	for start := 0; start < len(run); start += e.cfg.MaxConcurrency {
		end := start + e.cfg.MaxConcurrency
		if end > len(run) {
			end = len(run)
		}
		batch := run[start:end]

		outcomes := make(chan detectorOutcome, len(batch))
		for _, name := range batch {
			go e.runOne(ctx, ec.WorkspaceRoot, name, outcomes)
		}

		// Await the full batch. Outcomes arrive in completion order, which
		// may differ from submission order; every one is folded in, nothing
		// is silently dropped.
		for range batch {
			out := <-outcomes
			completed++

			ev := ProgressEvent{
				Phase:            PhaseRunDetectors,
				Completed:        completed,
				Total:            total,
				DetectorName:     out.name,
				DetectorDuration: out.duration,
				DetectorStatus:   out.status,
			}
			if out.err != nil {
				ev.DetectorError = out.err.Error()
			}
			emit(ec, ev)

			if out.status == StatusSuccess {
				issues = append(issues, stamp(out.issues, out.name)...)
			}
		}
	}

	emit(ec, ProgressEvent{Phase: PhaseAggregateResults, Completed: completed, Total: total})
	emit(ec, ProgressEvent{Phase: PhaseComplete, Completed: completed, Total: total})
	return issues, nil
}

// runOne races a single detector against its deadline and reports exactly
// one outcome. The failure and timeout arms are independent so neither can
// abort the batch.
func (e *FanoutExecutor) runOne(ctx context.Context, workspaceRoot, name string, outcomes chan<- detectorOutcome) {
	start := time.Now()

	detectCtx, cancel := context.WithTimeout(ctx, e.cfg.DetectorTimeout)
	defer cancel()

	type detectResult struct {
		issues []detect.Issue
		err    error
	}
	inner := make(chan detectResult, 1)
	go func() {
		issues, derr := invokeDetector(detectCtx, name, workspaceRoot)
		inner <- detectResult{issues: issues, err: derr}
	}()

	select {
	case res := <-inner:
		dur := time.Since(start)
		if res.err != nil {
			outcomes <- detectorOutcome{name: name, status: StatusFailed, err: res.err, duration: dur}
			return
		}
		outcomes <- detectorOutcome{name: name, status: StatusSuccess, issues: res.issues, duration: dur}
	case <-detectCtx.Done():
		dur := time.Since(start)
		if ctx.Err() != nil {
			// Parent cancellation, not a per-detector deadline.
			outcomes <- detectorOutcome{name: name, status: StatusFailed, err: ctx.Err(), duration: dur}
			return
		}
		outcomes <- detectorOutcome{name: name, status: StatusTimeout, err: detectCtx.Err(), duration: dur}
	}
}

func (e *FanoutExecutor) Shutdown() error {
	return nil
}
