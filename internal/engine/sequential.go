package engine

import (
	"context"
	"time"

	"insight/internal/detect"
)

// SequentialExecutor runs detectors one at a time on the caller's own
// goroutine, in input order. A failing detector never aborts the loop.
//
// Compatibility note: the sequential strategy does not emit a
// skip-announcement event; consumers must not rely on one (see the fan-out
// and worker-pool strategies for the announced form).
type SequentialExecutor struct{}

func NewSequentialExecutor() *SequentialExecutor {
	return &SequentialExecutor{}
}

func (e *SequentialExecutor) RunDetectors(ctx context.Context, ec *ExecutionContext) ([]detect.Issue, error) {
	names, err := resolveRun(ec)
	if err != nil {
		return nil, err
	}
	run, _ := partitionBySkip(names, ec.ChangedFiles)

	issues := make([]detect.Issue, 0)
	completed := 0
	total := len(run)

	for _, name := range run {
		start := time.Now()
		found, derr := invokeDetector(ctx, name, ec.WorkspaceRoot)
		dur := time.Since(start)
		completed++

		if derr != nil {
			emit(ec, ProgressEvent{
				Phase:            PhaseRunDetectors,
				Completed:        completed,
				Total:            total,
				DetectorName:     name,
				DetectorDuration: dur,
				DetectorStatus:   StatusFailed,
				DetectorError:    derr.Error(),
			})
			continue
		}

		issues = append(issues, stamp(found, name)...)
		emit(ec, ProgressEvent{
			Phase:            PhaseRunDetectors,
			Completed:        completed,
			Total:            total,
			DetectorName:     name,
			DetectorDuration: dur,
			DetectorStatus:   StatusSuccess,
		})
	}

	emit(ec, ProgressEvent{Phase: PhaseAggregateResults, Completed: completed, Total: total})
	emit(ec, ProgressEvent{Phase: PhaseComplete, Completed: completed, Total: total})
	return issues, nil
}

func (e *SequentialExecutor) Shutdown() error {
	return nil
}
