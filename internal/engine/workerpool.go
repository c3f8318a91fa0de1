package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"insight/internal/detect"
	"insight/internal/pool"
)

// WorkerPool is the contract the worker-pool strategy consumes. Process
// returns one result per task, order preserved. Initialize may fail; that
// failure is contained by the executor, never surfaced to callers.
type WorkerPool interface {
	Initialize() error
	Process(ctx context.Context, tasks []pool.Task) []pool.TaskResult
	Errors() map[string][]error
	Shutdown() error
}

// WorkerPoolConfig configures the worker-pool strategy. Zero values select
// the fan-out defaults for concurrency and deadline.
type WorkerPoolConfig struct {
	MaxConcurrency  int
	DetectorTimeout time.Duration

	// UseWorkerPool gates pool mode. When false every run uses the fan-out
	// algorithm directly.
	UseWorkerPool bool

	// LogWriter receives the fallback notice when pool initialization
	// fails. Defaults to stderr.
	LogWriter io.Writer
}

// WorkerPoolExecutor dispatches detectors to an isolated worker pool. The
// pool is a long-lived resource owned by this executor: lazily created on
// first use, reused across runs, torn down by Shutdown.
//
// If pool initialization fails, pool mode is permanently disabled for this
// executor's lifetime and every run degrades to the fan-out algorithm. The
// degradation is logged, never returned as an error.
type WorkerPoolExecutor struct {
	cfg      WorkerPoolConfig
	fallback *FanoutExecutor

	mu           sync.Mutex
	pool         WorkerPool
	poolDisabled bool

	// initGroup collapses concurrent first-use initialization attempts
	// into one.
	initGroup singleflight.Group

	// newPool is a test seam; the default constructs pool.New.
	newPool func(workers int, taskTimeout time.Duration) WorkerPool
}

func NewWorkerPoolExecutor(cfg WorkerPoolConfig) *WorkerPoolExecutor {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultMaxConcurrency()
	}
	if cfg.DetectorTimeout <= 0 {
		cfg.DetectorTimeout = defaultDetectorTimeout
	}
	if cfg.LogWriter == nil {
		cfg.LogWriter = os.Stderr
	}
	return &WorkerPoolExecutor{
		cfg: cfg,
		fallback: NewFanoutExecutor(FanoutConfig{
			MaxConcurrency:  cfg.MaxConcurrency,
			DetectorTimeout: cfg.DetectorTimeout,
		}),
		newPool: func(workers int, taskTimeout time.Duration) WorkerPool {
			return pool.New(workers, taskTimeout)
		},
	}
}

// ensurePool returns the initialized pool, or nil when pool mode is off or
// has been disabled by an initialization failure.
func (e *WorkerPoolExecutor) ensurePool() WorkerPool {
	if !e.cfg.UseWorkerPool {
		return nil
	}

	e.mu.Lock()
	if e.poolDisabled {
		e.mu.Unlock()
		return nil
	}
	if e.pool != nil {
		p := e.pool
		e.mu.Unlock()
		return p
	}
	e.mu.Unlock()

	v, err, _ := e.initGroup.Do("init", func() (any, error) {
		p := e.newPool(e.cfg.MaxConcurrency, e.cfg.DetectorTimeout)
		if err := p.Initialize(); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		e.mu.Lock()
		if !e.poolDisabled {
			e.poolDisabled = true
			fmt.Fprintf(e.cfg.LogWriter, "worker pool initialization failed, falling back to fan-out execution: %v\n", err)
		}
		e.mu.Unlock()
		return nil
	}

	p := v.(WorkerPool)
	e.mu.Lock()
	e.pool = p
	e.mu.Unlock()
	return p
}

func (e *WorkerPoolExecutor) RunDetectors(ctx context.Context, ec *ExecutionContext) ([]detect.Issue, error) {
	p := e.ensurePool()
	if p == nil {
		return e.fallback.RunDetectors(ctx, ec)
	}

	names, err := resolveRun(ec)
	if err != nil {
		return nil, err
	}
	run, skipped := partitionBySkip(names, ec.ChangedFiles)
	total := len(run)

	emit(ec, ProgressEvent{
		Phase:            PhaseRunDetectors,
		Total:            total,
		DetectorsSkipped: skipped,
	})

	// One task per detector, submitted in one batch. The first detector
	// gets an elevated priority; the hint is advisory, the pool owes no
	// ordering guarantee.
	tasks := make([]pool.Task, len(run))
	for i, name := range run {
		priority := pool.PriorityNormal
		if i == 0 {
			priority = pool.PriorityHigh
		}
		tasks[i] = pool.Task{
			ID:            uuid.NewString(),
			DetectorName:  name,
			WorkspaceRoot: ec.WorkspaceRoot,
			Priority:      priority,
		}
	}

	results := p.Process(ctx, tasks)

	issues := make([]detect.Issue, 0)
	completed := 0
	for _, res := range results {
		completed++

		ev := ProgressEvent{
			Phase:            PhaseRunDetectors,
			Completed:        completed,
			Total:            total,
			DetectorName:     res.DetectorName,
			DetectorDuration: res.Duration,
		}
		switch {
		case res.TimedOut:
			ev.DetectorStatus = StatusTimeout
		case res.Failed():
			ev.DetectorStatus = StatusFailed
		default:
			ev.DetectorStatus = StatusSuccess
		}
		if len(res.Errors) > 0 {
			ev.DetectorError = res.Errors[0].Error()
		}
		emit(ec, ev)

		// Crashed and timed-out results contribute zero issues; partial
		// output from a dead worker is never trusted.
		if ev.DetectorStatus == StatusSuccess {
			issues = append(issues, stamp(res.Issues, res.DetectorName)...)
		}
	}

	emit(ec, ProgressEvent{Phase: PhaseAggregateResults, Completed: completed, Total: total})
	emit(ec, ProgressEvent{Phase: PhaseComplete, Completed: completed, Total: total})
	return issues, nil
}

// Shutdown terminates the pool and resets initialization state, so a later
// run re-attempts pool construction even after a previous failure. Safe to
// call multiple times.
func (e *WorkerPoolExecutor) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if e.pool != nil {
		err = e.pool.Shutdown()
	}
	e.pool = nil
	e.poolDisabled = false
	return err
}
