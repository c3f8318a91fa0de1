// Package pool runs detectors on a bounded set of isolated workers.
//
// Each task executes on its own goroutine behind a weighted semaphore;
// panics are recovered and reported as crashes, and per-task deadlines
// cancel the task's context and mark it timed out. Cross-process transport
// is deliberately out of scope; this is the in-process implementation of
// the contract the engine consumes (Initialize, Process, Errors, Shutdown).
package pool

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"insight/internal/detect"
)

type Pool struct {
	workers     int
	taskTimeout time.Duration

	mu          sync.Mutex
	sem         *semaphore.Weighted
	errs        map[string][]error
	initialized bool
}

// New returns an uninitialized pool. Initialize must be called before
// Process.
func New(workers int, taskTimeout time.Duration) *Pool {
	return &Pool{
		workers:     workers,
		taskTimeout: taskTimeout,
	}
}

// Initialize prepares the pool's workers. Calling Initialize on an already
// initialized pool is a no-op.
func (p *Pool) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if p.workers <= 0 {
		return fmt.Errorf("pool workers must be >= 1, got %d", p.workers)
	}
	if p.taskTimeout <= 0 {
		return fmt.Errorf("pool task timeout must be > 0, got %s", p.taskTimeout)
	}

	p.sem = semaphore.NewWeighted(int64(p.workers))
	p.errs = make(map[string][]error)
	p.initialized = true
	return nil
}

// Process runs all tasks and returns one result per task, order preserved.
// Tasks are started in descending priority order (a stable sort, so equal
// priorities keep submission order); priority is advisory and does not
// guarantee completion order. Process never returns early: every result
// slot is filled even when tasks crash or time out.
func (p *Pool) Process(ctx context.Context, tasks []Task) []TaskResult {
	results := make([]TaskResult, len(tasks))

	p.mu.Lock()
	initialized := p.initialized
	sem := p.sem
	p.mu.Unlock()

	if !initialized {
		for i, t := range tasks {
			results[i] = TaskResult{
				TaskID:       t.ID,
				DetectorName: t.DetectorName,
				Errors:       []error{fmt.Errorf("pool is not initialized")},
			}
		}
		return results
	}

	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tasks[order[a]].Priority > tasks[order[b]].Priority
	})

	var wg sync.WaitGroup
	for _, idx := range order {
		task := tasks[idx]
		wg.Add(1)
		go func(i int, t Task) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = TaskResult{
					TaskID:       t.ID,
					DetectorName: t.DetectorName,
					Errors:       []error{fmt.Errorf("acquire worker: %w", err)},
				}
				return
			}
			defer sem.Release(1)

			results[i] = p.runTask(ctx, t)
		}(idx, task)
	}
	wg.Wait()

	p.recordErrors(results)
	return results
}

// runTask executes one task on an isolated worker goroutine, racing it
// against the per-task deadline. A timed-out task's context is cancelled so
// the worker actually stops; a panicking worker is contained and reported
// as crashed.
func (p *Pool) runTask(ctx context.Context, t Task) TaskResult {
	start := time.Now()

	taskCtx, cancel := context.WithTimeout(ctx, p.taskTimeout)
	defer cancel()

	type workerResult struct {
		issues  []detect.Issue
		err     error
		crashed bool
	}
	done := make(chan workerResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- workerResult{err: fmt.Errorf("worker panic: %v", r), crashed: true}
			}
		}()

		d, err := detect.Load(t.DetectorName)
		if err != nil {
			done <- workerResult{err: err}
			return
		}
		issues, err := d.Detect(taskCtx, t.WorkspaceRoot)
		done <- workerResult{issues: issues, err: err}
	}()

	select {
	case res := <-done:
		out := TaskResult{
			TaskID:       t.ID,
			DetectorName: t.DetectorName,
			Crashed:      res.crashed,
			Duration:     time.Since(start),
		}
		if res.err != nil {
			out.Errors = append(out.Errors, res.err)
		}
		if !out.Failed() {
			out.Issues = res.issues
		}
		return out
	case <-taskCtx.Done():
		return TaskResult{
			TaskID:       t.ID,
			DetectorName: t.DetectorName,
			TimedOut:     true,
			Errors:       []error{fmt.Errorf("task deadline exceeded after %s", p.taskTimeout)},
			Duration:     time.Since(start),
		}
	}
}

func (p *Pool) recordErrors(results []TaskResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.errs == nil {
		return
	}
	for _, r := range results {
		if len(r.Errors) > 0 {
			p.errs[r.DetectorName] = append(p.errs[r.DetectorName], r.Errors...)
		}
	}
}

// Errors returns the per-detector errors accumulated across Process calls.
func (p *Pool) Errors() map[string][]error {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string][]error, len(p.errs))
	for name, errs := range p.errs {
		out[name] = append([]error(nil), errs...)
	}
	return out
}

// Shutdown tears the pool down. Safe to call multiple times; a subsequent
// Initialize brings the pool back up.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sem = nil
	p.errs = nil
	p.initialized = false
	return nil
}
