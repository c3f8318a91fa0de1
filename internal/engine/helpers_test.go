package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"insight/internal/detect"
)

// stubDetector is a minimal registrable detector for executor tests.
type stubDetector struct {
	name string
	meta detect.Metadata
	fn   func(ctx context.Context, workspaceRoot string) ([]detect.Issue, error)
}

func (d *stubDetector) Name() string              { return d.name }
func (d *stubDetector) Title() string             { return "Stub" }
func (d *stubDetector) Description() string       { return "Test stub" }
func (d *stubDetector) Metadata() detect.Metadata { return d.meta }
func (d *stubDetector) Detect(ctx context.Context, workspaceRoot string) ([]detect.Issue, error) {
	return d.fn(ctx, workspaceRoot)
}

var stubSeq atomic.Int64

// registerStub registers a stub detector under a unique name. The registry is
// global and has no Unregister, so names must never repeat within the test
// binary.
func registerStub(t *testing.T, meta detect.Metadata, fn func(ctx context.Context, workspaceRoot string) ([]detect.Issue, error)) string {
	t.Helper()
	name := fmt.Sprintf("stub-%d", stubSeq.Add(1))
	detect.Register(&stubDetector{name: name, meta: meta, fn: fn})
	return name
}

// issueStub registers a stub that reports a single issue with the given
// message.
func issueStub(t *testing.T, message string) string {
	t.Helper()
	return registerStub(t, detect.Metadata{}, func(ctx context.Context, root string) ([]detect.Issue, error) {
		return []detect.Issue{{File: "a.go", Line: 1, Severity: detect.SeverityWarning, Message: message}}, nil
	})
}

// collectEvents returns an ExecutionContext that appends every progress event
// to the returned slice pointer.
func collectEvents(root string, names []string, changed []string) (*ExecutionContext, *[]ProgressEvent) {
	events := &[]ProgressEvent{}
	ec := &ExecutionContext{
		WorkspaceRoot: root,
		DetectorNames: names,
		ChangedFiles:  changed,
		OnProgress: func(ev ProgressEvent) {
			*events = append(*events, ev)
		},
	}
	return ec, events
}
