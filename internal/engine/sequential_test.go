package engine

import (
	"context"
	"errors"
	"testing"

	"insight/internal/detect"
)

func TestSequentialRunsInOrderAndStamps(t *testing.T) {
	var order []string
	a := registerStub(t, detect.Metadata{}, func(ctx context.Context, root string) ([]detect.Issue, error) {
		order = append(order, "a")
		return []detect.Issue{{File: "x.go", Line: 1, Message: "from a"}}, nil
	})
	b := registerStub(t, detect.Metadata{}, func(ctx context.Context, root string) ([]detect.Issue, error) {
		order = append(order, "b")
		return []detect.Issue{{File: "y.go", Line: 2, Message: "from b"}}, nil
	})

	ec, events := collectEvents(t.TempDir(), []string{a, b}, nil)
	issues, err := NewSequentialExecutor().RunDetectors(context.Background(), ec)
	if err != nil {
		t.Fatalf("RunDetectors failed: %v", err)
	}

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("execution order = %v, want [a b]", order)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	if issues[0].Detector != a || issues[1].Detector != b {
		t.Errorf("issues not stamped with detector names: %+v", issues)
	}

	// Two detector completions, then aggregateResults, then complete.
	if len(*events) != 4 {
		t.Fatalf("got %d events, want 4: %+v", len(*events), *events)
	}
	for i, ev := range (*events)[:2] {
		if ev.Phase != PhaseRunDetectors || ev.DetectorStatus != StatusSuccess {
			t.Errorf("event %d = %+v, want runDetectors/success", i, ev)
		}
		if ev.Completed != i+1 || ev.Total != 2 {
			t.Errorf("event %d progress = %d/%d, want %d/2", i, ev.Completed, ev.Total, i+1)
		}
	}
	if (*events)[2].Phase != PhaseAggregateResults || (*events)[3].Phase != PhaseComplete {
		t.Errorf("trailing phases = %v, %v", (*events)[2].Phase, (*events)[3].Phase)
	}
}

func TestSequentialFailureDoesNotAbort(t *testing.T) {
	boom := registerStub(t, detect.Metadata{}, func(ctx context.Context, root string) ([]detect.Issue, error) {
		return nil, errors.New("boom")
	})
	ok := issueStub(t, "survivor")

	ec, events := collectEvents(t.TempDir(), []string{boom, ok}, nil)
	issues, err := NewSequentialExecutor().RunDetectors(context.Background(), ec)
	if err != nil {
		t.Fatalf("RunDetectors failed: %v", err)
	}

	if len(issues) != 1 || issues[0].Message != "survivor" {
		t.Fatalf("issues = %+v, want the survivor's issue only", issues)
	}

	var sawFailed bool
	for _, ev := range *events {
		if ev.DetectorName == boom && ev.DetectorStatus == StatusFailed {
			sawFailed = true
			if ev.DetectorError == "" {
				t.Error("failed event carries no error text")
			}
		}
	}
	if !sawFailed {
		t.Error("no failed event for the failing detector")
	}
}

func TestSequentialPanicIsContained(t *testing.T) {
	angry := registerStub(t, detect.Metadata{}, func(ctx context.Context, root string) ([]detect.Issue, error) {
		panic("detector bug")
	})

	ec, events := collectEvents(t.TempDir(), []string{angry}, nil)
	if _, err := NewSequentialExecutor().RunDetectors(context.Background(), ec); err != nil {
		t.Fatalf("RunDetectors failed: %v", err)
	}
	if (*events)[0].DetectorStatus != StatusFailed {
		t.Errorf("panicking detector status = %s, want failed", (*events)[0].DetectorStatus)
	}
}

func TestSequentialUnreadableRootPropagates(t *testing.T) {
	name := issueStub(t, "never runs")
	ec, _ := collectEvents("/no/such/dir", []string{name}, nil)
	if _, err := NewSequentialExecutor().RunDetectors(context.Background(), ec); err == nil {
		t.Fatal("expected an error for an unreadable workspace root")
	}
}

func TestSequentialEmitsNoSkipAnnouncement(t *testing.T) {
	skippable := registerStub(t,
		detect.Metadata{Scope: detect.ScopeFile, Extensions: []string{".go"}},
		func(ctx context.Context, root string) ([]detect.Issue, error) { return nil, nil })
	ran := issueStub(t, "ran")

	ec, events := collectEvents(t.TempDir(), []string{skippable, ran}, []string{})
	issues, err := NewSequentialExecutor().RunDetectors(context.Background(), ec)
	if err != nil {
		t.Fatalf("RunDetectors failed: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}

	for _, ev := range *events {
		if ev.DetectorsSkipped != nil {
			t.Errorf("sequential emitted a skip announcement: %+v", ev)
		}
		if ev.DetectorName == skippable {
			t.Errorf("skipped detector appeared in events: %+v", ev)
		}
	}
}

func TestSequentialCompletedIsMonotonic(t *testing.T) {
	names := make([]string, 5)
	for i := range names {
		names[i] = issueStub(t, "n")
	}

	ec, events := collectEvents(t.TempDir(), names, nil)
	if _, err := NewSequentialExecutor().RunDetectors(context.Background(), ec); err != nil {
		t.Fatalf("RunDetectors failed: %v", err)
	}

	prev := 0
	for _, ev := range *events {
		if ev.Completed < prev {
			t.Fatalf("Completed regressed: %d after %d", ev.Completed, prev)
		}
		prev = ev.Completed
	}
}
