package detect

import (
	"context"
	"testing"
)

type dummyDetector struct {
	name string
}

func (d *dummyDetector) Name() string        { return d.name }
func (d *dummyDetector) Title() string       { return "Dummy Detector" }
func (d *dummyDetector) Description() string { return "Does nothing" }
func (d *dummyDetector) Metadata() Metadata  { return Metadata{} }
func (d *dummyDetector) Detect(ctx context.Context, workspaceRoot string) ([]Issue, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	// Clear registry for test
	mu.Lock()
	registry = make(map[string]Detector)
	mu.Unlock()

	Register(&dummyDetector{name: "det1"})
	Register(&dummyDetector{name: "det2"})

	all := List()
	if len(all) != 2 {
		t.Errorf("Expected 2 detectors, got %d", len(all))
	}
	if all[0].Name() != "det1" || all[1].Name() != "det2" {
		t.Errorf("List not sorted by name: %v, %v", all[0].Name(), all[1].Name())
	}

	names := DefaultNames()
	if len(names) != 2 || names[0] != "det1" || names[1] != "det2" {
		t.Errorf("DefaultNames = %v", names)
	}

	d, err := Load("det1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Name() != "det1" {
		t.Errorf("Load returned %s, want det1", d.Name())
	}
	if _, err := Load("unknown"); err == nil {
		t.Error("Expected error for unknown detector")
	}

	selected, err := Resolve("det2")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(selected) != 1 || selected[0].Name() != "det2" {
		t.Errorf("Expected det2, got %v", selected)
	}

	selected, err = Resolve("det1, det2")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(selected) != 2 {
		t.Errorf("Expected 2 detectors, got %d", len(selected))
	}

	selected, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(selected) != 2 {
		t.Errorf("Expected 2 detectors, got %d", len(selected))
	}

	if _, err := Resolve("unknown"); err == nil {
		t.Error("Expected error for unknown detector")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	mu.Lock()
	registry = make(map[string]Detector)
	mu.Unlock()

	Register(&dummyDetector{name: "dup"})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic on duplicate registration")
		}
	}()
	Register(&dummyDetector{name: "dup"})
}

func TestRegisteredDetectorsAreWrapped(t *testing.T) {
	mu.Lock()
	registry = make(map[string]Detector)
	mu.Unlock()

	Register(&dummyDetector{name: "plain"})
	d, err := Load("plain")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// Every registered detector supports ignore.paths via the wrapper.
	cd, ok := d.(ConfigurableDetector)
	if !ok {
		t.Fatal("registered detector is not configurable")
	}
	if err := cd.Configure(map[string]string{"ignore.paths": "*.min.js"}); err != nil {
		t.Errorf("Configure failed: %v", err)
	}
}
