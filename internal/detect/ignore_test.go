package detect

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIgnoreListIgnored(t *testing.T) {
	tests := []struct {
		name     string
		patterns string
		file     string
		want     bool
	}{
		{"no patterns", "", "main.go", false},
		{"exact path", "docs/readme.md", "docs/readme.md", true},
		{"glob on path", "testdata/*", "testdata/input.txt", true},
		{"glob misses nested", "testdata/*", "src/testdata/input.txt", false},
		{"basename pattern matches anywhere", "*.min.js", "assets/js/app.min.js", true},
		{"case-insensitive", "*.MD", "README.md", true},
		{"backslash paths normalized", "docs/*", `docs\readme.md`, true},
		{"non-matching", "*.py", "main.go", false},
		{"multiple patterns", "*.py, *.go", "main.go", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var il IgnoreList
			il.Configure(map[string]string{"ignore.paths": tt.patterns})
			if got := il.Ignored(tt.file); got != tt.want {
				t.Errorf("Ignored(%q) with %q = %v, want %v", tt.file, tt.patterns, got, tt.want)
			}
		})
	}
}

func TestIgnoreListFilter(t *testing.T) {
	var il IgnoreList
	il.Configure(map[string]string{"ignore.paths": "vendor/*"})

	issues := []Issue{
		{File: "main.go", Message: "keep"},
		{File: "vendor/lib.go", Message: "drop"},
		{File: "cmd/app.go", Message: "keep"},
	}
	kept := il.Filter(issues)
	if len(kept) != 2 {
		t.Fatalf("got %d issues, want 2", len(kept))
	}
	for _, is := range kept {
		if is.Message != "keep" {
			t.Errorf("unexpected surviving issue: %+v", is)
		}
	}
}

func TestIgnoreListReconfigureReplacesPatterns(t *testing.T) {
	var il IgnoreList
	il.Configure(map[string]string{"ignore.paths": "*.go"})
	il.Configure(map[string]string{"ignore.paths": "*.py"})
	if il.Ignored("main.go") {
		t.Error("old pattern survived reconfiguration")
	}
	if !il.Ignored("main.py") {
		t.Error("new pattern not applied")
	}
}

type configurableDummy struct {
	dummyDetector
	configured map[string]string
	detectErr  error
	issues     []Issue
}

func (d *configurableDummy) Options() []Option {
	return []Option{{Name: "level", Description: "test option", Default: "1"}}
}

func (d *configurableDummy) Configure(opts map[string]string) error {
	for name := range opts {
		if name != "level" {
			return fmt.Errorf("unknown option %q for detector %s", name, d.Name())
		}
	}
	d.configured = opts
	return nil
}

func (d *configurableDummy) Detect(ctx context.Context, workspaceRoot string) ([]Issue, error) {
	return d.issues, d.detectErr
}

func TestIgnoreWrapperFiltersAndDelegates(t *testing.T) {
	inner := &configurableDummy{
		dummyDetector: dummyDetector{name: "wrapped"},
		issues: []Issue{
			{File: "keep.go", Message: "keep"},
			{File: "skip/ignored.go", Message: "drop"},
		},
	}
	w := &IgnoreWrapper{Detector: inner}

	// The inner detector rejects unknown keys, so this also verifies the
	// wrapper strips ignore.paths before delegating.
	if err := w.Configure(map[string]string{"ignore.paths": "skip/*", "level": "2"}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if inner.configured["level"] != "2" {
		t.Error("inner detector did not receive options")
	}
	if _, ok := inner.configured["ignore.paths"]; ok {
		t.Error("wrapper-owned option leaked to the inner detector")
	}

	issues, err := w.Detect(context.Background(), ".")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(issues) != 1 || issues[0].File != "keep.go" {
		t.Errorf("issues = %+v, want only keep.go", issues)
	}

	opts := w.Options()
	if len(opts) != 2 {
		t.Fatalf("got %d options, want ignore.paths plus the inner option", len(opts))
	}
	if opts[0].Name != "ignore.paths" || opts[1].Name != "level" {
		t.Errorf("options = %+v", opts)
	}
}

func TestIgnoreWrapperPassesThroughErrors(t *testing.T) {
	inner := &configurableDummy{
		dummyDetector: dummyDetector{name: "angry"},
		detectErr:     errors.New("boom"),
	}
	w := &IgnoreWrapper{Detector: inner}
	if _, err := w.Detect(context.Background(), "."); err == nil {
		t.Error("expected the inner detector's error")
	}
}
