package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeWorkspaceFile(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadFileMissing(t *testing.T) {
	fc, err := LoadFile(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if fc != nil {
		t.Errorf("missing file returned %+v, want nil", fc)
	}
}

func TestLoadFile(t *testing.T) {
	root := writeWorkspaceFile(t, `
detectors: long-lines,todo-comments
set:
  - long-lines.max_length=100
strategy: sequential
concurrency: 2
detector_timeout: 45s
`)

	fc, err := LoadFile(root)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if fc.Detectors != "long-lines,todo-comments" {
		t.Errorf("detectors = %q", fc.Detectors)
	}
	if len(fc.Set) != 1 || fc.Set[0] != "long-lines.max_length=100" {
		t.Errorf("set = %v", fc.Set)
	}
	if fc.Strategy != "sequential" || fc.Concurrency != 2 || fc.DetectorTimeout != "45s" {
		t.Errorf("loaded = %+v", fc)
	}
}

func TestLoadFileRejectsBadYAMLAndDuration(t *testing.T) {
	if _, err := LoadFile(writeWorkspaceFile(t, "detectors: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
	if _, err := LoadFile(writeWorkspaceFile(t, "detector_timeout: soon")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestApplyFilePrecedence(t *testing.T) {
	fc := &FileConfig{
		Detectors:       "todo-comments",
		Strategy:        "sequential",
		Concurrency:     8,
		DetectorTimeout: "45s",
	}

	t.Run("file fills unset flags", func(t *testing.T) {
		cfg := New()
		cfg.ApplyFile(fc, func(flag string) bool { return false })
		if cfg.Detectors.Selector != "todo-comments" {
			t.Errorf("selector = %q", cfg.Detectors.Selector)
		}
		if cfg.Runtime.Strategy != "sequential" {
			t.Errorf("strategy = %q", cfg.Runtime.Strategy)
		}
		if cfg.Runtime.Concurrency != 8 {
			t.Errorf("concurrency = %d", cfg.Runtime.Concurrency)
		}
		if cfg.Runtime.DetectorTimeout != 45*time.Second {
			t.Errorf("detector timeout = %s", cfg.Runtime.DetectorTimeout)
		}
	})

	t.Run("command-line flags win", func(t *testing.T) {
		cfg := New()
		cfg.Detectors.Selector = "long-lines"
		cfg.Runtime.Strategy = StrategyPool
		cfg.ApplyFile(fc, func(flag string) bool {
			return flag == "detectors" || flag == "strategy"
		})
		if cfg.Detectors.Selector != "long-lines" {
			t.Errorf("selector overwritten: %q", cfg.Detectors.Selector)
		}
		if cfg.Runtime.Strategy != StrategyPool {
			t.Errorf("strategy overwritten: %q", cfg.Runtime.Strategy)
		}
		// Unset flags still merge.
		if cfg.Runtime.Concurrency != 8 {
			t.Errorf("concurrency = %d, want 8", cfg.Runtime.Concurrency)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		cfg := New()
		cfg.ApplyFile(nil, func(flag string) bool { return false })
		if cfg.Detectors.Selector != "" {
			t.Errorf("selector = %q, want empty", cfg.Detectors.Selector)
		}
	})
}
