package github

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// stubGH installs a fake gh binary as the only thing on PATH.
func stubGH(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("gh stub is a shell script")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gh"), []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write gh stub: %v", err)
	}
	t.Setenv("PATH", dir)
}

func TestResolveTokenPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		explicit   string
		env        string
		gh         string // stub script body; empty means no gh on PATH
		wantToken  string
		wantSource TokenSource
	}{
		{"explicit wins and is trimmed", " flag-token ", "env-token", "echo gh-token", "flag-token", TokenFromFlag},
		{"env wins over gh", "", "env-token", "echo gh-token", "env-token", TokenFromEnv},
		{"gh consulted last", "", "", "echo gh-token", "gh-token", TokenFromGH},
		{"nothing available", "", "", "", "", ""},
		{"logged-out gh is not an error", "", "", "exit 1", "", ""},
		{"blank gh output is no token", "", "", "echo ''", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", tt.env)
			if tt.gh == "" {
				t.Setenv("PATH", t.TempDir())
			} else {
				stubGH(t, tt.gh)
			}

			tok, src, err := ResolveToken(context.Background(), tt.explicit)
			if err != nil {
				t.Fatalf("ResolveToken error: %v", err)
			}
			if tok != tt.wantToken || src != tt.wantSource {
				t.Errorf("got (%q, %q), want (%q, %q)", tok, src, tt.wantToken, tt.wantSource)
			}
		})
	}
}

func TestResolveTokenRejectsMultiWordGHOutput(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	stubGH(t, "printf 'one two\\n'")

	if _, _, err := ResolveToken(context.Background(), ""); err == nil {
		t.Fatal("expected error for gh output that is not a single token")
	}
}

func TestResolveTokenPropagatesCancellation(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	stubGH(t, "echo gh-token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ResolveToken(ctx, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
