package workspace

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func gitOrSkip(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func runGit(t *testing.T, root string, args ...string) {
	t.Helper()
	base := []string{"-C", root,
		"-c", "user.email=test@example.com",
		"-c", "user.name=test",
	}
	cmd := exec.Command("git", append(base, args...)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	runGit(t, root, "init", "-q")
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGit(t, root, "add", ".")
	runGit(t, root, "commit", "-q", "-m", "initial")
	return root
}

func TestChangedFiles(t *testing.T) {
	gitOrSkip(t)
	root := initRepo(t)

	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("package a // edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed, err := ChangedFiles(context.Background(), root, "HEAD")
	if err != nil {
		t.Fatalf("ChangedFiles failed: %v", err)
	}
	if len(changed) != 1 || changed[0] != "a.go" {
		t.Errorf("changed = %v, want [a.go]", changed)
	}
}

func TestChangedFilesEmptyDiffIsNonNil(t *testing.T) {
	gitOrSkip(t)
	root := initRepo(t)

	changed, err := ChangedFiles(context.Background(), root, "HEAD")
	if err != nil {
		t.Fatalf("ChangedFiles failed: %v", err)
	}
	if changed == nil {
		t.Fatal("empty diff returned nil; callers need non-nil to enable skipping")
	}
	if len(changed) != 0 {
		t.Errorf("changed = %v, want empty", changed)
	}
}

func TestChangedFilesRequiresRef(t *testing.T) {
	if _, err := ChangedFiles(context.Background(), t.TempDir(), "  "); err == nil {
		t.Error("expected error for blank base ref")
	}
}

func TestChangedFilesBadRepo(t *testing.T) {
	gitOrSkip(t)
	if _, err := ChangedFiles(context.Background(), t.TempDir(), "HEAD"); err == nil {
		t.Error("expected error outside a git repository")
	}
}
