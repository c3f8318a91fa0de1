// Package detectors contains the built-in detectors. Each detector registers
// itself in an init function; importing this package (blank import from the
// binary) makes the full set available.
package detectors

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"insight/internal/workspace"
)

// codeExtensions is the default extension set for line-oriented detectors.
var codeExtensions = []string{
	".go", ".js", ".jsx", ".ts", ".tsx", ".py", ".rb", ".java", ".kt",
	".c", ".h", ".cpp", ".hpp", ".cs", ".rs", ".php", ".swift", ".sh",
}

// eachFileLines walks the workspace files matching exts (all files when exts
// is empty), splits each text file into lines, and calls fn per file. Binary
// files are skipped. Honors ctx between files so detectors stop promptly
// under a deadline.
func eachFileLines(ctx context.Context, root string, exts []string, fn func(rel string, lines []string) error) error {
	files, err := workspace.CollectFiles(root)
	if err != nil {
		return err
	}
	files = workspace.FilterByExtensions(files, exts)

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		if isBinary(data) {
			continue
		}
		if err := fn(rel, splitLines(data)); err != nil {
			return err
		}
	}
	return nil
}

// isBinary treats a NUL byte in the first 8000 bytes as binary content, the
// same heuristic git uses.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

func splitLines(data []byte) []string {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(s, "\n")
	// A trailing newline produces one empty trailing element; drop it so line
	// counts match editors.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
