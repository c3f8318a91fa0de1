package workspace

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ChangedFiles returns the workspace-relative paths that differ from
// baseRef, per `git diff --name-only`. The result is never nil on success:
// an empty change set comes back as an empty slice so callers can
// distinguish "no changes" from "no change information".
func ChangedFiles(ctx context.Context, root, baseRef string) ([]string, error) {
	if strings.TrimSpace(baseRef) == "" {
		return nil, fmt.Errorf("base ref is required")
	}

	// Keep this bounded so a hung credential helper or misconfigured
	// repository doesn't stall the scan.
	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, "git", "-C", root, "diff", "--name-only", baseRef)
	out, err := cmd.Output()
	if err != nil {
		if cmdCtx.Err() != nil {
			return nil, cmdCtx.Err()
		}
		return nil, fmt.Errorf("git diff --name-only %s: %w", baseRef, err)
	}

	changed := make([]string, 0)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		changed = append(changed, line)
	}
	return changed, nil
}
