package detectors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"insight/internal/detect"
	"insight/internal/workspace"
)

const defaultMaxFileBytes = 1 << 20 // 1 MiB

func init() {
	detect.Register(&largeFilesDetector{maxBytes: defaultMaxFileBytes})
}

// largeFilesDetector flags files larger than a configurable size. Workspace
// scope: size regressions matter regardless of which files changed, so it is
// never skipped by change-aware filtering.
type largeFilesDetector struct {
	maxBytes int64
}

func (d *largeFilesDetector) Name() string  { return "large-files" }
func (d *largeFilesDetector) Title() string { return "Large files" }
func (d *largeFilesDetector) Description() string {
	return "Flags files exceeding the configured size limit."
}

func (d *largeFilesDetector) Metadata() detect.Metadata {
	return detect.Metadata{Scope: detect.ScopeWorkspace}
}

func (d *largeFilesDetector) Options() []detect.Option {
	return []detect.Option{
		{
			Name:        "max_bytes",
			Description: "Maximum allowed file size in bytes.",
			Default:     strconv.FormatInt(defaultMaxFileBytes, 10),
		},
	}
}

func (d *largeFilesDetector) Configure(opts map[string]string) error {
	for name, value := range opts {
		switch name {
		case "max_bytes":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid max_bytes %q: expected a positive integer", value)
			}
			d.maxBytes = n
		default:
			return fmt.Errorf("unknown option %q for detector %s", name, d.Name())
		}
	}
	return nil
}

func (d *largeFilesDetector) Detect(ctx context.Context, workspaceRoot string) ([]detect.Issue, error) {
	files, err := workspace.CollectFiles(workspaceRoot)
	if err != nil {
		return nil, err
	}

	var issues []detect.Issue
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(filepath.Join(workspaceRoot, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", rel, err)
		}
		if info.Size() <= d.maxBytes {
			continue
		}
		issues = append(issues, detect.Issue{
			File:     rel,
			Line:     0,
			Severity: detect.SeverityWarning,
			Message:  fmt.Sprintf("file is %d bytes (max %d)", info.Size(), d.maxBytes),
		})
	}
	return issues, nil
}
