package detectors

import (
	"context"
	"strings"

	"insight/internal/detect"
)

func init() {
	detect.Register(&todoDetector{})
}

// todoDetector flags TODO and FIXME markers left in source comments.
type todoDetector struct{}

func (d *todoDetector) Name() string  { return "todo-comments" }
func (d *todoDetector) Title() string { return "TODO comments" }
func (d *todoDetector) Description() string {
	return "Finds TODO and FIXME markers so deferred work stays visible."
}

func (d *todoDetector) Metadata() detect.Metadata {
	return detect.Metadata{
		Scope:      detect.ScopeFile,
		Extensions: codeExtensions,
	}
}

var todoMarkers = []string{"TODO", "FIXME", "XXX", "HACK"}

func (d *todoDetector) Detect(ctx context.Context, workspaceRoot string) ([]detect.Issue, error) {
	var issues []detect.Issue
	err := eachFileLines(ctx, workspaceRoot, codeExtensions, func(rel string, lines []string) error {
		for i, line := range lines {
			for _, marker := range todoMarkers {
				col := strings.Index(line, marker)
				if col < 0 {
					continue
				}
				issues = append(issues, detect.Issue{
					File:     rel,
					Line:     i + 1,
					Column:   col + 1,
					Severity: detect.SeverityInfo,
					Message:  marker + " comment",
				})
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}
