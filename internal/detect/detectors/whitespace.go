package detectors

import (
	"context"
	"strings"

	"insight/internal/detect"
)

func init() {
	detect.Register(&trailingWhitespaceDetector{})
}

// trailingWhitespaceDetector flags lines ending in spaces or tabs.
type trailingWhitespaceDetector struct{}

func (d *trailingWhitespaceDetector) Name() string  { return "trailing-whitespace" }
func (d *trailingWhitespaceDetector) Title() string { return "Trailing whitespace" }
func (d *trailingWhitespaceDetector) Description() string {
	return "Flags lines with trailing spaces or tabs."
}

func (d *trailingWhitespaceDetector) Metadata() detect.Metadata {
	return detect.Metadata{
		Scope:      detect.ScopeFile,
		Extensions: codeExtensions,
	}
}

func (d *trailingWhitespaceDetector) Detect(ctx context.Context, workspaceRoot string) ([]detect.Issue, error) {
	var issues []detect.Issue
	err := eachFileLines(ctx, workspaceRoot, codeExtensions, func(rel string, lines []string) error {
		for i, line := range lines {
			if line == "" {
				continue
			}
			trimmed := strings.TrimRight(line, " \t")
			if trimmed == line {
				continue
			}
			issues = append(issues, detect.Issue{
				File:     rel,
				Line:     i + 1,
				Column:   len(trimmed) + 1,
				Severity: detect.SeverityInfo,
				Message:  "trailing whitespace",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}
