package detectors

import (
	"context"
	"strings"

	"insight/internal/detect"
)

func init() {
	detect.Register(&mixedIndentationDetector{})
}

// mixedIndentationDetector flags lines whose leading whitespace mixes tabs
// and spaces.
type mixedIndentationDetector struct{}

func (d *mixedIndentationDetector) Name() string  { return "mixed-indentation" }
func (d *mixedIndentationDetector) Title() string { return "Mixed indentation" }
func (d *mixedIndentationDetector) Description() string {
	return "Flags lines indented with a mix of tabs and spaces."
}

func (d *mixedIndentationDetector) Metadata() detect.Metadata {
	return detect.Metadata{
		Scope:      detect.ScopeFile,
		Extensions: codeExtensions,
	}
}

func (d *mixedIndentationDetector) Detect(ctx context.Context, workspaceRoot string) ([]detect.Issue, error) {
	var issues []detect.Issue
	err := eachFileLines(ctx, workspaceRoot, codeExtensions, func(rel string, lines []string) error {
		for i, line := range lines {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			if !strings.Contains(indent, " ") || !strings.Contains(indent, "\t") {
				continue
			}
			// Gofmt-style alignment (tabs then spaces) is common; only
			// spaces *before* a tab count as mixed.
			if !strings.Contains(indent, " \t") {
				continue
			}
			issues = append(issues, detect.Issue{
				File:     rel,
				Line:     i + 1,
				Column:   1,
				Severity: detect.SeverityWarning,
				Message:  "indentation mixes spaces and tabs",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}
