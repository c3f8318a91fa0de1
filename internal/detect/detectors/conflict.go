package detectors

import (
	"context"
	"strings"

	"insight/internal/detect"
)

func init() {
	detect.Register(&conflictMarkersDetector{})
}

// conflictMarkersDetector flags unresolved VCS merge conflict markers. It
// declares no extensions: conflicts can land in any text file, so a change to
// any file keeps it running.
type conflictMarkersDetector struct{}

func (d *conflictMarkersDetector) Name() string  { return "conflict-markers" }
func (d *conflictMarkersDetector) Title() string { return "Merge conflict markers" }
func (d *conflictMarkersDetector) Description() string {
	return "Finds unresolved merge conflict markers left in files."
}

func (d *conflictMarkersDetector) Metadata() detect.Metadata {
	return detect.Metadata{Scope: detect.ScopeFile}
}

func (d *conflictMarkersDetector) Detect(ctx context.Context, workspaceRoot string) ([]detect.Issue, error) {
	var issues []detect.Issue
	err := eachFileLines(ctx, workspaceRoot, nil, func(rel string, lines []string) error {
		for i, line := range lines {
			flagged := strings.HasPrefix(line, "<<<<<<< ") ||
				strings.HasPrefix(line, "||||||| ") ||
				strings.HasPrefix(line, ">>>>>>> ")
			// "=======" alone is too common to flag outside a conflict;
			// require an opening marker earlier in the file.
			if !flagged && line == "=======" {
				flagged = hasOpeningMarker(lines[:i])
			}
			if !flagged {
				continue
			}
			issues = append(issues, detect.Issue{
				File:     rel,
				Line:     i + 1,
				Column:   1,
				Severity: detect.SeverityError,
				Message:  "unresolved merge conflict marker",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}

func hasOpeningMarker(lines []string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, "<<<<<<< ") {
			return true
		}
	}
	return false
}
