package detectors

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"insight/internal/detect"
)

const defaultMaxLineLength = 120

func init() {
	detect.Register(&longLinesDetector{maxLength: defaultMaxLineLength})
}

// longLinesDetector flags lines longer than a configurable limit.
type longLinesDetector struct {
	maxLength int
}

func (d *longLinesDetector) Name() string  { return "long-lines" }
func (d *longLinesDetector) Title() string { return "Long lines" }
func (d *longLinesDetector) Description() string {
	return "Flags lines exceeding the configured maximum length."
}

func (d *longLinesDetector) Metadata() detect.Metadata {
	return detect.Metadata{
		Scope:      detect.ScopeFile,
		Extensions: codeExtensions,
	}
}

func (d *longLinesDetector) Options() []detect.Option {
	return []detect.Option{
		{
			Name:        "max_length",
			Description: "Maximum allowed line length in characters.",
			Default:     strconv.Itoa(defaultMaxLineLength),
		},
	}
}

func (d *longLinesDetector) Configure(opts map[string]string) error {
	for name, value := range opts {
		switch name {
		case "max_length":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid max_length %q: expected a positive integer", value)
			}
			d.maxLength = n
		default:
			return fmt.Errorf("unknown option %q for detector %s", name, d.Name())
		}
	}
	return nil
}

func (d *longLinesDetector) Detect(ctx context.Context, workspaceRoot string) ([]detect.Issue, error) {
	var issues []detect.Issue
	err := eachFileLines(ctx, workspaceRoot, codeExtensions, func(rel string, lines []string) error {
		for i, line := range lines {
			length := utf8.RuneCountInString(line)
			if length <= d.maxLength {
				continue
			}
			issues = append(issues, detect.Issue{
				File:     rel,
				Line:     i + 1,
				Column:   d.maxLength + 1,
				Severity: detect.SeverityWarning,
				Message:  fmt.Sprintf("line is %d characters (max %d)", length, d.maxLength),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}
