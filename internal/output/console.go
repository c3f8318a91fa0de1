package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"insight/internal/detect"
)

var severityColors = map[detect.Severity]*color.Color{
	detect.SeverityError:   color.New(color.FgRed, color.Bold),
	detect.SeverityWarning: color.New(color.FgYellow),
	detect.SeverityInfo:    color.New(color.FgCyan),
}

type ConsoleSink struct {
	writer            io.Writer
	format            string // "text", "json", "ndjson"
	mu                sync.Mutex
	issues            []detect.Issue // For JSON array output
	allowedSeverities map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filterSeverities []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterSeverities) > 0 {
		s.allowedSeverities = make(map[string]bool)
		for _, sev := range filterSeverities {
			// Normalize to uppercase for case-insensitive comparison.
			// Severities are "ERROR", "WARNING", "INFO".
			s.allowedSeverities[strings.ToUpper(sev)] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	// Apply filtering if configured
	if len(s.allowedSeverities) > 0 {
		if is, ok := v.(detect.Issue); ok {
			if !s.allowedSeverities[string(is.Severity)] {
				return nil
			}
		}
	}

	switch s.format {
	case "json":
		is, ok := v.(detect.Issue)
		if !ok {
			// Ignore lifecycle events in JSON console mode.
			return nil
		}
		s.issues = append(s.issues, is)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case detect.Issue:
			if err := encoder.Encode(eventFromIssue(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		is, ok := v.(detect.Issue)
		if !ok {
			// Ignore events in text mode.
			return nil
		}
		if err := s.printIssue(is); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) printIssue(is detect.Issue) error {
	label := string(is.Severity)
	if c, ok := severityColors[is.Severity]; ok {
		label = c.Sprint(label)
	}

	location := fmt.Sprintf("%s:%d", is.File, is.Line)
	if is.Column > 0 {
		location = fmt.Sprintf("%s:%d", location, is.Column)
	}

	_, err := fmt.Fprintf(s.writer, "[%s] %s (%s): %s\n", label, location, is.Detector, is.Message)
	return err
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.issues); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
