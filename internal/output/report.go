package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"insight/internal/detect"
	"insight/internal/engine"
)

// ReportSink accumulates the whole run and writes a Markdown report on
// Close.
type ReportSink struct {
	path         string
	file         *os.File
	mu           sync.Mutex
	issues       []detect.Issue
	workspace    string
	skipped      []string
	statuses     map[string]string // detector -> terminal status
	exitCode     int
	haveExitCode bool
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path:     path,
		file:     f,
		statuses: make(map[string]string),
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case detect.Issue:
		s.issues = append(s.issues, t)
	case Event:
		switch t.Type {
		case "run.started":
			s.workspace = t.Workspace
		case "progress":
			if len(t.Skipped) > 0 {
				s.skipped = append(s.skipped, t.Skipped...)
			}
			if t.Detector != "" && t.Status != "" {
				s.statuses[t.Detector] = t.Status
			}
		case "run.finished":
			s.exitCode = t.ExitCode
			s.haveExitCode = true
		}
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("# Insight Scan Report\n\n")
	if s.workspace != "" {
		fmt.Fprintf(&b, "Workspace: `%s`\n\n", s.workspace)
	}

	// Summary
	bySeverity := make(map[detect.Severity]int)
	byDetector := make(map[string]int)
	for _, is := range s.issues {
		bySeverity[is.Severity]++
		byDetector[is.Detector]++
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Issues: %d\n", len(s.issues))
	for _, sev := range []detect.Severity{detect.SeverityError, detect.SeverityWarning, detect.SeverityInfo} {
		if n := bySeverity[sev]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d\n", sev, n)
		}
	}
	if s.haveExitCode {
		fmt.Fprintf(&b, "- Exit code: %d\n", s.exitCode)
	}
	b.WriteString("\n")

	// Detectors
	if len(s.statuses) > 0 || len(s.skipped) > 0 {
		b.WriteString("## Detectors\n\n")
		b.WriteString("| Detector | Status | Issues |\n")
		b.WriteString("|----------|--------|--------|\n")
		names := make([]string, 0, len(s.statuses))
		for name := range s.statuses {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "| %s | %s | %d |\n", name, s.statuses[name], byDetector[name])
		}
		skipped := append([]string(nil), s.skipped...)
		sort.Strings(skipped)
		for _, name := range skipped {
			fmt.Fprintf(&b, "| %s | %s | 0 |\n", name, engine.StatusSkipped)
		}
		b.WriteString("\n")
	}

	// Issues grouped by file
	if len(s.issues) > 0 {
		b.WriteString("## Issues\n\n")
		byFile := make(map[string][]detect.Issue)
		for _, is := range s.issues {
			byFile[is.File] = append(byFile[is.File], is)
		}
		files := make([]string, 0, len(byFile))
		for f := range byFile {
			files = append(files, f)
		}
		sort.Strings(files)
		for _, f := range files {
			fmt.Fprintf(&b, "### %s\n\n", f)
			issues := byFile[f]
			sort.Slice(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
			for _, is := range issues {
				fmt.Fprintf(&b, "- line %d [%s/%s]: %s\n", is.Line, is.Severity, is.Detector, is.Message)
			}
			b.WriteString("\n")
		}
	}

	var err error
	if _, werr := s.file.WriteString(b.String()); werr != nil {
		err = werr
	}
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
