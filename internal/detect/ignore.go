package detect

import (
	"path"
	"strings"
)

// IgnoreList handles common path ignore logic for detectors. Patterns use
// Go path.Match syntax and are matched case-insensitively against the
// workspace-relative file path; a pattern without '/' also matches the
// path's base name, so "*.min.js" works anywhere in the tree.
type IgnoreList struct {
	Patterns []string
}

// Options returns the standard configuration options for path ignoring.
func (il *IgnoreList) Options() []Option {
	return []Option{
		{
			Name:        "ignore.paths",
			Description: "Comma-separated list of path patterns whose issues are dropped (e.g. testdata/*, *.min.js).",
		},
	}
}

// Configure parses the configuration options to populate the IgnoreList.
func (il *IgnoreList) Configure(opts map[string]string) {
	il.Patterns = nil

	if val, ok := opts["ignore.paths"]; ok && val != "" {
		for _, s := range strings.Split(val, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				il.Patterns = append(il.Patterns, strings.ToLower(s))
			}
		}
	}
}

// Ignored reports whether issues for the given file path should be dropped.
func (il *IgnoreList) Ignored(file string) bool {
	if len(il.Patterns) == 0 {
		return false
	}
	p := strings.ToLower(path.Clean(strings.ReplaceAll(file, "\\", "/")))
	base := path.Base(p)
	for _, pattern := range il.Patterns {
		if matched, _ := path.Match(pattern, p); matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, _ := path.Match(pattern, base); matched {
				return true
			}
		}
	}
	return false
}

// Filter returns issues with ignored file paths removed.
func (il *IgnoreList) Filter(issues []Issue) []Issue {
	if len(il.Patterns) == 0 || len(issues) == 0 {
		return issues
	}
	kept := issues[:0]
	for _, is := range issues {
		if il.Ignored(is.File) {
			continue
		}
		kept = append(kept, is)
	}
	return kept
}
