package engine

import (
	"path/filepath"
	"strings"

	"insight/internal/detect"
)

// ShouldSkip decides whether a detector is irrelevant to a changed-file set.
// It is pure and order-independent:
//
//  1. Global, workspace, and undeclared scopes never skip.
//  2. A detector declaring no extensions never skips.
//  3. An empty change set skips every remaining (file-scoped, extension
//     declaring) detector.
//  4. Otherwise skip unless at least one changed file's extension matches a
//     declared extension, case-insensitively.
func ShouldSkip(meta detect.Metadata, changedFiles []string) bool {
	switch meta.Scope {
	case detect.ScopeGlobal, detect.ScopeWorkspace, "":
		return false
	}

	if len(meta.Extensions) == 0 {
		return false
	}

	if len(changedFiles) == 0 {
		return true
	}

	declared := make(map[string]struct{}, len(meta.Extensions))
	for _, ext := range meta.Extensions {
		declared[normalizeExt(ext)] = struct{}{}
	}

	for _, f := range changedFiles {
		if _, ok := declared[normalizeExt(filepath.Ext(f))]; ok {
			return false
		}
	}
	return true
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// partitionBySkip splits the requested detector names into the set to run
// and the set to skip. Skip decisions are computed once, before any detector
// executes, and are final for the run. A nil changed-file set disables
// skipping entirely; detectors that fail to load stay in the run set so
// they surface as failed.
func partitionBySkip(names []string, changedFiles []string) (run []string, skipped []string) {
	if changedFiles == nil {
		return names, nil
	}

	for _, name := range names {
		d, err := detect.Load(name)
		if err != nil {
			run = append(run, name)
			continue
		}
		if ShouldSkip(d.Metadata(), changedFiles) {
			skipped = append(skipped, name)
			continue
		}
		run = append(run, name)
	}
	return run, skipped
}
