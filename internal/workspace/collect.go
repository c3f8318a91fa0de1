package workspace

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are directory names that never contain code worth scanning.
var skipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"target":       {},
	"__pycache__":  {},
}

// CollectFiles walks the workspace and returns workspace-relative,
// slash-separated file paths, sorted. Dependency and VCS directories are
// skipped, as are hidden directories.
func CollectFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip {
				return filepath.SkipDir
			}
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect files in %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// FilterByExtensions keeps the files whose extension matches one of exts,
// case-insensitively. A leading dot on an extension is optional. Empty exts
// keeps everything.
func FilterByExtensions(files []string, exts []string) []string {
	if len(exts) == 0 {
		return files
	}

	want := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))] = struct{}{}
	}

	var out []string
	for _, f := range files {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f), "."))
		if _, ok := want[ext]; ok {
			out = append(out, f)
		}
	}
	return out
}
