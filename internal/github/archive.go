package github

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v81/github"
)

// FetchWorkspace downloads a snapshot of a GitHub repository and extracts it
// into a temporary directory, returning the extracted workspace root. The
// caller owns the returned directory and should remove it when done.
//
// repoSpec is "owner/name". ref may be empty, in which case the repository's
// default branch is used.
func (c *Client) FetchWorkspace(ctx context.Context, repoSpec, ref string) (string, error) {
	owner, name, err := SplitRepoSpec(repoSpec)
	if err != nil {
		return "", err
	}

	opts := &github.RepositoryContentGetOptions{Ref: ref}
	url, _, err := c.API.Repositories.GetArchiveLink(ctx, owner, name, github.Tarball, opts, 3)
	if err != nil {
		return "", fmt.Errorf("failed to resolve archive link for %s: %w", repoSpec, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build archive request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download archive for %s: %w", repoSpec, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("archive download for %s returned %d %s", repoSpec, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	dir, err := os.MkdirTemp("", "insight-workspace-*")
	if err != nil {
		return "", fmt.Errorf("failed to create workspace directory: %w", err)
	}

	if err := extractTarball(resp.Body, dir); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to extract archive for %s: %w", repoSpec, err)
	}
	return dir, nil
}

// SplitRepoSpec parses an "owner/name" repository spec.
func SplitRepoSpec(spec string) (owner, name string, err error) {
	parts := strings.Split(spec, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/name", spec)
	}
	return parts[0], parts[1], nil
}

// extractTarball extracts a gzipped tarball into dst, stripping the single
// top-level directory GitHub prepends to archive entries.
func extractTarball(r io.Reader, dst string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("invalid gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("invalid tar stream: %w", err)
		}

		rel := stripTopDir(hdr.Name)
		if rel == "" {
			continue
		}
		target, err := securePath(dst, rel)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode).Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		default:
			// Symlinks and special files are skipped: the workspace is read by
			// detectors only, and links could escape the extraction root.
		}
	}
}

func stripTopDir(name string) string {
	name = strings.TrimPrefix(name, "./")
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

// securePath joins rel onto root and rejects entries that would escape it.
func securePath(root, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("archive entry %q escapes extraction root", rel)
	}
	return filepath.Join(root, clean), nil
}
