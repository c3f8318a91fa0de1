package github

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// TokenSource names where a resolved token came from, for verbose logging.
type TokenSource string

const (
	TokenFromFlag TokenSource = "flag"
	TokenFromEnv  TokenSource = "env:GITHUB_TOKEN"
	TokenFromGH   TokenSource = "gh auth token"
)

// ghTimeout bounds the gh subprocess so a broken credential helper cannot
// hang a scan.
const ghTimeout = 5 * time.Second

// ResolveToken picks the first available token: the explicit value, then
// GITHUB_TOKEN, then the gh CLI. An empty token with a nil error means
// "scan unauthenticated". The token itself is never logged.
func ResolveToken(ctx context.Context, explicit string) (string, TokenSource, error) {
	if tok := strings.TrimSpace(explicit); tok != "" {
		return tok, TokenFromFlag, nil
	}
	if tok := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); tok != "" {
		return tok, TokenFromEnv, nil
	}

	tok, err := ghAuthToken(ctx)
	if err != nil {
		return "", "", err
	}
	if tok != "" {
		return tok, TokenFromGH, nil
	}
	return "", "", nil
}

// ghAuthToken asks the GitHub CLI for its stored token. A missing or
// logged-out gh yields an empty token, not an error; gh's output is never
// surfaced in errors so stored credentials cannot leak.
func ghAuthToken(ctx context.Context) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, ghTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "gh", "auth", "token", "-h", "github.com")
	cmd.Env = append(os.Environ(), "GH_PAGER=cat")
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", nil
	}

	tok := strings.TrimSpace(string(out))
	if tok == "" {
		return "", nil
	}
	if len(strings.Fields(tok)) != 1 {
		return "", errors.New("gh auth token output does not look like a token")
	}
	return tok, nil
}
