// Package github fetches remote scan workspaces: it resolves an access
// token, downloads a repository snapshot, and extracts it into a temporary
// directory for the detectors to read.
package github

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"
)

// ClientConfig carries the knobs for a workspace-fetching client.
type ClientConfig struct {
	// Token authenticates API and archive requests when non-empty. Public
	// repositories work without one, at a lower rate limit.
	Token string

	// Verbose enables one trace line per completed request on LogWriter.
	Verbose bool

	// LogWriter receives trace lines, typically stderr, so structured
	// output on stdout stays clean.
	LogWriter io.Writer
}

// Client wraps the GitHub API for fetching repository snapshots.
type Client struct {
	// API is exported so tests can point BaseURL at a local server.
	API *github.Client

	http *http.Client
}

// NewClient builds a client per cfg. A zero cfg yields an unauthenticated,
// quiet client.
func NewClient(cfg ClientConfig) *Client {
	transport := http.DefaultTransport
	if cfg.Verbose && cfg.LogWriter != nil {
		transport = &traceTransport{base: transport, w: cfg.LogWriter}
	}
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		transport = &oauth2.Transport{Source: src, Base: transport}
	}

	hc := &http.Client{Transport: transport}
	return &Client{API: github.NewClient(hc), http: hc}
}

// traceTransport logs one line per completed request, with latency. The
// token never appears in the trace.
type traceTransport struct {
	base http.RoundTripper
	w    io.Writer
}

func (t *traceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start).Truncate(time.Millisecond)
	if err != nil {
		_, _ = fmt.Fprintf(t.w, "[verbose] github: %s %s failed after %s: %v\n", req.Method, req.URL, elapsed, err)
		return nil, err
	}
	_, _ = fmt.Fprintf(t.w, "[verbose] github: %s %s -> %d (%s)\n", req.Method, req.URL, resp.StatusCode, elapsed)
	return resp, nil
}
