// Package gitremote implements forge's three-stage git source: a Remote
// (a bare URL), a Database (a local bare mirror of it), and a Checkout (a
// working tree pinned to one revision out of that mirror). Each stage is
// idempotent — calling it again against the same paths updates in place
// rather than failing or duplicating work.
package gitremote

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgepm/forge"
	"github.com/forgepm/forge/internal/procutil"
)

// Remote is a stateless handle on a git URL. It does no I/O itself;
// Checkout is what actually touches disk.
type Remote struct {
	URL     string
	Verbose bool
	Sink    interface {
		Write(p []byte) (int, error)
	}
	Runner *procutil.Runner
}

// NewRemote builds a Remote bound to url, using runner for every git
// subprocess it invokes. When verbose is true and sink is non-nil, every
// git command's stdout/stderr streams to sink as it runs instead of being
// captured for the caller to inspect after the fact.
func NewRemote(url string, runner *procutil.Runner, verbose bool, sink interface {
	Write(p []byte) (int, error)
}) *Remote {
	return &Remote{URL: url, Runner: runner, Verbose: verbose, Sink: sink}
}

// Checkout ensures a bare mirror of r exists at into, fetching into it if
// it's already there or cloning it fresh otherwise, and returns a
// Database handle on it.
func (r *Remote) Checkout(ctx context.Context, into string) (*Database, error) {
	if _, err := os.Stat(filepath.Join(into, "HEAD")); err == nil {
		if err := r.fetchInto(ctx, into); err != nil {
			return nil, err
		}
	} else {
		if err := r.cloneInto(ctx, into); err != nil {
			return nil, err
		}
	}
	return &Database{remote: r, path: into}, nil
}

func (r *Remote) fetchInto(ctx context.Context, path string) error {
	_, err := r.git(ctx, path, "fetch", "--force", "--quiet", "--tags",
		r.fetchLocation(), "refs/heads/*:refs/heads/*")
	return err
}

func (r *Remote) cloneInto(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &forge.IoError{Path: dir, Err: err}
	}
	_, err := r.gitIn(ctx, dir, "clone", r.fetchLocation(), path, "--bare", "--no-hardlinks", "--quiet")
	return err
}

// fetchLocation strips a file:// scheme down to a bare filesystem path,
// since git treats file:// URLs and bare paths differently on some
// platforms; every other scheme passes through unchanged.
func (r *Remote) fetchLocation() string {
	if strings.HasPrefix(r.URL, "file://") {
		return strings.TrimPrefix(r.URL, "file://")
	}
	return r.URL
}

func (r *Remote) git(ctx context.Context, path string, args ...string) (procutil.Result, error) {
	return r.gitIn(ctx, path, args...)
}

func (r *Remote) gitIn(ctx context.Context, dir string, args ...string) (procutil.Result, error) {
	inv := procutil.Invocation{Name: "git", Args: args, Dir: dir}
	if r.Verbose && r.Sink != nil {
		inv.Stream = true
		inv.Sink = procutil.NewSink(r.Sink)
	}
	res, err := r.Runner.Run(ctx, inv)
	if err != nil {
		return res, &forge.VcsError{Command: res.Argv, Dir: dir, Stderr: string(res.Stderr), Err: err}
	}
	return res, nil
}
