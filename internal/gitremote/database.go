package gitremote

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgepm/forge"
	"github.com/forgepm/forge/internal/fsutil"
	"github.com/forgepm/forge/internal/procutil"
)

// Database is a local bare mirror of a Remote, the middle stage of the
// git source triple.
type Database struct {
	remote *Remote
	path   string
}

// Path returns the bare mirror's location on disk.
func (d *Database) Path() string {
	return d.path
}

// RevFor resolves reference (a branch, tag, or raw revision) to the full
// commit hash it currently points at within this mirror.
func (d *Database) RevFor(ctx context.Context, reference forge.GitReference) (string, error) {
	// The revision is read from rev-parse's stdout, so this command is
	// always captured, even on a verbose Remote whose other commands stream.
	inv := procutil.Invocation{Name: "git", Args: []string{"rev-parse", reference.String()}, Dir: d.path}
	res, err := d.remote.Runner.Run(ctx, inv)
	if err != nil {
		return "", &forge.VcsError{Command: res.Argv, Dir: d.path, Stderr: string(res.Stderr), Err: err}
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// CopyTo materializes a working tree at dest pinned to reference, pulling
// objects from this mirror rather than the network, and returns a
// Checkout handle on it.
func (d *Database) CopyTo(ctx context.Context, reference forge.GitReference, dest string) (*Checkout, error) {
	co, err := newCheckout(dest, d, reference)
	if err != nil {
		return nil, err
	}
	if err := co.clone(ctx); err != nil {
		return nil, err
	}
	if err := co.fetch(ctx); err != nil {
		return nil, err
	}
	if err := co.updateSubmodules(ctx); err != nil {
		return nil, err
	}
	return co, nil
}

// ExportTo copies reference's tree out to dest as plain files, with no
// .git directory — for placing a dependency's sources directly under a
// build's deps/ directory, where nothing downstream should mistake it for
// a git working tree of its own. This supplements CopyTo/Checkout; it
// does not replace them. Each call materializes a fresh throwaway
// checkout at dest+".checkout" via CopyTo and removes it afterwards; no
// existing working tree is reused.
func (d *Database) ExportTo(ctx context.Context, reference forge.GitReference, dest string) error {
	tmp := dest + ".checkout"
	defer os.RemoveAll(tmp)

	co, err := d.CopyTo(ctx, reference, tmp)
	if err != nil {
		return err
	}

	if isDir, err := fsutil.IsDir(co.Location); err != nil || !isDir {
		return &forge.InternalError{Msg: "checkout at " + co.Location + " is not a directory"}
	}

	if err := os.RemoveAll(filepath.Join(co.Location, ".git")); err != nil {
		return &forge.IoError{Path: co.Location, Err: err}
	}
	if err := os.RemoveAll(dest); err != nil {
		return &forge.IoError{Path: dest, Err: err}
	}

	// The checkout was materialized solely for this export and is
	// discarded once moved, so replace dest with it in place rather than
	// copying — RenameWithFallback only falls back to a full tree copy
	// when the rename itself fails.
	if err := fsutil.RenameWithFallback(co.Location, dest); err != nil {
		return &forge.IoError{Path: dest, Err: err}
	}
	return nil
}
