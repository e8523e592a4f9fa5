package gitremote

import (
	"context"
	"os"
	"path/filepath"

	"github.com/forgepm/forge"
	"github.com/forgepm/forge/internal/fsutil"
)

// Checkout is a working tree pinned to one resolved revision, the final
// stage of the git source triple.
type Checkout struct {
	Location  string
	Reference forge.GitReference
	Revision  string

	db *Database
}

func newCheckout(into string, db *Database, ref forge.GitReference) (*Checkout, error) {
	rev, err := db.RevFor(context.Background(), ref)
	if err != nil {
		return nil, err
	}
	return &Checkout{Location: into, Reference: ref, Revision: rev, db: db}, nil
}

// clone ensures a working tree exists at this checkout's location,
// cloning --no-checkout from the database if it doesn't.
func (c *Checkout) clone(ctx context.Context) error {
	if isDir, err := fsutil.IsDir(filepath.Join(c.Location, ".git")); err == nil && isDir {
		return nil
	}

	dir := filepath.Dir(c.Location)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &forge.IoError{Path: dir, Err: err}
	}
	if err := os.RemoveAll(c.Location); err != nil {
		return &forge.IoError{Path: c.Location, Err: err}
	}

	if _, err := c.db.remote.gitIn(ctx, dir, "clone", "--no-checkout", "--quiet", c.db.path, c.Location); err != nil {
		return err
	}

	// Grant all-users permission on the checkout, matching the original
	// git/utils.rs clone_repo's chmod(&self.location, AllPermissions).
	if err := os.Chmod(c.Location, 0777); err != nil {
		return &forge.IoError{Path: c.Location, Err: err}
	}
	return nil
}

// fetch pulls any new objects from the database into this checkout and
// resets its working tree hard to the pinned revision.
func (c *Checkout) fetch(ctx context.Context) error {
	if _, err := c.db.remote.git(ctx, c.Location, "fetch", "--force", "--quiet", "--tags", c.db.path); err != nil {
		return err
	}
	_, err := c.db.remote.git(ctx, c.Location, "reset", "-q", "--hard", c.Revision)
	return err
}

// updateSubmodules recursively initializes and updates any submodules
// this checkout's revision declares.
func (c *Checkout) updateSubmodules(ctx context.Context) error {
	_, err := c.db.remote.git(ctx, c.Location, "submodule", "update", "--init", "--recursive", "--quiet")
	return err
}
