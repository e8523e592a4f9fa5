// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fsutil holds the small set of filesystem predicates and
// fallback-safe operations the build and git layers need beyond what
// os and path/filepath give directly.
package fsutil

import (
	"io"
	"os"

	"github.com/pkg/errors"
	shutil "github.com/termie/go-shutil"
)

// IsDir reports whether name is a directory.
func IsDir(name string) (bool, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return false, err
	}
	if !fi.IsDir() {
		return false, errors.Errorf("%q is not a directory", name)
	}
	return true, nil
}

// IsNonEmptyDir reports whether name is a directory with at least one
// entry in it.
func IsNonEmptyDir(name string) (bool, error) {
	isDir, err := IsDir(name)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	} else if !isDir {
		return false, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	switch err {
	case io.EOF:
		return false, nil
	case nil:
		return true, nil
	default:
		return false, err
	}
}

// IsRegular reports whether name is a plain file (not absent, not a
// directory, not a device). Symlinks are followed, so a link to a plain
// file counts as one.
func IsRegular(name string) (bool, error) {
	fi, err := os.Stat(name)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if mode := fi.Mode(); mode&os.ModeType != 0 {
		return false, errors.Errorf("%q is a %v, expected a file", name, mode)
	}
	return true, nil
}

// RenameWithFallback attempts an os.Rename and, if that fails for any
// reason (typically because src and dst live on different devices),
// falls back to copying the tree and removing the original.
func RenameWithFallback(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return errors.Wrapf(err, "cannot stat %s", src)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	isDir, derr := IsDir(src)
	var cerr error
	switch {
	case derr == nil && isDir:
		cerr = shutil.CopyTree(src, dst, nil)
	default:
		_, cerr = shutil.Copy(src, dst, true)
	}
	if cerr != nil {
		return errors.Wrapf(cerr, "rename fallback failed: cannot rename %s to %s", src, dst)
	}
	return errors.Wrapf(os.RemoveAll(src), "cannot delete %s", src)
}
