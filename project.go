// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forge

import (
	"os"
	"path/filepath"
)

// Project is a loaded forge.toml together with the directory it was
// loaded from.
type Project struct {
	AbsRoot  string
	Manifest *Manifest
}

// LoadProject searches from dir upward for a forge.toml and loads it. An
// empty dir searches from the current working directory.
func (c *Ctx) LoadProject(dir string) (*Project, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &IoError{Path: ".", Err: err}
		}
		dir = wd
	}

	root, err := findProjectRoot(dir)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(root, ManifestName))
	if err != nil {
		return nil, &IoError{Path: root, Err: err}
	}
	defer f.Close()

	m, err := ReadManifest(f)
	if err != nil {
		return nil, err
	}

	return &Project{AbsRoot: root, Manifest: m}, nil
}

// ReadManifestAt reads the forge.toml directly inside dir, without
// searching upward the way LoadProject does. Used for a dependency
// checkout, whose root is already known precisely.
func ReadManifestAt(dir string) (*Manifest, error) {
	f, err := os.Open(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, &IoError{Path: dir, Err: err}
	}
	defer f.Close()
	return ReadManifest(f)
}

// findProjectRoot searches from the starting directory upwards for a
// forge.toml, stopping at the filesystem root.
func findProjectRoot(from string) (string, error) {
	for {
		mp := filepath.Join(from, ManifestName)
		if _, err := os.Stat(mp); err == nil {
			return from, nil
		} else if !os.IsNotExist(err) {
			return "", &IoError{Path: mp, Err: err}
		}

		parent := filepath.Dir(from)
		if parent == from {
			return "", &ManifestInvalidError{Path: from, Reason: "no " + ManifestName + " found in this directory or any parent"}
		}
		from = parent
	}
}
