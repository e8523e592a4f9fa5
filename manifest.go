// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forge

import (
	"io"
	"io/ioutil"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// ManifestName is the conventional filename a Manifest is read from at the
// root of a package.
const ManifestName = "forge.toml"

// TargetKind distinguishes a library target, built into deps/ for
// consumers, from a binary target, built only when its owning package is
// the one being compiled directly.
type TargetKind string

const (
	TargetLib TargetKind = "lib"
	TargetBin TargetKind = "bin"
)

// Target is one compilable unit within a package: a kind (library or
// binary), the source file the compiler is invoked against, and the
// ordered sequence of crate-types the compiler produces from it.
type Target struct {
	Name       string
	Kind       TargetKind
	SourcePath string   // source file, relative to the package root
	CrateTypes []string // ordered; compiled once per entry
}

// Manifest is a package's declared identity, authors, dependencies, and
// build targets, as read from a forge.toml file.
type Manifest struct {
	Name         string
	Version      string
	Namespace    string
	Authors      []string
	TargetDir    string // relative path where build outputs are written
	Dependencies []Dependency
	DepSources   map[string]SourceId     // dependency name -> where to fetch it
	DepRefs      map[string]GitReference // dependency name -> requested branch/tag/revision
	Targets      []Target
}

type rawManifest struct {
	Name         string
	Version      string
	Namespace    string
	Authors      []string
	TargetDir    string
	Dependencies []rawDependency
	Targets      []rawTarget
}

type rawDependency struct {
	Name      string
	Version   string
	Git       string
	Branch    string
	Tag       string
	Revision  string
	Namespace string
}

type rawTarget struct {
	Name       string
	Kind       string
	SourcePath string
	CrateTypes []string
}

// ReadManifest parses a forge.toml document from r.
func ReadManifest(r io.Reader) (*Manifest, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, &IoError{Path: "<manifest>", Err: err}
	}

	tree, err := toml.LoadBytes(raw)
	if err != nil {
		return nil, &ManifestInvalidError{Reason: errors.Wrap(err, "toml parse").Error()}
	}

	mapper := &tomlMapper{Tree: tree}
	rm := rawManifest{
		Name:      readKeyAsString(mapper, "package.name"),
		Version:   readKeyAsString(mapper, "package.version"),
		Namespace: readKeyAsString(mapper, "package.namespace"),
		Authors:   readKeyAsStringList(mapper, "package.authors"),
		TargetDir: readKeyAsString(mapper, "package.target_dir"),
	}
	rm.Dependencies = readTableAsDependencies(mapper, "dependencies")
	rm.Targets = readTableAsTargets(mapper, "targets")
	if mapper.Error != nil {
		return nil, &ManifestInvalidError{Reason: mapper.Error.Error()}
	}

	return rm.toManifest()
}

func (rm rawManifest) toManifest() (*Manifest, error) {
	if rm.Name == "" {
		return nil, &ManifestInvalidError{Reason: "package.name is required"}
	}
	if rm.Version == "" {
		return nil, &ManifestInvalidError{Reason: "package.version is required"}
	}

	targetDir := rm.TargetDir
	if targetDir == "" {
		targetDir = "target"
	}

	m := &Manifest{
		Name:       rm.Name,
		Version:    rm.Version,
		Namespace:  rm.Namespace,
		Authors:    rm.Authors,
		TargetDir:  targetDir,
		DepSources: make(map[string]SourceId, len(rm.Dependencies)),
		DepRefs:    make(map[string]GitReference, len(rm.Dependencies)),
	}

	for _, rd := range rm.Dependencies {
		if rd.Name == "" {
			return nil, &ManifestInvalidError{Reason: "every [[dependencies]] entry needs a name"}
		}

		req, err := dependencyVersionReq(rd)
		if err != nil {
			return nil, &ManifestInvalidError{Reason: errors.Wrapf(err, "dependency %q", rd.Name).Error()}
		}
		m.Dependencies = append(m.Dependencies, Dependency{
			Name:       rd.Name,
			VersionReq: req,
			Namespace:  rd.Namespace,
		})

		if rd.Git != "" {
			m.DepSources[rd.Name] = SourceId{Kind: SourceGit, Location: rd.Git}
			switch {
			case rd.Revision != "":
				m.DepRefs[rd.Name] = NamedGitReference(rd.Revision)
			case rd.Tag != "":
				m.DepRefs[rd.Name] = NamedGitReference(rd.Tag)
			case rd.Branch != "":
				m.DepRefs[rd.Name] = NamedGitReference(rd.Branch)
			}
		}
	}

	for _, rt := range rm.Targets {
		if rt.Name == "" || rt.SourcePath == "" {
			return nil, &ManifestInvalidError{Reason: "every [[targets]] entry needs a name and a source_path"}
		}
		kind := TargetKind(rt.Kind)
		if kind == "" {
			kind = TargetLib
		}
		if kind != TargetLib && kind != TargetBin {
			return nil, &ManifestInvalidError{Reason: "target " + rt.Name + " has unknown kind " + rt.Kind}
		}
		crateTypes := rt.CrateTypes
		if len(crateTypes) == 0 {
			crateTypes = []string{string(kind)}
		}
		m.Targets = append(m.Targets, Target{
			Name:       rt.Name,
			Kind:       kind,
			SourcePath: rt.SourcePath,
			CrateTypes: crateTypes,
		})
	}

	return m, nil
}

// dependencyVersionReq picks the requirement form a raw dependency
// expresses: an exact/range version string, or (when a git ref is given
// instead) an accept-anything requirement — the git layer resolves the
// ref to a revision independent of semver.
func dependencyVersionReq(rd rawDependency) (VersionReq, error) {
	switch {
	case rd.Version != "":
		if rd.Version[0] == '=' {
			return ExactVersionReq(rd.Version[1:])
		}
		return RangeVersionReq(rd.Version)
	case rd.Git != "":
		return VersionReq{}, nil
	default:
		return VersionReq{}, errors.New("must specify either version or git")
	}
}

// GitRefFor returns the git reference the manifest requested for
// dependency name, or DefaultGitReference if none (or no git source) was
// given.
func (m *Manifest) GitRefFor(name string) GitReference {
	if ref, ok := m.DepRefs[name]; ok {
		return ref
	}
	return DefaultGitReference
}
