// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package forge resolves a manifest's dependencies against one or more
// package registries, orders the result for building, and drives an
// external compiler over the sorted set.
package forge

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SourceKind tags where a set of packages comes from.
type SourceKind uint8

const (
	// SourcePath is a package living at a plain filesystem path.
	SourcePath SourceKind = iota
	// SourceGit is a package mirrored from a git remote.
	SourceGit
	// SourceCentralRegistry is a package resolved through a central,
	// non-VCS registry. Not implemented by any Registry in this package
	// today, but kept as a discriminant so callers can fail closed on it
	// rather than silently mis-handling an unrecognized SourceId.
	SourceCentralRegistry
)

func (k SourceKind) String() string {
	switch k {
	case SourcePath:
		return "path"
	case SourceGit:
		return "git"
	case SourceCentralRegistry:
		return "registry"
	default:
		return "unknown"
	}
}

// SourceId identifies where a set of packages comes from. Two SourceIds are
// equal iff Kind and Location match exactly.
type SourceId struct {
	Kind     SourceKind
	Location string
}

func (s SourceId) String() string {
	if s.Location == "" {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s+%s", s.Kind, s.Location)
}

// GitReference names a branch, tag, or revision to resolve within a git
// source. Default aliases the conventional primary branch.
type GitReference struct {
	name string
}

// DefaultGitReference aliases the repository's conventional primary branch.
var DefaultGitReference = GitReference{}

// NamedGitReference carries any other branch, tag, or revision string.
func NamedGitReference(name string) GitReference {
	return GitReference{name: name}
}

// IsDefault reports whether r aliases the primary branch rather than naming
// one explicitly.
func (r GitReference) IsDefault() bool {
	return r.name == ""
}

// String renders the reference the way it should be passed to git:
// "HEAD" (which names the primary branch) when default, the explicit name
// otherwise.
func (r GitReference) String() string {
	if r.IsDefault() {
		return "HEAD"
	}
	return r.name
}

// PackageId is a package's globally unique identity: name, resolved
// version, and the source it was resolved from. Two PackageIds are equal
// iff all three components are equal. PackageIds are immutable once
// created and are the only value by which forge names a package
// externally.
type PackageId struct {
	Name      string
	Version   *semver.Version
	Namespace string
}

// NewPackageId builds a PackageId, parsing version as semver. It panics if
// version does not parse, mirroring the teacher's assumption that
// identities are constructed from already-validated registry data; callers
// reading untrusted input should parse with semver.NewVersion themselves
// and build the PackageId from the result.
func NewPackageId(name, version, namespace string) PackageId {
	v, err := semver.NewVersion(version)
	if err != nil {
		panic(fmt.Sprintf("forge: invalid version %q for package %q: %s", version, name, err))
	}
	return PackageId{Name: name, Version: v, Namespace: namespace}
}

// Equal reports whether i and j name the same package identity.
func (i PackageId) Equal(j PackageId) bool {
	return i.Name == j.Name && i.Namespace == j.Namespace &&
		((i.Version == nil && j.Version == nil) ||
			(i.Version != nil && j.Version != nil && i.Version.Equal(j.Version)))
}

// String renders "name@version (namespace)" for log and error messages.
func (i PackageId) String() string {
	if i.Namespace == "" {
		return fmt.Sprintf("%s@%s", i.Name, i.versionString())
	}
	return fmt.Sprintf("%s@%s (%s)", i.Name, i.versionString(), i.Namespace)
}

func (i PackageId) versionString() string {
	if i.Version == nil {
		return "?"
	}
	return i.Version.String()
}

// Dependency is a declared requirement on another package: a name, a
// version requirement, and an optional source. VersionReq expresses
// either an exact version or a semver range without changing this shape.
type Dependency struct {
	Name       string
	VersionReq VersionReq
	Namespace  string // optional; empty means "any source with this name"
}

// Satisfies reports whether id could fulfill this dependency: the name
// must match, the namespace (if given) must match, and the version
// requirement must accept id's version.
func (d Dependency) Satisfies(id PackageId) bool {
	if d.Name != id.Name {
		return false
	}
	if d.Namespace != "" && d.Namespace != id.Namespace {
		return false
	}
	return d.VersionReq.Accepts(id.Version)
}

// VersionReq is a version requirement expression. The baseline
// implementation is exact-match; Constraint, when non-nil, is consulted
// instead and can express any Masterminds/semver range.
type VersionReq struct {
	Exact      *semver.Version
	Constraint *semver.Constraints
}

// ExactVersionReq builds a VersionReq that accepts only v.
func ExactVersionReq(v string) (VersionReq, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return VersionReq{}, err
	}
	return VersionReq{Exact: sv}, nil
}

// RangeVersionReq builds a VersionReq from a Masterminds/semver constraint
// expression (e.g. "^1.2.0"), the richer form spec.md's Dependency admits
// "without contract change".
func RangeVersionReq(expr string) (VersionReq, error) {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return VersionReq{}, err
	}
	return VersionReq{Constraint: c}, nil
}

// Accepts reports whether v satisfies this requirement.
func (r VersionReq) Accepts(v *semver.Version) bool {
	if v == nil {
		return false
	}
	if r.Constraint != nil {
		return r.Constraint.Check(v)
	}
	if r.Exact != nil {
		return r.Exact.Equal(v)
	}
	// No requirement expressed at all accepts anything.
	return true
}

func (r VersionReq) String() string {
	switch {
	case r.Constraint != nil:
		return r.Constraint.String()
	case r.Exact != nil:
		return "=" + r.Exact.String()
	default:
		return "*"
	}
}

// Summary pairs a package's identity with its outbound dependency edges.
// It carries no source location on disk — it's the unit of information the
// resolver reasons about. A Summary's Dependencies may not name the
// Summary's own package.
type Summary struct {
	PackageId    PackageId
	Dependencies []Dependency
}

// NewSummary builds a Summary, rejecting a self-referential dependency list
// (the invariant from spec.md §3).
func NewSummary(id PackageId, deps []Dependency) (Summary, error) {
	for _, d := range deps {
		if d.Name == id.Name {
			return Summary{}, fmt.Errorf("forge: summary for %s may not depend on itself", id)
		}
	}
	return Summary{PackageId: id, Dependencies: deps}, nil
}
