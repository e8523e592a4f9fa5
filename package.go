// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forge

import (
	"path/filepath"
	"sort"

	"github.com/forgepm/forge/internal/graph"
)

// Package is a resolved dependency materialized on disk: its identity,
// its parsed manifest, and the root directory its sources were checked
// out to.
type Package struct {
	Id       PackageId
	Manifest *Manifest
	Root     string
}

// AbsoluteTargetDir returns where p's build outputs belong: its root
// directory joined with its manifest's declared target_dir.
func (p *Package) AbsoluteTargetDir() string {
	return filepath.Join(p.Root, p.Manifest.TargetDir)
}

// PackageSet is the fully-resolved dependency graph of a build: every
// Package the resolver selected, keyed by name for lookup and ordered for
// iteration by Sort.
type PackageSet struct {
	byName   map[string]*Package
	ordering []string
}

// NewPackageSet builds an (unsorted) PackageSet from pkgs. It returns an
// error if two packages share a name, since forge's baseline resolver
// guarantees at most one package per name per build.
func NewPackageSet(pkgs []*Package) (*PackageSet, error) {
	ps := &PackageSet{byName: make(map[string]*Package, len(pkgs))}
	for _, p := range pkgs {
		if _, dup := ps.byName[p.Id.Name]; dup {
			return nil, &InternalError{Msg: "duplicate package name " + p.Id.Name + " in package set"}
		}
		ps.byName[p.Id.Name] = p
		ps.ordering = append(ps.ordering, p.Id.Name)
	}
	return ps, nil
}

// Get returns the package named name, or nil if the set has none.
func (ps *PackageSet) Get(name string) *Package {
	return ps.byName[name]
}

// Summary returns the Summary a registry would hand back for p: its
// identity plus its declared dependencies.
func (p *Package) Summary() (Summary, error) {
	return NewSummary(p.Id, p.Manifest.Dependencies)
}

// Query makes PackageSet satisfy Registry by looking up its own package
// by name and returning that package's summary, so a build's resolved
// dependency set can itself stand in as a registry.
func (ps *PackageSet) Query(name string) ([]Summary, error) {
	pkg, ok := ps.byName[name]
	if !ok {
		return nil, nil
	}
	s, err := pkg.Summary()
	if err != nil {
		return nil, err
	}
	return []Summary{s}, nil
}

// Sort returns a new PackageSet holding the same packages in leaves-first
// order: every package appears after everything it depends on. Tie-break
// among independent packages is insertion order into ps, not name order.
// On a cycle, Sort returns a *CircularDependencyError instead of a
// PackageSet.
func (ps *PackageSet) Sort() (*PackageSet, error) {
	g := graph.New()
	for _, name := range ps.ordering {
		g.Add(name, dependencyNames(ps.byName[name].Manifest))
	}

	order, err := g.Sort()
	if err != nil {
		if cerr, ok := err.(*graph.CycleError); ok {
			return nil, &CircularDependencyError{Cycle: cerr.Cycle}
		}
		return nil, &InternalError{Msg: err.Error()}
	}

	return &PackageSet{byName: ps.byName, ordering: order}, nil
}

func dependencyNames(m *Manifest) []string {
	names := make([]string, len(m.Dependencies))
	for i, d := range m.Dependencies {
		names[i] = d.Name
	}
	return names
}

// Len is part of sort.Interface.
func (ps *PackageSet) Len() int { return len(ps.ordering) }

// Swap is part of sort.Interface.
func (ps *PackageSet) Swap(i, j int) {
	ps.ordering[i], ps.ordering[j] = ps.ordering[j], ps.ordering[i]
}

// Less is part of sort.Interface; it orders by package name.
func (ps *PackageSet) Less(i, j int) bool {
	return ps.ordering[i] < ps.ordering[j]
}

// SortByName puts the set into a deterministic name order, independent of
// build order. Useful for stable log output; the build order itself comes
// from internal/graph, not this method.
func (ps *PackageSet) SortByName() {
	sort.Sort(ps)
}

// Names returns the package names currently in the set, in whatever order
// they're currently held (call SortByName first for a deterministic one).
func (ps *PackageSet) Names() []string {
	out := make([]string, len(ps.ordering))
	copy(out, ps.ordering)
	return out
}

// All returns every package in the set, in whatever order Names would.
func (ps *PackageSet) All() []*Package {
	out := make([]*Package, 0, len(ps.ordering))
	for _, n := range ps.ordering {
		out = append(out, ps.byName[n])
	}
	return out
}
