// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/forgepm/forge"
	"github.com/forgepm/forge/internal/gitremote"
	"github.com/forgepm/forge/internal/procutil"
)

// gitSource is where a name should be fetched from: a git location plus
// the branch/tag/revision the owning manifest asked for.
type gitSource struct {
	id  forge.SourceId
	ref forge.GitReference
}

// gitRegistry is a forge.Registry backed by git checkouts: querying a
// name checks out that dependency's source (first clone, later just
// fetch — see internal/gitremote), reads its forge.toml, and returns one
// Summary built from it. Sources for names it hasn't seen yet are
// discovered incrementally, as each manifest's own [[dependencies]]
// entries are read.
type gitRegistry struct {
	ctx     *forge.Ctx
	runner  *procutil.Runner
	scratch string // where checkouts of dependency sources live

	mu      sync.Mutex
	sources map[string]gitSource
	cache   map[string]forge.Summary
	roots   map[string]string // name -> checkout root, filled in as Query resolves
}

func newGitRegistry(ctx *forge.Ctx, scratch string, seed map[string]gitSource) *gitRegistry {
	sources := make(map[string]gitSource, len(seed))
	for k, v := range seed {
		sources[k] = v
	}
	return &gitRegistry{
		ctx:     ctx,
		runner:  procutil.NewRunner(context.Background()),
		scratch: scratch,
		sources: sources,
		cache:   make(map[string]forge.Summary),
		roots:   make(map[string]string),
	}
}

// Query resolves name to a single Summary by checking out its declared
// git source and parsing the manifest found there.
func (r *gitRegistry) Query(name string) ([]forge.Summary, error) {
	r.mu.Lock()
	if s, ok := r.cache[name]; ok {
		r.mu.Unlock()
		return []forge.Summary{s}, nil
	}
	src, ok := r.sources[name]
	r.mu.Unlock()
	if !ok {
		// No declared source for this name: nothing to return, and the
		// resolver turns zero matches into an UnresolvedDependencyError.
		return nil, nil
	}

	summary, root, err := r.checkout(name, src)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = summary
	r.roots[name] = root
	r.mu.Unlock()

	return []forge.Summary{summary}, nil
}

// RootFor returns the checkout directory Query populated for name, valid
// only after a successful Query(name).
func (r *gitRegistry) RootFor(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	root, ok := r.roots[name]
	return root, ok
}

func (r *gitRegistry) checkout(name string, src gitSource) (forge.Summary, string, error) {
	dbDir := r.ctx.DatabaseDir(src.id.Location)
	remote := gitremote.NewRemote(src.id.Location, r.runner, r.ctx.Verbose, r.ctx.Err)

	db, err := remote.Checkout(context.Background(), dbDir)
	if err != nil {
		return forge.Summary{}, "", err
	}

	root := filepath.Join(r.scratch, name)
	if _, err := db.CopyTo(context.Background(), src.ref, root); err != nil {
		return forge.Summary{}, "", err
	}

	m, err := forge.ReadManifestAt(root)
	if err != nil {
		return forge.Summary{}, "", err
	}

	// Fold this package's own declared sources in, so transitive git
	// dependencies resolve on a later Query without the caller needing
	// to pre-seed them.
	r.mu.Lock()
	for depName, sourceID := range m.DepSources {
		if _, known := r.sources[depName]; !known {
			r.sources[depName] = gitSource{id: sourceID, ref: m.GitRefFor(depName)}
		}
	}
	r.mu.Unlock()

	id := forge.NewPackageId(m.Name, m.Version, src.id.Location)
	summary, err := forge.NewSummary(id, m.Dependencies)
	if err != nil {
		return forge.Summary{}, "", err
	}
	return summary, root, nil
}
