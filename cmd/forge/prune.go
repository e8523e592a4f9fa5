// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"path/filepath"

	"github.com/forgepm/forge"
	"github.com/forgepm/forge/internal/build"
	"github.com/forgepm/forge/internal/resolve"
)

const pruneShortHelp = `Remove stale entries from the deps directory`
const pruneLongHelp = `
Prune removes compiled artifacts from target/deps that no longer
correspond to a dependency in forge.toml. This re-resolves the project to
know what should be kept; it doesn't rebuild anything.
`

type pruneCommand struct{}

func (cmd *pruneCommand) Name() string      { return "prune" }
func (cmd *pruneCommand) Args() string      { return "" }
func (cmd *pruneCommand) ShortHelp() string { return pruneShortHelp }
func (cmd *pruneCommand) LongHelp() string  { return pruneLongHelp }
func (cmd *pruneCommand) Hidden() bool      { return false }

func (cmd *pruneCommand) Register(fs *flag.FlagSet) {}

func (cmd *pruneCommand) Run(ctx *forge.Ctx, bctx context.Context, args []string) error {
	proj, err := ctx.LoadProject("")
	if err != nil {
		return err
	}

	primary := &forge.Package{
		Id:       forge.NewPackageId(proj.Manifest.Name, proj.Manifest.Version, proj.Manifest.Namespace),
		Manifest: proj.Manifest,
		Root:     proj.AbsRoot,
	}
	targetDir := primary.AbsoluteTargetDir()

	lock, ok, err := build.TryAcquireTargetLock(targetDir)
	if err != nil {
		return err
	}
	if !ok {
		return &forge.InternalError{Msg: "target directory is locked by another forge invocation"}
	}
	defer lock.Release()

	scratch := filepath.Join(ctx.CacheRoot, "checkouts")
	seed := make(map[string]gitSource, len(proj.Manifest.DepSources))
	for name, sourceID := range proj.Manifest.DepSources {
		seed[name] = gitSource{id: sourceID, ref: proj.Manifest.GitRefFor(name)}
	}
	reg := newGitRegistry(ctx, scratch, seed)

	ids, err := resolve.Resolve(proj.Manifest.Dependencies, reg)
	if err != nil {
		return err
	}

	var pkgs []*forge.Package
	for _, id := range ids {
		pkgs = append(pkgs, &forge.Package{Id: id})
	}
	keep, err := forge.NewPackageSet(pkgs)
	if err != nil {
		return err
	}

	if err := build.Prune(targetDir, keep); err != nil {
		return err
	}
	ctx.Out.LogForgefln("pruned deps not in the current resolve (%d package(s) kept)", keep.Len())
	return nil
}
