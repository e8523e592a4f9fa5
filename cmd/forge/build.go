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
	"github.com/forgepm/forge/internal/procutil"
	"github.com/forgepm/forge/internal/resolve"
)

const buildShortHelp = `Resolve dependencies and compile the project`
const buildLongHelp = `
Build resolves the project's dependencies, checks each one out, orders
them so nothing compiles before what it depends on, and invokes the
configured compiler (rustc by default) over the result.

The project's target directory receives a deps/ subdirectory holding
every dependency's compiled library artifacts, and the project's own
compiled targets at its root.
`

type buildCommand struct{}

func (cmd *buildCommand) Name() string      { return "build" }
func (cmd *buildCommand) Args() string      { return "" }
func (cmd *buildCommand) ShortHelp() string { return buildShortHelp }
func (cmd *buildCommand) LongHelp() string  { return buildLongHelp }
func (cmd *buildCommand) Hidden() bool      { return false }

func (cmd *buildCommand) Register(fs *flag.FlagSet) {}

func (cmd *buildCommand) Run(ctx *forge.Ctx, bctx context.Context, args []string) error {
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

	lock, err := build.AcquireTargetLock(targetDir)
	if err != nil {
		return err
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
		root, ok := reg.RootFor(id.Name)
		if !ok {
			return &forge.InternalError{Msg: "resolved package " + id.Name + " was never checked out"}
		}
		manifest, err := forge.ReadManifestAt(root)
		if err != nil {
			return err
		}
		pkgs = append(pkgs, &forge.Package{Id: id, Manifest: manifest, Root: root})
	}

	depSet, err := forge.NewPackageSet(pkgs)
	if err != nil {
		return err
	}

	runner := procutil.NewRunner(bctx)
	orch := build.NewOrchestrator(ctx.Compiler, runner)
	orch.Verbose = ctx.Verbose
	orch.Sink = ctx.Err

	ctx.Out.LogForgefln("resolved %d package(s)", depSet.Len())
	return orch.CompilePackages(bctx, primary, depSet, targetDir)
}

