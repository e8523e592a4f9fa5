// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/forgepm/forge"
)

const versionShortHelp = `Display version`
const versionLongHelp = `
Display version of this application.
`

// Version is forge's own release version, not to be confused with any
// package version it resolves.
const Version = "0.1.0"

type versionCommand struct{}

func (cmd *versionCommand) Name() string      { return "version" }
func (cmd *versionCommand) Args() string      { return "" }
func (cmd *versionCommand) ShortHelp() string { return versionShortHelp }
func (cmd *versionCommand) LongHelp() string  { return versionLongHelp }
func (cmd *versionCommand) Hidden() bool      { return false }

func (cmd *versionCommand) Register(fs *flag.FlagSet) {}

func (cmd *versionCommand) Run(ctx *forge.Ctx, bctx context.Context, args []string) error {
	fmt.Println(Version)
	return nil
}
