// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forge

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	forgelog "github.com/forgepm/forge/log"
)

// Ctx carries the supporting context a forge invocation needs: where to
// log, where to cache VCS mirrors, and which compiler to drive. Unlike
// the GOPATH-rooted context this is descended from, Ctx never infers
// anything from the environment beyond an explicit CacheRoot default.
type Ctx struct {
	Out, Err  *forgelog.Logger
	CacheRoot string // where git Database mirrors live, one subdir per source
	Verbose   bool   // stream VCS/compiler subprocess output instead of capturing it
	Compiler  string // external compiler binary; defaults to "rustc"
}

// NewCtx builds a Ctx writing to stdout/stderr, caching under the user's
// cache directory, and driving rustc.
func NewCtx() (*Ctx, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolving cache directory")
	}
	return &Ctx{
		Out:       forgelog.New(os.Stdout),
		Err:       forgelog.New(os.Stderr),
		CacheRoot: filepath.Join(cache, "forge"),
		Compiler:  "rustc",
	}, nil
}

// DatabaseDir returns where the bare mirror for a git source at location
// should live under the cache root, ignoring path separators that would
// otherwise nest directories.
func (c *Ctx) DatabaseDir(location string) string {
	return filepath.Join(c.CacheRoot, "sources", sanitizeForPath(location))
}

func sanitizeForPath(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
