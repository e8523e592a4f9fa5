package build

import (
	"os"
	"path/filepath"

	"github.com/forgepm/forge"
	"github.com/karrick/godirwalk"
)

// Prune walks targetDir and removes every entry under deps/ that doesn't
// belong to one of keep's package names, the way a stale dependency (one
// the manifest no longer lists) is left behind after a resolve. It does
// not touch anything outside deps/.
func Prune(targetDir string, keep *forge.PackageSet) error {
	depsDir := filepath.Join(targetDir, "deps")
	if _, err := os.Stat(depsDir); os.IsNotExist(err) {
		return nil
	}

	wanted := make(map[string]bool, keep.Len())
	for _, name := range keep.Names() {
		wanted[name] = true
	}

	var toRemove []string
	err := godirwalk.Walk(depsDir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if osPathname == depsDir {
				return nil
			}
			rel, err := filepath.Rel(depsDir, osPathname)
			if err != nil {
				return err
			}
			top := firstSegment(rel)
			if !wanted[stripExt(top)] {
				toRemove = append(toRemove, filepath.Join(depsDir, top))
			}
			if de.IsDir() {
				return filepath.SkipDir
			}
			return nil
		},
	})
	if err != nil {
		return &forge.IoError{Path: depsDir, Err: err}
	}

	for _, path := range toRemove {
		if err := os.RemoveAll(path); err != nil {
			return &forge.IoError{Path: path, Err: err}
		}
	}
	return nil
}

func firstSegment(rel string) string {
	if i := indexByte(rel, filepath.Separator); i >= 0 {
		return rel[:i]
	}
	return rel
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// stripExt drops a compiled-artifact extension so e.g. "libfoo.rlib"
// prunes correctly against the package name "foo".
func stripExt(name string) string {
	ext := filepath.Ext(name)
	name = name[:len(name)-len(ext)]
	if len(name) > 3 && name[:3] == "lib" {
		name = name[3:]
	}
	return name
}
