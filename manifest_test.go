// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forge

import (
	"strings"
	"testing"
)

func readManifestString(s string) (*Manifest, error) {
	return ReadManifest(strings.NewReader(s))
}

func TestReadManifestMinimal(t *testing.T) {
	m, err := readManifestString(`
[package]
name = "foo"
version = "1.0.0"
`)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if m.Name != "foo" {
		t.Errorf("Name = %q, want %q", m.Name, "foo")
	}
	if m.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", m.Version, "1.0.0")
	}
	if m.TargetDir != "target" {
		t.Errorf("TargetDir = %q, want default %q", m.TargetDir, "target")
	}
}

func TestReadManifestRequiresNameAndVersion(t *testing.T) {
	if _, err := readManifestString(`[package]
version = "1.0.0"
`); err == nil {
		t.Fatal("ReadManifest() should reject a manifest missing package.name")
	}
	if _, err := readManifestString(`[package]
name = "foo"
`); err == nil {
		t.Fatal("ReadManifest() should reject a manifest missing package.version")
	}
}

func TestReadManifestDependenciesAndTargets(t *testing.T) {
	m, err := readManifestString(`
[package]
name = "foo"
version = "1.0.0"
authors = ["a", "b"]
target_dir = "out"

[[dependencies]]
name = "bar"
version = "^1.2.0"

[[dependencies]]
name = "baz"
git = "https://example.com/baz.git"
branch = "main"

[[targets]]
name = "foo"
kind = "lib"
source_path = "src/lib.rs"
crate_types = ["lib", "rlib"]

[[targets]]
name = "foo-bin"
kind = "bin"
source_path = "src/main.rs"
`)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}

	if got, want := m.Authors, []string{"a", "b"}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Authors = %v, want %v", got, want)
	}
	if m.TargetDir != "out" {
		t.Errorf("TargetDir = %q, want %q", m.TargetDir, "out")
	}

	if len(m.Dependencies) != 2 {
		t.Fatalf("Dependencies = %v, want 2 entries", m.Dependencies)
	}
	if m.Dependencies[0].Name != "bar" {
		t.Errorf("Dependencies[0].Name = %q, want %q", m.Dependencies[0].Name, "bar")
	}
	if !m.Dependencies[0].Satisfies(NewPackageId("bar", "1.5.0", "")) {
		t.Error("bar's ^1.2.0 requirement should accept 1.5.0")
	}

	src, ok := m.DepSources["baz"]
	if !ok {
		t.Fatal("baz should have a recorded git source")
	}
	if src.Kind != SourceGit || src.Location != "https://example.com/baz.git" {
		t.Errorf("baz source = %+v, want git https://example.com/baz.git", src)
	}
	if ref := m.GitRefFor("baz"); ref.String() != "main" {
		t.Errorf("GitRefFor(baz) = %q, want %q", ref.String(), "main")
	}
	if ref := m.GitRefFor("bar"); !ref.IsDefault() {
		t.Errorf("GitRefFor(bar) = %v, want default (no git source)", ref)
	}

	if len(m.Targets) != 2 {
		t.Fatalf("Targets = %v, want 2 entries", m.Targets)
	}
	lib := m.Targets[0]
	if lib.Kind != TargetLib || len(lib.CrateTypes) != 2 {
		t.Errorf("lib target = %+v, want kind=lib with 2 crate types", lib)
	}
	bin := m.Targets[1]
	if bin.Kind != TargetBin {
		t.Errorf("bin target kind = %q, want %q", bin.Kind, TargetBin)
	}
	if len(bin.CrateTypes) != 1 || bin.CrateTypes[0] != string(TargetBin) {
		t.Errorf("bin target without explicit crate_types should default to [%q], got %v", TargetBin, bin.CrateTypes)
	}
}

func TestReadManifestRejectsUnknownTargetKind(t *testing.T) {
	_, err := readManifestString(`
[package]
name = "foo"
version = "1.0.0"

[[targets]]
name = "foo"
kind = "staticlib"
source_path = "src/lib.rs"
`)
	if err == nil {
		t.Fatal("ReadManifest() should reject an unrecognized target kind")
	}
}

func TestReadManifestRejectsDependencyWithoutVersionOrGit(t *testing.T) {
	_, err := readManifestString(`
[package]
name = "foo"
version = "1.0.0"

[[dependencies]]
name = "bar"
`)
	if err == nil {
		t.Fatal("ReadManifest() should reject a dependency with neither version nor git")
	}
}
