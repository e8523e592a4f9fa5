// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forge

import "testing"

func TestPackageIdEqual(t *testing.T) {
	a := NewPackageId("foo", "1.0.0", "http://example.com/foo")
	b := NewPackageId("foo", "1.0.0", "http://example.com/foo")
	c := NewPackageId("foo", "1.0.1", "http://example.com/foo")
	d := NewPackageId("foo", "1.0.0", "http://example.com/other")

	if !a.Equal(b) {
		t.Fatalf("%v should equal %v", a, b)
	}
	if a.Equal(c) {
		t.Fatalf("%v should not equal %v (different version)", a, c)
	}
	if a.Equal(d) {
		t.Fatalf("%v should not equal %v (different namespace)", a, d)
	}
}

func TestPackageIdNewPanicsOnBadVersion(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewPackageId() with an invalid version should panic")
		}
	}()
	NewPackageId("foo", "not-a-version", "")
}

func TestDependencySatisfiesExactVersion(t *testing.T) {
	req, err := ExactVersionReq("1.2.0")
	if err != nil {
		t.Fatal(err)
	}
	dep := Dependency{Name: "foo", VersionReq: req}

	if !dep.Satisfies(NewPackageId("foo", "1.2.0", "")) {
		t.Fatal("dependency should be satisfied by an exact version match")
	}
	if dep.Satisfies(NewPackageId("foo", "1.3.0", "")) {
		t.Fatal("dependency should not be satisfied by a different version")
	}
	if dep.Satisfies(NewPackageId("bar", "1.2.0", "")) {
		t.Fatal("dependency should not be satisfied by a different name")
	}
}

func TestDependencySatisfiesRange(t *testing.T) {
	req, err := RangeVersionReq("^1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	dep := Dependency{Name: "foo", VersionReq: req}

	if !dep.Satisfies(NewPackageId("foo", "1.9.0", "")) {
		t.Fatal("^1.0.0 should accept 1.9.0")
	}
	if dep.Satisfies(NewPackageId("foo", "2.0.0", "")) {
		t.Fatal("^1.0.0 should not accept 2.0.0")
	}
}

func TestDependencySatisfiesNamespace(t *testing.T) {
	req, err := ExactVersionReq("1.0.0")
	if err != nil {
		t.Fatal(err)
	}
	dep := Dependency{Name: "foo", VersionReq: req, Namespace: "http://example.com/foo"}

	if !dep.Satisfies(NewPackageId("foo", "1.0.0", "http://example.com/foo")) {
		t.Fatal("matching namespace should satisfy")
	}
	if dep.Satisfies(NewPackageId("foo", "1.0.0", "http://example.com/other")) {
		t.Fatal("mismatched namespace should not satisfy")
	}
}

func TestGitReferenceDefault(t *testing.T) {
	if !DefaultGitReference.IsDefault() {
		t.Fatal("DefaultGitReference.IsDefault() should be true")
	}
	if got, want := DefaultGitReference.String(), "HEAD"; got != want {
		t.Fatalf("DefaultGitReference.String() = %q, want %q", got, want)
	}

	named := NamedGitReference("v1.2.0")
	if named.IsDefault() {
		t.Fatal("a named reference should not report IsDefault")
	}
	if got, want := named.String(), "v1.2.0"; got != want {
		t.Fatalf("NamedGitReference(%q).String() = %q, want %q", "v1.2.0", got, want)
	}
}

func TestNewSummaryRejectsSelfDependency(t *testing.T) {
	id := NewPackageId("foo", "1.0.0", "")
	req, _ := ExactVersionReq("1.0.0")
	_, err := NewSummary(id, []Dependency{{Name: "foo", VersionReq: req}})
	if err == nil {
		t.Fatal("NewSummary() should reject a summary depending on its own name")
	}
}

func TestNewSummaryAllowsOtherDependencies(t *testing.T) {
	id := NewPackageId("foo", "1.0.0", "")
	req, _ := ExactVersionReq("1.0.0")
	s, err := NewSummary(id, []Dependency{{Name: "bar", VersionReq: req}})
	if err != nil {
		t.Fatalf("NewSummary() error = %v", err)
	}
	if len(s.Dependencies) != 1 || s.Dependencies[0].Name != "bar" {
		t.Fatalf("NewSummary() dependencies = %v, want [bar]", s.Dependencies)
	}
}
