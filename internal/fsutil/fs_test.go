package fsutil

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestIsDir(t *testing.T) {
	dir, err := ioutil.TempDir("", "fsutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if ok, err := IsDir(dir); err != nil || !ok {
		t.Fatalf("IsDir(%q) = %v, %v; want true, nil", dir, ok, err)
	}

	file := filepath.Join(dir, "f")
	if err := ioutil.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsDir(file); err == nil || ok {
		t.Fatalf("IsDir(%q) = %v, %v; want false, non-nil", file, ok, err)
	}
}

func TestIsNonEmptyDir(t *testing.T) {
	dir, err := ioutil.TempDir("", "fsutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if ok, err := IsNonEmptyDir(dir); err != nil || ok {
		t.Fatalf("IsNonEmptyDir(%q) = %v, %v; want false, nil", dir, ok, err)
	}

	if err := ioutil.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsNonEmptyDir(dir); err != nil || !ok {
		t.Fatalf("IsNonEmptyDir(%q) = %v, %v; want true, nil", dir, ok, err)
	}
}

func TestIsRegular(t *testing.T) {
	dir, err := ioutil.TempDir("", "fsutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "f")
	if ok, err := IsRegular(file); err != nil || ok {
		t.Fatalf("IsRegular(%q) on missing file = %v, %v; want false, nil", file, ok, err)
	}

	if err := ioutil.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if ok, err := IsRegular(file); err != nil || !ok {
		t.Fatalf("IsRegular(%q) = %v, %v; want true, nil", file, ok, err)
	}

	if ok, err := IsRegular(dir); err == nil || ok {
		t.Fatalf("IsRegular(%q) on directory = %v, %v; want false, non-nil", dir, ok, err)
	}
}

func TestRenameWithFallback(t *testing.T) {
	dir, err := ioutil.TempDir("", "fsutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	if err := ioutil.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RenameWithFallback(src, dst); err != nil {
		t.Fatalf("RenameWithFallback() error = %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source %q should no longer exist", src)
	}
	got, err := ioutil.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("destination content = %q, want %q", got, "payload")
	}
}
