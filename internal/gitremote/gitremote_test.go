package gitremote

import (
	"context"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/forgepm/forge"
	"github.com/forgepm/forge/internal/procutil"
)

// newTestOrigin creates a tiny git repo with one commit and returns its
// path, for use as a file:// remote in the round-trip tests below.
func newTestOrigin(t *testing.T, dir string) string {
	t.Helper()
	origin := filepath.Join(dir, "origin")
	if err := os.MkdirAll(origin, 0755); err != nil {
		t.Fatal(err)
	}
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = origin
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=forge-test", "GIT_AUTHOR_EMAIL=forge-test@example.com",
			"GIT_COMMITTER_NAME=forge-test", "GIT_COMMITTER_EMAIL=forge-test@example.com")
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %s: %s", args, err, out)
		}
	}
	run("init", "--quiet")
	if err := ioutil.WriteFile(filepath.Join(origin, "forge.toml"), []byte("[package]\nname=\"x\"\nversion=\"1.0.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	run("add", "forge.toml")
	run("commit", "--quiet", "-m", "initial")
	return origin
}

func TestRemoteCheckoutIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow git test in short mode")
	}

	dir, err := ioutil.TempDir("", "forge-gitremote")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	origin := newTestOrigin(t, dir)
	runner := procutil.NewRunner(context.Background())
	remote := NewRemote("file://"+origin, runner, false, nil)

	dbPath := filepath.Join(dir, "db")
	db, err := remote.Checkout(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	// Calling Checkout again against the same path must fetch, not fail.
	if _, err := remote.Checkout(context.Background(), dbPath); err != nil {
		t.Fatalf("second Checkout() error = %v", err)
	}

	rev, err := db.RevFor(context.Background(), forge.DefaultGitReference)
	if err != nil {
		t.Fatalf("RevFor() error = %v", err)
	}
	if rev == "" {
		t.Fatal("RevFor() returned an empty revision")
	}
}

func TestDatabaseCopyToProducesWorkingTree(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow git test in short mode")
	}

	dir, err := ioutil.TempDir("", "forge-gitremote")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	origin := newTestOrigin(t, dir)
	runner := procutil.NewRunner(context.Background())
	remote := NewRemote("file://"+origin, runner, false, nil)

	db, err := remote.Checkout(context.Background(), filepath.Join(dir, "db"))
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	co, err := db.CopyTo(context.Background(), forge.DefaultGitReference, filepath.Join(dir, "wt"))
	if err != nil {
		t.Fatalf("CopyTo() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(co.Location, "forge.toml")); err != nil {
		t.Fatalf("checkout is missing forge.toml: %v", err)
	}
}

func TestDatabaseExportToOmitsGitDir(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping slow git test in short mode")
	}

	dir, err := ioutil.TempDir("", "forge-gitremote")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	origin := newTestOrigin(t, dir)
	runner := procutil.NewRunner(context.Background())
	remote := NewRemote("file://"+origin, runner, false, nil)

	db, err := remote.Checkout(context.Background(), filepath.Join(dir, "db"))
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}

	export := filepath.Join(dir, "export")
	if err := db.ExportTo(context.Background(), forge.DefaultGitReference, export); err != nil {
		t.Fatalf("ExportTo() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(export, ".git")); !os.IsNotExist(err) {
		t.Fatalf("ExportTo() left a .git directory behind: %v", err)
	}
	if _, err := os.Stat(filepath.Join(export, "forge.toml")); err != nil {
		t.Fatalf("export is missing forge.toml: %v", err)
	}
}
