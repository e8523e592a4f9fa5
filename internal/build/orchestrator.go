// Package build drives an external compiler over a resolved PackageSet:
// every non-primary package's library targets compile into a shared
// deps/ directory, then the primary package's own targets compile into
// target/, linked against deps/.
package build

import (
	"context"
	"os"
	"path/filepath"

	"github.com/forgepm/forge"
	"github.com/forgepm/forge/internal/procutil"
)

// Orchestrator compiles a primary package and its dependency set with an
// external compiler, by default rustc, matching the invocation shape
// spec.md's build component names: <target> --crate-type <kind>
// --out-dir <dest> -L <deps>, invoked once per declared crate_type.
type Orchestrator struct {
	Compiler string
	Runner   *procutil.Runner
	Verbose  bool
	Sink     interface {
		Write(p []byte) (int, error)
	}
}

// NewOrchestrator builds an Orchestrator driving compiler (e.g. "rustc")
// through runner.
func NewOrchestrator(compiler string, runner *procutil.Runner) *Orchestrator {
	if compiler == "" {
		compiler = "rustc"
	}
	return &Orchestrator{Compiler: compiler, Runner: runner}
}

// CompilePackages compiles pkg (the primary package) and every package in
// deps into targetDir, in dependency order: a cycle among deps is a
// forge.CircularDependencyError, not a panic.
func (o *Orchestrator) CompilePackages(ctx context.Context, pkg *forge.Package, deps *forge.PackageSet, targetDir string) error {
	depsDir := filepath.Join(targetDir, "deps")
	if err := mkTarget(targetDir); err != nil {
		return err
	}
	if err := mkTarget(depsDir); err != nil {
		return err
	}

	sorted, err := deps.Sort()
	if err != nil {
		return err
	}

	for _, dep := range sorted.All() {
		if err := o.compilePkg(ctx, dep, depsDir, depsDir, false); err != nil {
			return err
		}
	}

	return o.compilePkg(ctx, pkg, targetDir, depsDir, true)
}

// compilePkg compiles one package's targets. Non-primary packages only
// contribute their library targets to a build; binary targets only build
// when their owning package is the one being built directly. Each target
// is compiled once per declared crate_type.
func (o *Orchestrator) compilePkg(ctx context.Context, pkg *forge.Package, dest, depsDir string, primary bool) error {
	for _, target := range pkg.Manifest.Targets {
		if !primary && target.Kind != forge.TargetLib {
			continue
		}
		for _, crateType := range target.CrateTypes {
			if err := o.rustc(ctx, pkg.Root, target, crateType, dest, depsDir, primary); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *Orchestrator) rustc(ctx context.Context, root string, target forge.Target, crateType, dest, depsDir string, primary bool) error {
	args := []string{
		filepath.Join(root, target.SourcePath),
		"--crate-type", crateType,
		"--out-dir", dest,
		"-L", depsDir,
	}

	inv := procutil.Invocation{
		Name:  o.Compiler,
		Args:  args,
		Dir:   root,
		Unset: []string{"RUST_LOG"}, // the compiler's own logging is too noisy to pass through
	}
	// With a Sink set, the primary package's output always streams live;
	// a dependency's only streams under -v, and is otherwise captured and
	// discarded on success. Verbose here governs only the non-primary case.
	// Without a Sink, every invocation's output is captured.
	if (primary || o.Verbose) && o.Sink != nil {
		inv.Stream = true
		inv.Sink = procutil.NewSink(o.Sink)
	}

	res, err := o.Runner.Run(ctx, inv)
	if err != nil {
		return &forge.CompilerError{Argv: res.Argv, Dir: root, Stderr: string(res.Stderr), Err: err}
	}
	return nil
}

func mkTarget(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &forge.IoError{Path: dir, Err: err}
	}
	return nil
}
