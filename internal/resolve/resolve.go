// Package resolve turns a manifest's direct dependencies into the full,
// flattened set of packages a build needs, by repeatedly querying a
// forge.Registry until every transitive dependency has been looked up
// exactly once.
package resolve

import (
	"github.com/forgepm/forge"
)

// Resolve walks deps and their transitive dependencies against reg,
// returning one forge.PackageId per distinct package name. A dependency
// that zero or more than one of the registry's Summaries satisfy is an
// error: the baseline resolver has no version-range solver to pick among
// candidates, so exactly one Summary per name may satisfy it.
func Resolve(deps []forge.Dependency, reg forge.Registry) ([]forge.PackageId, error) {
	remaining := append([]forge.Dependency(nil), deps...)
	resolved := make(map[string]forge.Summary)

	for len(remaining) > 0 {
		n := len(remaining) - 1
		curr := remaining[n]
		remaining = remaining[:n]

		if _, ok := resolved[curr.Name]; ok {
			continue
		}

		opts, err := reg.Query(curr.Name)
		if err != nil {
			return nil, err
		}

		matches := filterSatisfying(opts, curr)
		switch len(matches) {
		case 0:
			return nil, &forge.UnresolvedDependencyError{Name: curr.Name}
		case 1:
			// fallthrough to the single-match path below
		default:
			return nil, &forge.AmbiguousDependencyError{Name: curr.Name, Count: len(matches)}
		}

		pkg := matches[0]
		resolved[pkg.PackageId.Name] = pkg

		for _, dep := range pkg.Dependencies {
			if _, ok := resolved[dep.Name]; !ok {
				remaining = append(remaining, dep)
			}
		}
	}

	out := make([]forge.PackageId, 0, len(resolved))
	for _, s := range resolved {
		out = append(out, s.PackageId)
	}
	return out, nil
}

// filterSatisfying narrows opts to the Summaries whose PackageId actually
// satisfies dep's version requirement and namespace, in case a Registry
// returns every version it knows about rather than pre-filtering.
func filterSatisfying(opts []forge.Summary, dep forge.Dependency) []forge.Summary {
	var out []forge.Summary
	for _, s := range opts {
		if dep.Satisfies(s.PackageId) {
			out = append(out, s)
		}
	}
	return out
}
