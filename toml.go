// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forge

import (
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// tomlMapper accumulates the first error encountered while reading fields
// off a TomlTree, so callers can chain reads without checking err after
// every single field.
type tomlMapper struct {
	Tree  *toml.TomlTree
	Error error
}

func readTableAsDependencies(mapper *tomlMapper, table string) []rawDependency {
	if mapper.Error != nil {
		return nil
	}

	query, err := mapper.Tree.Query("$." + table)
	if err != nil {
		mapper.Error = errors.Wrapf(err, "unable to query for [[%s]]", table)
		return nil
	}

	matches := query.Values()
	if len(matches) == 0 {
		return nil
	}

	tables, ok := matches[0].([]*toml.TomlTree)
	if !ok {
		mapper.Error = errors.Errorf("invalid query result type for [[%s]], should be a TOML array of tables but got %T", table, matches[0])
		return nil
	}

	subMapper := &tomlMapper{}
	deps := make([]rawDependency, len(tables))
	for i := 0; i < len(tables); i++ {
		subMapper.Tree = tables[i]
		deps[i] = mapDependency(subMapper)
	}

	if subMapper.Error != nil {
		mapper.Error = subMapper.Error
		return nil
	}
	return deps
}

func readTableAsTargets(mapper *tomlMapper, table string) []rawTarget {
	if mapper.Error != nil {
		return nil
	}

	query, err := mapper.Tree.Query("$." + table)
	if err != nil {
		mapper.Error = errors.Wrapf(err, "unable to query for [[%s]]", table)
		return nil
	}

	matches := query.Values()
	if len(matches) == 0 {
		return nil
	}

	tables, ok := matches[0].([]*toml.TomlTree)
	if !ok {
		mapper.Error = errors.Errorf("invalid query result type for [[%s]], should be a TOML array of tables but got %T", table, matches[0])
		return nil
	}

	subMapper := &tomlMapper{}
	targets := make([]rawTarget, len(tables))
	for i := 0; i < len(tables); i++ {
		subMapper.Tree = tables[i]
		targets[i] = mapTarget(subMapper)
	}

	if subMapper.Error != nil {
		mapper.Error = subMapper.Error
		return nil
	}
	return targets
}

func mapDependency(mapper *tomlMapper) rawDependency {
	if mapper.Error != nil {
		return rawDependency{}
	}

	dep := rawDependency{
		Name:      readKeyAsString(mapper, "name"),
		Version:   readKeyAsString(mapper, "version"),
		Git:       readKeyAsString(mapper, "git"),
		Branch:    readKeyAsString(mapper, "branch"),
		Tag:       readKeyAsString(mapper, "tag"),
		Revision:  readKeyAsString(mapper, "revision"),
		Namespace: readKeyAsString(mapper, "namespace"),
	}

	if mapper.Error != nil {
		return rawDependency{}
	}
	return dep
}

func mapTarget(mapper *tomlMapper) rawTarget {
	if mapper.Error != nil {
		return rawTarget{}
	}

	t := rawTarget{
		Name:       readKeyAsString(mapper, "name"),
		Kind:       readKeyAsString(mapper, "kind"),
		SourcePath: readKeyAsString(mapper, "source_path"),
		CrateTypes: readKeyAsStringList(mapper, "crate_types"),
	}

	if mapper.Error != nil {
		return rawTarget{}
	}
	return t
}

func readKeyAsString(mapper *tomlMapper, key string) string {
	if mapper.Error != nil {
		return ""
	}

	rawValue := mapper.Tree.GetDefault(key, "")
	value, ok := rawValue.(string)
	if !ok {
		mapper.Error = errors.Errorf("invalid type for %s, should be a string, but it is a %T", key, rawValue)
		return ""
	}
	return value
}

// readKeyAsStringList reads key as a TOML array of strings, e.g.
// authors or a target's crate_types. A missing key yields nil, not an
// error.
func readKeyAsStringList(mapper *tomlMapper, key string) []string {
	if mapper.Error != nil {
		return nil
	}

	query, err := mapper.Tree.Query("$." + key)
	if err != nil {
		mapper.Error = errors.Wrapf(err, "unable to query for [%s]", key)
		return nil
	}

	matches := query.Values()
	if len(matches) == 0 {
		return nil
	}

	list, ok := matches[0].([]interface{})
	if !ok {
		mapper.Error = errors.Errorf("invalid query result type for [%s], should be a TOML list ([]interface{}) but got %T", key, matches[0])
		return nil
	}

	results := make([]string, len(list))
	for i := range list {
		s, ok := list[i].(string)
		if !ok {
			mapper.Error = errors.Errorf("invalid query result item type for [%s], should be a TOML list of strings but got %T", key, list[i])
			return nil
		}
		results[i] = s
	}
	return results
}
