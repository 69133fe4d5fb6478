// Package cliext resolves the small set of built-in extension identifiers
// the gomark CLI accepts via -x, and applies per-identifier option maps
// loaded from a -c config file onto them.
//
// Go has no equivalent of Python's entry-point-based plugin loading
// (resolving an arbitrary third-party package by string name without a
// compiled-in reference to it), so this registry is closed: it knows only
// the extensions this module ships.
package cliext

import (
	"fmt"

	md "github.com/htmlmd/markdown"
	"github.com/htmlmd/markdown/extensions/tables"
	"github.com/htmlmd/markdown/extensions/wikilinks"
	"gopkg.in/yaml.v3"
)

// Factory builds an Extension from an option map decoded from a -c config
// file's section for this identifier. opts may be nil.
type Factory func(opts map[string]any) (md.Extension, error)

var registry = map[string]Factory{
	"tables":    newTables,
	"wikilinks": newWikilinks,
}

// Resolve looks up name in the built-in registry and applies opts to it.
func Resolve(name string, opts map[string]any) (md.Extension, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, &md.ExtensionLoadError{Name: name, Reason: "no built-in extension registered under this identifier"}
	}
	ext, err := factory(opts)
	if err != nil {
		return nil, &md.ExtensionLoadError{Name: name, Reason: err.Error()}
	}
	return ext, nil
}

// Names returns the identifiers Resolve accepts, in no particular order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// decode re-marshals a generic option map into dst via YAML, so the same
// map produced from either a JSON or a YAML -c file decodes the same way.
func decode(opts map[string]any, dst any) error {
	if opts == nil {
		return nil
	}
	raw, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("re-encode options: %w", err)
	}
	return yaml.Unmarshal(raw, dst)
}

func newTables(opts map[string]any) (md.Extension, error) {
	var ext tables.Extension
	if err := decode(opts, &ext); err != nil {
		return nil, err
	}
	return ext, nil
}

func newWikilinks(opts map[string]any) (md.Extension, error) {
	var ext wikilinks.Extension
	if err := decode(opts, &ext); err != nil {
		return nil, err
	}
	return ext, nil
}
