// Package main implements the gomark command-line converter: the CLI
// surface described by the core library's External Interfaces, built with
// kong the way the teacher's cmd package builds spectr's own CLI.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	kongcompletion "github.com/jotaen/kong-completion"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	md "github.com/htmlmd/markdown"
	"github.com/htmlmd/markdown/internal/cliext"
)

// CLI is the root command structure for Kong. Convert is the default
// command (kong's "withargs" default), so `gomark in.md -o html` runs it
// without naming it; Completion and Version are named subcommands.
type CLI struct {
	Convert    ConvertCmd                `cmd:"" default:"withargs" help:"Convert Markdown to HTML (default command)"`
	Completion kongcompletion.Completion `cmd:"" help:"Generate shell completion scripts"`
	Version    VersionCmd                `cmd:"" help:"Print gomark's version"`
}

// ConvertCmd implements the spec's CLI surface: a positional input file
// (stdin if absent), -f/-e/-o/-n/-x/-c, and -q/-v/--noisy verbosity.
type ConvertCmd struct {
	Input string `arg:"" optional:"" type:"path" help:"Markdown input file (stdin if omitted)"`

	Output       string   `short:"f" type:"path" help:"Output file path (stdout if omitted)"`
	Encoding     string   `short:"e" default:"utf-8" help:"Input/output text encoding; only utf-8 is supported"`
	OutputFormat string   `short:"o" enum:"xhtml,html" default:"xhtml" help:"Output format"`
	NoLazyOL     bool     `short:"n" help:"Disable lazy ordered lists (a list's first marker no longer sets its start)"`
	Extensions   []string `short:"x" help:"Extension identifier to enable (repeatable)"`
	Config       string   `short:"c" type:"path" help:"JSON or YAML file of per-extension option maps"`

	Quiet   bool `short:"q" help:"Suppress warnings"`
	Verbose bool `short:"v" help:"Print warnings"`
	Noisy   bool `help:"Print debug-level diagnostics"`
}

// fs is overridden in tests to an in-memory filesystem.
var fs afero.Fs = afero.NewOsFs()

func (c *ConvertCmd) logger() *slog.Logger {
	level := slog.LevelError
	switch {
	case c.Noisy:
		level = slog.LevelDebug
	case c.Verbose:
		level = slog.LevelWarn
	case c.Quiet:
		level = slog.LevelError + 1 // above Error: nothing is logged
	}
	color := isatty.IsTerminal(os.Stderr.Fd())
	return slog.New(newColorHandler(os.Stderr, level, color))
}

// Run executes the convert command.
func (c *ConvertCmd) Run() error {
	log := c.logger()

	if !strings.EqualFold(c.Encoding, "utf-8") && !strings.EqualFold(c.Encoding, "utf8") {
		return &usageError{fmt.Sprintf("unsupported encoding %q: only utf-8 is supported", c.Encoding)}
	}

	source, err := c.readInput()
	if err != nil {
		return err
	}

	extConfigs, err := c.loadConfig()
	if err != nil {
		return err
	}

	exts, err := c.resolveExtensions(extConfigs)
	if err != nil {
		return err
	}

	m := md.New(
		md.WithOutputFormat(c.OutputFormat),
		md.WithLazyOL(!c.NoLazyOL),
		md.WithExtensions(exts...),
	)

	out, err := m.ConvertBytes(source)
	if err != nil {
		return err
	}
	log.Debug("conversion complete", "bytes_in", len(source), "bytes_out", len(out))

	return c.writeOutput(out)
}

func (c *ConvertCmd) readInput() ([]byte, error) {
	if c.Input == "" {
		return io.ReadAll(os.Stdin)
	}
	return afero.ReadFile(fs, c.Input)
}

func (c *ConvertCmd) writeOutput(out string) error {
	out += "\n"
	if c.Output == "" {
		_, err := io.WriteString(os.Stdout, out)
		return err
	}
	return afero.WriteFile(fs, c.Output, []byte(out), 0o644)
}

// loadConfig reads -c as YAML (a superset of JSON for the documents this
// accepts), falling back to strict JSON decoding if that fails — the
// original implementation's own JSON fallback, per the library's config
// grounding.
func (c *ConvertCmd) loadConfig() (map[string]map[string]any, error) {
	if c.Config == "" {
		return nil, nil
	}
	raw, err := afero.ReadFile(fs, c.Config)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", c.Config, err)
	}

	var cfg map[string]map[string]any
	if yamlErr := yaml.Unmarshal(raw, &cfg); yamlErr == nil {
		return cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if jsonErr := dec.Decode(&cfg); jsonErr != nil {
		return nil, fmt.Errorf("parse config %s: not valid YAML or JSON: %w", c.Config, jsonErr)
	}
	return cfg, nil
}

// resolveExtensions looks up every -x identifier in the built-in registry,
// collecting every failure (not just the first) into one error so a typo'd
// flag list is reported in full.
func (c *ConvertCmd) resolveExtensions(configs map[string]map[string]any) ([]md.Extension, error) {
	var result *multierror.Error
	exts := make([]md.Extension, 0, len(c.Extensions))
	for _, name := range c.Extensions {
		ext, err := cliext.Resolve(name, configs[name])
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		exts = append(exts, ext)
	}
	if result != nil {
		return nil, result.ErrorOrNil()
	}
	return exts, nil
}

// usageError marks an error that corresponds to invalid CLI usage (exit
// code 2) rather than a runtime failure during conversion (exit code 1).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }
