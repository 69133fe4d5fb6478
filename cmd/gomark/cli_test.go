package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMemFs(t *testing.T) afero.Fs {
	t.Helper()
	mem := afero.NewMemMapFs()
	prev := fs
	fs = mem
	t.Cleanup(func() { fs = prev })
	return mem
}

func TestConvertFileToFile(t *testing.T) {
	mem := withMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "in.md", []byte("# Hello\n"), 0o644))

	cmd := &ConvertCmd{Input: "in.md", Output: "out.html", OutputFormat: "xhtml", Encoding: "utf-8"}
	require.NoError(t, cmd.Run())

	out, err := afero.ReadFile(mem, "out.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>\n", string(out))
}

func TestConvertRejectsUnsupportedEncoding(t *testing.T) {
	withMemFs(t)
	cmd := &ConvertCmd{Encoding: "latin-1"}
	err := cmd.Run()
	require.Error(t, err)
	var usage *usageError
	assert.ErrorAs(t, err, &usage)
}

func TestConvertWithTablesExtension(t *testing.T) {
	mem := withMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "in.md", []byte("|a|b|\n|-|-|\n|1|2|\n"), 0o644))

	cmd := &ConvertCmd{Input: "in.md", Output: "out.html", OutputFormat: "xhtml", Encoding: "utf-8", Extensions: []string{"tables"}}
	require.NoError(t, cmd.Run())

	out, err := afero.ReadFile(mem, "out.html")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<table>")
}

func TestConvertUnknownExtensionFails(t *testing.T) {
	withMemFs(t)
	cmd := &ConvertCmd{Encoding: "utf-8", Extensions: []string{"nope"}}
	err := cmd.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestConvertWithYAMLConfig(t *testing.T) {
	mem := withMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "in.md", []byte("[[Home]]\n"), 0o644))
	require.NoError(t, afero.WriteFile(mem, "cfg.yaml", []byte("wikilinks:\n  base_url: /wiki/\n  html_class: internal\n"), 0o644))

	cmd := &ConvertCmd{
		Input: "in.md", Output: "out.html", OutputFormat: "xhtml", Encoding: "utf-8",
		Extensions: []string{"wikilinks"}, Config: "cfg.yaml",
	}
	require.NoError(t, cmd.Run())

	out, err := afero.ReadFile(mem, "out.html")
	require.NoError(t, err)
	assert.Contains(t, string(out), `href="/wiki/Home/"`)
	assert.Contains(t, string(out), `class="internal"`)
}

func TestConvertWithJSONConfig(t *testing.T) {
	mem := withMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "in.md", []byte("|a|\n|:-|\n|x|\n"), 0o644))
	require.NoError(t, afero.WriteFile(mem, "cfg.json", []byte(`{"tables": {"use_align_attribute": true}}`), 0o644))

	cmd := &ConvertCmd{
		Input: "in.md", Output: "out.html", OutputFormat: "xhtml", Encoding: "utf-8",
		Extensions: []string{"tables"}, Config: "cfg.json",
	}
	require.NoError(t, cmd.Run())

	out, err := afero.ReadFile(mem, "out.html")
	require.NoError(t, err)
	assert.Contains(t, string(out), `align="left"`)
}
