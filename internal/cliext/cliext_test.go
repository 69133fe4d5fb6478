package cliext_test

import (
	"testing"

	"github.com/htmlmd/markdown/extensions/tables"
	"github.com/htmlmd/markdown/extensions/wikilinks"
	"github.com/htmlmd/markdown/internal/cliext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTablesWithOptions(t *testing.T) {
	ext, err := cliext.Resolve("tables", map[string]any{"use_align_attribute": true})
	require.NoError(t, err)
	tableExt, ok := ext.(tables.Extension)
	require.True(t, ok)
	assert.True(t, tableExt.UseAlignAttribute)
}

func TestResolveWikilinksWithOptions(t *testing.T) {
	ext, err := cliext.Resolve("wikilinks", map[string]any{"base_url": "/wiki/", "html_class": "internal"})
	require.NoError(t, err)
	wikiExt, ok := ext.(wikilinks.Extension)
	require.True(t, ok)
	assert.Equal(t, "/wiki/", wikiExt.BaseURL)
	assert.Equal(t, "internal", wikiExt.HTMLClass)
}

func TestResolveNilOptionsUsesZeroValue(t *testing.T) {
	ext, err := cliext.Resolve("tables", nil)
	require.NoError(t, err)
	tableExt, ok := ext.(tables.Extension)
	require.True(t, ok)
	assert.False(t, tableExt.UseAlignAttribute)
}

func TestResolveUnknownIdentifierFails(t *testing.T) {
	_, err := cliext.Resolve("nonexistent", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestNamesListsBuiltins(t *testing.T) {
	names := cliext.Names()
	assert.ElementsMatch(t, []string{"tables", "wikilinks"}, names)
}
