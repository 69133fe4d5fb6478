package markdown

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"
)

func convertXHTML(t *testing.T, src string) string {
	t.Helper()
	md := New()
	out, err := md.Convert(src)
	require.NoError(t, err)
	return out
}

func TestConvertEmptyInput(t *testing.T) {
	assert.Equal(t, "", convertXHTML(t, ""))
}

func TestConvertBareParagraph(t *testing.T) {
	assert.Equal(t, "<p>foo</p>", convertXHTML(t, "foo"))
}

func TestConvertHeadingParagraphAndIndentedCode(t *testing.T) {
	got := convertXHTML(t, "#foo\n\nbar\n\n    baz")
	want := "<h1>foo</h1>\n<p>bar</p>\n<pre><code>baz\n</code></pre>"
	assert.Equal(t, want, got)
}

func TestConvertRawHTMLBlockRoundTrips(t *testing.T) {
	assert.Equal(t, "<p>*raw*</p>", convertXHTML(t, "<p>*raw*</p>"))
}

func TestConvertBacktickCodeSpanEscapesContent(t *testing.T) {
	got := convertXHTML(t, "`<em>code</em>`")
	assert.Equal(t, "<p><code>&lt;em&gt;code&lt;/em&gt;</code></p>", got)
}

func TestConvertEmphasisAndStrongAndNestedCombined(t *testing.T) {
	assert.Equal(t, "<p><em>x</em></p>", convertXHTML(t, "*x*"))
	assert.Equal(t, "<p><strong>x</strong></p>", convertXHTML(t, "**x**"))
	assert.Equal(t, "<p><strong><em>x</em></strong></p>", convertXHTML(t, "***x***"))
}

func TestConvertRawHTMLInsideMarkdownSurroundsCorrectly(t *testing.T) {
	got := convertXHTML(t, "Some *Markdown* text.\n\n<p>*Raw* HTML.</p>\n\nMore *Markdown*.")
	assert.Contains(t, got, "<p>Some <em>Markdown</em> text.</p>")
	assert.Contains(t, got, "<p>*Raw* HTML.</p>")
	assert.Contains(t, got, "More <em>Markdown</em>.")
	// The raw block must not have been re-wrapped in a paragraph of its own.
	assert.NotContains(t, got, "<p><p>")
}

func TestConvertOutputFormatHTMLOmitsSelfClosingSlash(t *testing.T) {
	md := New(WithOutputFormat("html"))
	out, err := md.Convert("---")
	require.NoError(t, err)
	assert.Equal(t, "<hr>", out)
}

func TestConvertOutputFormatXHTMLSelfCloses(t *testing.T) {
	md := New(WithOutputFormat("xhtml"))
	out, err := md.Convert("---")
	require.NoError(t, err)
	assert.Equal(t, "<hr />", out)
}

func TestConvertUnknownOutputFormatErrors(t *testing.T) {
	md := New()
	md.OutputFormat = "bogus"
	_, err := md.Convert("foo")
	require.Error(t, err)
	var boe *BadOutputFormatError
	require.ErrorAs(t, err, &boe)
}

func TestConvertBytesRejectsInvalidUTF8(t *testing.T) {
	md := New()
	_, err := md.ConvertBytes([]byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
	var bie *BadInputError
	require.ErrorAs(t, err, &bie)
}

func TestConvertNormalizesLineEndingsAndStripsBOM(t *testing.T) {
	got := convertXHTML(t, "\xef\xbb\xbf#hi\r\n\r\nbody")
	assert.Equal(t, "<h1>hi</h1>\n<p>body</p>", got)
}

func TestConvertOrderedAndUnorderedLists(t *testing.T) {
	got := convertXHTML(t, "1. one\n2. two")
	assert.Equal(t, "<ol>\n<li>one</li>\n<li>two</li>\n</ol>", got)

	got = convertXHTML(t, "- a\n- b")
	assert.Equal(t, "<ul>\n<li>a</li>\n<li>b</li>\n</ul>", got)
}

func TestConvertLazyOLRespectsStartValue(t *testing.T) {
	got := convertXHTML(t, "5. five\n6. six")
	assert.Contains(t, got, `start="5"`)

	md := New(WithLazyOL(false))
	out, err := md.Convert("5. five\n6. six")
	require.NoError(t, err)
	assert.NotContains(t, out, `start="5"`)
}

func TestConvertBlockquote(t *testing.T) {
	got := convertXHTML(t, "> quoted line")
	assert.Equal(t, "<blockquote>\n<p>quoted line</p>\n</blockquote>", got)
}

func TestConvertReferenceStyleLink(t *testing.T) {
	got := convertXHTML(t, "See [site][1].\n\n[1]: https://example.com \"Example\"")
	assert.Equal(t, `<p>See <a href="https://example.com" title="Example">site</a>.</p>`, got)
}

func TestConvertInlineLinkAndImage(t *testing.T) {
	assert.Equal(t, `<p><a href="/x" title="T">text</a></p>`, convertXHTML(t, `[text](/x "T")`))
	assert.Equal(t, `<p><img src="/i.png" alt="alt text" /></p>`, convertXHTML(t, "![alt text](/i.png)"))
}

func TestConvertAutolink(t *testing.T) {
	got := convertXHTML(t, "<https://example.com>")
	assert.Equal(t, `<p><a href="https://example.com">https://example.com</a></p>`, got)
}

func TestConvertEscapedDelimiterIsLiteral(t *testing.T) {
	got := convertXHTML(t, `\*not em\*`)
	assert.Equal(t, "<p>*not em*</p>", got)
}

func TestResetClearsStashAndReferences(t *testing.T) {
	md := New()
	_, err := md.Convert("[a]: /a")
	require.NoError(t, err)
	_, err = md.Convert("<p>*raw*</p>")
	require.NoError(t, err)
	require.NotEqual(t, 0, md.Stash.Len())

	md.Reset()
	assert.Equal(t, 0, md.Stash.Len())
	assert.Equal(t, 0, len(md.References))
}

func TestRegisterExtensionInvokesExtendMarkdown(t *testing.T) {
	called := false
	ext := extensionFunc(func(md *Markdown) { called = true })
	md := New(WithExtensions(ext))
	assert.True(t, called)
	_ = md
}

type extensionFunc func(md *Markdown)

func (f extensionFunc) ExtendMarkdown(md *Markdown) { f(md) }
