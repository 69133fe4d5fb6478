package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeHTMLVoidElement(t *testing.T) {
	root := NewElement(GroupTag)
	SubElement(root, "hr")

	out, err := SerializeHTML(root)
	require.NoError(t, err)
	assert.Equal(t, "<hr>", out)
}

func TestSerializeXHTMLVoidElement(t *testing.T) {
	root := NewElement(GroupTag)
	SubElement(root, "hr")

	out, err := SerializeXHTML(root)
	require.NoError(t, err)
	assert.Equal(t, "<hr />", out)
}

func TestSerializeBooleanAttribute(t *testing.T) {
	root := NewElement(GroupTag)
	input := SubElement(root, "input")
	input.Set("disabled", "disabled")

	html, err := SerializeHTML(root)
	require.NoError(t, err)
	assert.Equal(t, "<input disabled>", html)

	xhtml, err := SerializeXHTML(root)
	require.NoError(t, err)
	assert.Equal(t, `<input disabled="disabled" />`, xhtml)
}

func TestSerializeEscapesAttributesAndText(t *testing.T) {
	root := NewElement(GroupTag)
	a := SubElement(root, "a")
	a.Set("href", `x"y&z<w>`)
	a.Text = PlainString("<tom & jerry>")

	out, err := SerializeHTML(root)
	require.NoError(t, err)
	assert.Equal(t, `<a href="x&quot;y&amp;z&lt;w&gt;">&lt;tom &amp; jerry&gt;</a>`, out)
}

func TestSerializeControlCharInAttribute(t *testing.T) {
	root := NewElement(GroupTag)
	e := SubElement(root, "span")
	e.Set("data-x", "a\x01b")

	out, err := SerializeHTML(root)
	require.NoError(t, err)
	assert.Equal(t, `<span data-x="a&#1;b"></span>`, out)
}

func TestSerializeGroupTagEmitsOnlyChildren(t *testing.T) {
	root := NewElement(GroupTag)
	root.Text = PlainString("before ")
	SubElement(root, "em").Text = PlainString("x")

	out, err := SerializeHTML(root)
	require.NoError(t, err)
	assert.Equal(t, "before <em>x</em>", out)
}

func TestSerializeCommentAndPI(t *testing.T) {
	root := NewElement(GroupTag)
	c := SubElement(root, CommentTag)
	c.Text = PlainString(" a comment ")
	pi := SubElement(root, PITag)
	pi.Set("target", "xml-stylesheet")
	pi.Text = PlainString(`href="x.xsl"`)

	out, err := SerializeHTML(root)
	require.NoError(t, err)
	assert.Equal(t, `<!-- a comment --><?xml-stylesheet href=&quot;x.xsl&quot;?>`, out)
}

func TestSerializeNamespaceDeclaredOnce(t *testing.T) {
	root := NewElement(GroupTag)
	outer := SubElement(root, "svg")
	outer.Namespace = "http://www.w3.org/2000/svg"
	inner := SubElement(outer, "path")
	inner.Namespace = "http://www.w3.org/2000/svg"

	out, err := SerializeHTML(root)
	require.NoError(t, err)
	assert.Equal(t,
		`<svg xmlns="http://www.w3.org/2000/svg"><path></path></svg>`,
		out,
	)
}

func TestSerializeQualifiedNameEmptyLocalPartErrors(t *testing.T) {
	root := NewElement(GroupTag)
	bad := SubElement(root, "")
	bad.Namespace = "http://example.com/ns"

	_, err := SerializeHTML(root)
	require.Error(t, err)
}

func TestSerializePreservesTagCasing(t *testing.T) {
	root := NewElement(GroupTag)
	SubElement(root, "MixedCase")

	out, err := SerializeHTML(root)
	require.NoError(t, err)
	assert.Equal(t, "<MixedCase></MixedCase>", out)
}
