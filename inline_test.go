package markdown

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plusStrongProcessor is a minimal custom InlineProcessor, independent of
// any built-in pattern, used only to exercise the ancestor-exclusion
// mechanism directly: "+x+" becomes <strong>x</strong> everywhere except
// inside an <a>.
var plusStrongRe = regexp.MustCompile(`\+(.+?)\+`)

type plusStrongProcessor struct{ BaseInlineProcessor }

func newPlusStrongProcessor() *plusStrongProcessor {
	return &plusStrongProcessor{BaseInlineProcessor{Re: plusStrongRe, Excludes: map[string]bool{"a": true}}}
}

func (p *plusStrongProcessor) HandleMatch(data string, m []int) InlineMatch {
	e := NewElement("strong")
	e.Text = PlainString(data[m[2]:m[3]])
	return InlineMatch{Element: e}
}

func TestAncestorExclusionPreventsMatchInsideExcludedAnchor(t *testing.T) {
	md := New()
	md.InlineProcessors.Register(newPlusStrongProcessor(), "plus_strong", PriorityStrongEm+5)

	got, err := md.Convert("+x+ and [+y+](/u)")
	require.NoError(t, err)

	assert.Contains(t, got, "<strong>x</strong>")
	assert.Contains(t, got, ">+y+<")
	assert.NotContains(t, got, "<strong>y</strong>")
}

func TestAtomicTextNeverExpandedByInlineProcessors(t *testing.T) {
	got := convertXHTML(t, "`*not em*`")
	assert.Equal(t, "<p><code>*not em*</code></p>", got)
}

func TestReferenceImageDeclineFallsThroughToInlineImage(t *testing.T) {
	got := convertXHTML(t, "![alt text](/i.png)")
	assert.Equal(t, `<p><img src="/i.png" alt="alt text" /></p>`, got)
}

func TestReferenceLinkDeclineFallsThroughToInlineLink(t *testing.T) {
	got := convertXHTML(t, "[text](/x)")
	assert.Equal(t, `<p><a href="/x">text</a></p>`, got)
}

func TestReferenceLinkWithUndefinedLabelIsLiteral(t *testing.T) {
	got := convertXHTML(t, "See [nope][99].")
	assert.Equal(t, "<p>See [nope][99].</p>", got)
}

// decliningProcessor matches the same span as acceptingProcessor but always
// declines, proving Apply falls through to the next candidate instead of
// treating the decline as a consumed, empty match.
var wordRe = regexp.MustCompile(`\w+`)

type decliningProcessor struct{ BaseInlineProcessor }

func newDecliningProcessor() *decliningProcessor {
	return &decliningProcessor{BaseInlineProcessor{Re: wordRe}}
}

func (p *decliningProcessor) HandleMatch(data string, m []int) InlineMatch {
	return InlineMatch{Decline: true}
}

type acceptingProcessor struct{ BaseInlineProcessor }

func newAcceptingProcessor() *acceptingProcessor {
	return &acceptingProcessor{BaseInlineProcessor{Re: wordRe}}
}

func (p *acceptingProcessor) HandleMatch(data string, m []int) InlineMatch {
	e := NewElement("accepted")
	e.Text = PlainString(data[m[0]:m[1]])
	return InlineMatch{Element: e}
}

func TestHTMLEntityRoundTripsThroughAmpSubstitute(t *testing.T) {
	assert.Equal(t, "<p>&copy;</p>", convertXHTML(t, "&copy;"))
	assert.Equal(t, "<p>&amp;</p>", convertXHTML(t, "&amp;"))
	assert.Equal(t, "<p>&#169;</p>", convertXHTML(t, "&#169;"))
	assert.Equal(t, "<p>&#x3b;</p>", convertXHTML(t, "&#x3b;"))
}

func TestBareAmpersandIsEscapedButEntityIsNot(t *testing.T) {
	got := convertXHTML(t, "Tom & Jerry vs. &amp;")
	assert.Equal(t, "<p>Tom &amp; Jerry vs. &amp;</p>", got)
}

func TestInlineEngineDeclineLetsLowerPriorityCandidateWin(t *testing.T) {
	engine := &InlineEngine{Patterns: NewRegistry[InlineProcessor]()}
	engine.Patterns.Register(newDecliningProcessor(), "declines", 100)
	engine.Patterns.Register(newAcceptingProcessor(), "accepts", 50)

	runs := engine.Apply("hello world", map[string]bool{})
	require.NotEmpty(t, runs)
	require.NotNil(t, runs[0].element)
	assert.Equal(t, "accepted", runs[0].element.Tag)
}
