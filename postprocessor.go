package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// Postprocessor rewrites the fully serialized output string (§2 stage 5).
type Postprocessor interface {
	Run(text string) string
}

// PostprocessorFunc adapts a plain function to the Postprocessor interface.
type PostprocessorFunc func(text string) string

func (f PostprocessorFunc) Run(text string) string { return f(text) }

// Priorities for the built-in postprocessors: the raw-HTML restoration must
// run before any other postprocessor gets a chance to see (and potentially
// mangle) placeholder tokens.
const (
	PriorityRawHTMLRestore = 30
	PriorityAmpSubstitute  = 20
)

var stashPlaceholderRe = regexp.MustCompile(string(stashSentinel) + stashTag + `(\d+)` + string(stashSentinel))

// RawHTMLPostprocessor replaces every stash placeholder in the serialized
// output with its original fragment, restoring raw HTML byte-for-byte.
type RawHTMLPostprocessor struct {
	Stash *HtmlStash
}

func NewRawHTMLPostprocessor(stash *HtmlStash) *RawHTMLPostprocessor {
	return &RawHTMLPostprocessor{Stash: stash}
}

// firstTagNameRe extracts the tag name from the opening or closing tag a
// stashed fragment begins with, so Run can tell whether the block parser's
// paragraph fallback wrapped it in a spurious <p> it never asked for.
var firstTagNameRe = regexp.MustCompile(`^\s*</?([a-zA-Z][a-zA-Z0-9]*)`)

// isBlockLevelFragment reports whether html's outermost tag is block-level,
// mirroring the check the spec's paragraph fallback has no visibility into
// (it runs before the stash is restored, so it cannot itself tell a raw
// block apart from ordinary text).
func isBlockLevelFragment(html string) bool {
	m := firstTagNameRe.FindStringSubmatch(html)
	return m != nil && blockLevelTags[strings.ToLower(m[1])]
}

func (p *RawHTMLPostprocessor) Run(text string) string {
	// A block-level raw fragment sits in the tree as a paragraph's sole
	// text (nothing else could have matched its block, so the paragraph
	// fallback claimed it): unwrap the <p> the fallback added before it
	// had any chance to recognize the placeholder as already being HTML.
	for i := 0; i < p.Stash.Len(); i++ {
		frag, ok := p.Stash.Get(i)
		if !ok || !isBlockLevelFragment(frag) {
			continue
		}
		wrapped := "<p>" + Placeholder(i) + "</p>"
		text = strings.ReplaceAll(text, wrapped, frag+"\n")
	}

	return stashPlaceholderRe.ReplaceAllStringFunc(text, func(tok string) string {
		m := stashPlaceholderRe.FindStringSubmatch(tok)
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return tok
		}
		frag, ok := p.Stash.Get(idx)
		if !ok {
			return tok
		}
		return frag
	})
}

// ampSubstitute stands in for the leading "&" of an HTML entity recognized
// by HTMLEntityProcessor (§4.5). The inline engine marks that processor's
// output atomic, but the splice back into the tree still lands it in an
// ordinary text/tail string, so the serializer's escapeText would otherwise
// turn a literal "&copy;" into "&amp;copy;" on its way out — and ampRe below
// can't undo that, since "&amp;copy;" already looks like a valid, untouched
// entity reference. Using a private-use sentinel instead of "&" sidesteps
// escapeText entirely (it escapes only &, <, >) and is restored to a
// literal "&" here, the very last postprocessing step, so the entity comes
// out exactly as it went in.
const ampSubstitute = "amp"

// ampRe matches every "&" together with the entity or character reference
// it begins, if any, so Run can normalize only the bare ones to "&amp;" —
// output already produced by the serializer/inline entity pattern is left
// untouched because it already forms a complete reference.
var ampRe = regexp.MustCompile(`&(?:#[0-9]+;|#x[0-9a-fA-F]+;|[A-Za-z][A-Za-z0-9]*;)?`)

// AmpSubstitutePostprocessor is the final textual substitution pass: first
// it restores every ampSubstitute sentinel to a literal "&" (already
// followed by the entity's own name/digits and ";", so it needs no further
// escaping), then it normalizes any other bare "&" — e.g. one written as
// plain text, or exposed by raw-HTML restoration — to "&amp;".
type AmpSubstitutePostprocessor struct{}

func (AmpSubstitutePostprocessor) Run(text string) string {
	text = strings.ReplaceAll(text, ampSubstitute, "&")
	return ampRe.ReplaceAllStringFunc(text, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
}
