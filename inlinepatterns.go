package markdown

import (
	"regexp"
	"strings"
)

// Priorities for the built-in inline patterns (§4.5). Backtick code spans
// run first so that markup characters inside them are never seen by any
// other pattern; the escape pattern runs next so an escaped delimiter never
// triggers the pattern it would otherwise start.
const (
	PriorityBacktick      = 190
	PriorityEscape        = 180
	PriorityReferenceImage = 170
	PriorityReferenceLink = 165
	PriorityAutolink      = 160
	PriorityInlineImage   = 155
	PriorityInlineLink    = 150
	PriorityHTMLEntity    = 140
	PriorityStrongEm      = 130
	PriorityStrikethrough = 120
)

// ---- backtick code span ----

var backtickRe = regexp.MustCompile("(`+)(.+?)(`+)")

type BacktickInlineProcessor struct{ BaseInlineProcessor }

func NewBacktickInlineProcessor() *BacktickInlineProcessor {
	return &BacktickInlineProcessor{BaseInlineProcessor{Re: backtickRe}}
}

func (p *BacktickInlineProcessor) HandleMatch(data string, m []int) InlineMatch {
	openLen := m[3] - m[2]
	closeLen := m[7] - m[6]
	if openLen != closeLen {
		return InlineMatch{Decline: true}
	}
	body := data[m[4]:m[5]]
	body = strings.TrimSpace(body)
	e := NewElement("code")
	e.Text = AtomicString(body)
	return InlineMatch{Element: e}
}

// ---- escape ----

// DefaultEscapedChars is the default ESCAPED_CHARS set; the facade copies
// it per-instance so a caller may extend it without mutating a shared
// global (§4.8: "instance-scoped — never process-global").
var DefaultEscapedChars = []rune{'\\', '`', '*', '_', '{', '}', '[', ']', '(', ')', '>', '#', '+', '-', '.', '!'}

var escapeRe = regexp.MustCompile(`\\(.)`)

// EscapeInlineProcessor reads Chars live from the owning Markdown on every
// match rather than snapshotting it at construction time, so an extension
// that appends to Markdown.EscapedChars after New() (the tables extension
// adds "|", for instance) takes effect immediately.
type EscapeInlineProcessor struct {
	BaseInlineProcessor
	Chars *[]rune
}

func NewEscapeInlineProcessor(chars *[]rune) *EscapeInlineProcessor {
	return &EscapeInlineProcessor{BaseInlineProcessor: BaseInlineProcessor{Re: escapeRe}, Chars: chars}
}

func (p *EscapeInlineProcessor) HandleMatch(data string, m []int) InlineMatch {
	ch := []rune(data[m[2]:m[3]])[0]
	found := false
	for _, c := range *p.Chars {
		if c == ch {
			found = true
			break
		}
	}
	if !found {
		return InlineMatch{Decline: true}
	}
	// Emit the literal character as atomic text so no later pattern can
	// match it; it is not placed in the stash.
	return InlineMatch{IsText: true, Text: string(ch)}
}

// ---- autolink ----

var autolinkRe = regexp.MustCompile(`<((?:[Ff]|[Hh][Tt])[Tt][Pp][Ss]?://[^<>]*)>`)

type AutolinkInlineProcessor struct{ BaseInlineProcessor }

func NewAutolinkInlineProcessor() *AutolinkInlineProcessor {
	return &AutolinkInlineProcessor{BaseInlineProcessor{Re: autolinkRe, Excludes: linkAncestorExcludes}}
}

// linkAncestorExcludes is shared by every pattern that produces an <a>:
// per §4.5's ancestor-exclusion example, a link must never be recognized
// while already inside another link.
var linkAncestorExcludes = map[string]bool{"a": true}

func (p *AutolinkInlineProcessor) HandleMatch(data string, m []int) InlineMatch {
	url := data[m[2]:m[3]]
	a := NewElement("a")
	a.Set("href", url)
	a.Text = AtomicString(url)
	return InlineMatch{Element: a}
}

// ---- inline link / image ----

var inlineLinkRe = regexp.MustCompile(`\[((?:[^\[\]]|\[(?:[^\[\]]|\[[^\]]*\])*\])*)\]\(\s*<?([^\s)]*)>?(?:\s+"([^"]*)")?\s*\)`)
var inlineImageRe = regexp.MustCompile(`!\[((?:[^\[\]]|\[[^\]]*\])*)\]\(\s*<?([^\s)]*)>?(?:\s+"([^"]*)")?\s*\)`)

// InlineLinkProcessor recognizes "[text](url \"title\")". Link text is not
// expanded here: like every other element HandleMatch splices into the
// tree, its Text is revisited by the same InlineTreeprocessor walk once
// this element is attached, so a second, explicit expansion pass has
// nothing to do.
type InlineLinkProcessor struct {
	BaseInlineProcessor
}

func NewInlineLinkProcessor() *InlineLinkProcessor {
	return &InlineLinkProcessor{BaseInlineProcessor{Re: inlineLinkRe, Excludes: linkAncestorExcludes}}
}

func (p *InlineLinkProcessor) HandleMatch(data string, m []int) InlineMatch {
	text := data[m[2]:m[3]]
	url := data[m[4]:m[5]]
	a := NewElement("a")
	a.Set("href", url)
	if m[6] >= 0 {
		a.Set("title", data[m[6]:m[7]])
	}
	a.Text = PlainString(text)
	return InlineMatch{Element: a}
}

type InlineImageProcessor struct{ BaseInlineProcessor }

func NewInlineImageProcessor() *InlineImageProcessor {
	return &InlineImageProcessor{BaseInlineProcessor{Re: inlineImageRe}}
}

func (p *InlineImageProcessor) HandleMatch(data string, m []int) InlineMatch {
	alt := data[m[2]:m[3]]
	src := data[m[4]:m[5]]
	img := NewElement("img")
	img.Set("src", src)
	img.Set("alt", alt)
	if m[6] >= 0 {
		img.Set("title", data[m[6]:m[7]])
	}
	return InlineMatch{Element: img}
}

// ---- reference link / image ----

var refLinkRe = regexp.MustCompile(`\[((?:[^\[\]]|\[[^\]]*\])*)\](?:\[([^\]]*)\])?`)
var refImageRe = regexp.MustCompile(`!\[((?:[^\[\]]|\[[^\]]*\])*)\](?:\[([^\]]*)\])?`)

type ReferenceLinkProcessor struct {
	BaseInlineProcessor
	References map[string]linkRef
}

func NewReferenceLinkProcessor(refs map[string]linkRef) *ReferenceLinkProcessor {
	return &ReferenceLinkProcessor{BaseInlineProcessor{Re: refLinkRe, Excludes: linkAncestorExcludes}, refs}
}

func (p *ReferenceLinkProcessor) resolve(m []int, data string) (linkRef, string, bool) {
	text := data[m[2]:m[3]]
	label := text
	if m[4] >= 0 && strings.TrimSpace(data[m[4]:m[5]]) != "" {
		label = data[m[4]:m[5]]
	}
	ref, ok := p.References[NormalizeLabel(label)]
	return ref, text, ok
}

func (p *ReferenceLinkProcessor) HandleMatch(data string, m []int) InlineMatch {
	ref, text, ok := p.resolve(m, data)
	if !ok {
		return InlineMatch{Decline: true}
	}
	a := NewElement("a")
	a.Set("href", ref.URL)
	if ref.Title != "" {
		a.Set("title", ref.Title)
	}
	a.Text = PlainString(text)
	return InlineMatch{Element: a}
}

type ReferenceImageProcessor struct {
	BaseInlineProcessor
	References map[string]linkRef
}

func NewReferenceImageProcessor(refs map[string]linkRef) *ReferenceImageProcessor {
	return &ReferenceImageProcessor{BaseInlineProcessor{Re: refImageRe}, refs}
}

func (p *ReferenceImageProcessor) HandleMatch(data string, m []int) InlineMatch {
	alt := data[m[2]:m[3]]
	label := alt
	if m[4] >= 0 && strings.TrimSpace(data[m[4]:m[5]]) != "" {
		label = data[m[4]:m[5]]
	}
	ref, ok := p.References[NormalizeLabel(label)]
	if !ok {
		return InlineMatch{Decline: true}
	}
	img := NewElement("img")
	img.Set("src", ref.URL)
	img.Set("alt", alt)
	if ref.Title != "" {
		img.Set("title", ref.Title)
	}
	return InlineMatch{Element: img}
}

// ---- HTML entity ----

var htmlEntityRe = regexp.MustCompile(`&(#[0-9]+|#x[0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

type HTMLEntityProcessor struct{ BaseInlineProcessor }

func NewHTMLEntityProcessor() *HTMLEntityProcessor {
	return &HTMLEntityProcessor{BaseInlineProcessor{Re: htmlEntityRe}}
}

// HandleMatch protects the entity's leading "&" with ampSubstitute instead
// of emitting it literally: the serializer's escapeText would otherwise
// turn a genuine "&copy;" into "&amp;copy;", and AmpSubstitutePostprocessor
// can't tell "&amp;copy;" apart from an originally-escaped ampersand to
// undo it. ampSubstitute survives serialization untouched (it's not "&",
// "<", or ">") and is restored to a literal "&" by that postprocessor as
// the very last step, so the entity round-trips.
func (p *HTMLEntityProcessor) HandleMatch(data string, m []int) InlineMatch {
	return InlineMatch{IsText: true, Text: ampSubstitute + data[m[0]+1:m[1]]}
}

// ---- strong / em ----

// strongEmAsteriskRe/strongEmUnderscoreRe match the combined "***x***" /
// "___x___" forms, tried first so the tie-break
// rule in §4.5 ("longer runs first") falls out of pattern/registry order
// rather than needing special-cased length comparison.
var strongEmAsteriskRe = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
var strongAsteriskRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
var emAsteriskRe = regexp.MustCompile(`\*(.+?)\*`)
var strongEmUnderscoreRe = regexp.MustCompile(`___(.+?)___`)
var strongUnderscoreRe = regexp.MustCompile(`__(.+?)__`)
var emUnderscoreRe = regexp.MustCompile(`\b_(.+?)_\b`)

// StrongEmCombinedProcessor recognizes "***x***" / "___x___" and produces
// nested <strong><em>x</em></strong>; registered at PriorityStrongEm+2,
// above the plain strong (+1) and em patterns, so it wins a match at the
// same start (§4.5: "longer runs first").
type StrongEmCombinedProcessor struct{ BaseInlineProcessor }

func NewStrongEmCombinedProcessor(re *regexp.Regexp) *StrongEmCombinedProcessor {
	return &StrongEmCombinedProcessor{BaseInlineProcessor{Re: re}}
}

func (p *StrongEmCombinedProcessor) HandleMatch(data string, m []int) InlineMatch {
	strong := NewElement("strong")
	em := SubElement(strong, "em")
	em.Text = PlainString(data[m[2]:m[3]])
	return InlineMatch{Element: strong}
}

// SimpleEmphasisProcessor recognizes a single delimiter pair and wraps the
// captured text in Tag ("strong" or "em").
type SimpleEmphasisProcessor struct {
	BaseInlineProcessor
	Tag string
}

func NewStrongProcessor(re *regexp.Regexp) *SimpleEmphasisProcessor {
	return &SimpleEmphasisProcessor{BaseInlineProcessor{Re: re}, "strong"}
}

func NewEmProcessor(re *regexp.Regexp) *SimpleEmphasisProcessor {
	return &SimpleEmphasisProcessor{BaseInlineProcessor{Re: re}, "em"}
}

func (p *SimpleEmphasisProcessor) HandleMatch(data string, m []int) InlineMatch {
	e := NewElement(p.Tag)
	e.Text = PlainString(data[m[2]:m[3]])
	return InlineMatch{Element: e}
}

// ---- strikethrough ----

var strikethroughRe = regexp.MustCompile(`~~(.+?)~~`)

type StrikethroughInlineProcessor struct{ BaseInlineProcessor }

func NewStrikethroughInlineProcessor() *StrikethroughInlineProcessor {
	return &StrikethroughInlineProcessor{BaseInlineProcessor{Re: strikethroughRe}}
}

func (p *StrikethroughInlineProcessor) HandleMatch(data string, m []int) InlineMatch {
	del := NewElement("del")
	del.Text = PlainString(data[m[2]:m[3]])
	return InlineMatch{Element: del}
}
