package markdown

import (
	"strings"

	"github.com/htmlmd/markdown/internal/htmltok"
)

// blockLevelTags classifies tags as block-level for the raw-HTML extractor;
// everything else (span, em, a, code, ...) is treated as inline and never
// opens a raw region on its own.
var blockLevelTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"details": true, "dialog": true, "dd": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hgroup": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "ul": true,
	"thead": true, "tbody": true, "tfoot": true, "tr": true, "td": true,
	"th": true, "script": true, "style": true, "iframe": true, "math": true,
	"ins": true, "del": true, "noscript": true,
}

// cdataContentTags never have their content parsed as markup; the
// extractor asks the tokenizer to treat everything up to the matching end
// tag as opaque text.
var cdataContentTags = map[string]bool{"script": true, "style": true}

// RawHTMLExtractor is the preprocessor described in §4.3: it tokenizes the
// document text, stashes raw HTML block regions (and standalone comments,
// PIs, declarations, and CDATA sections) into an HtmlStash, and leaves
// placeholder tokens in their place. A character reference is stashed only
// as part of a raw region or its tail; elsewhere, even at the start of a
// line, it stays in the text for the inline entity pattern.
type RawHTMLExtractor struct {
	Stash *HtmlStash

	// EmptyTags is the configurable set of tags always treated as
	// self-closing (default {"hr"}).
	EmptyTags map[string]bool
}

// NewRawHTMLExtractor returns an extractor backed by stash with the default
// EmptyTags set.
func NewRawHTMLExtractor(stash *HtmlStash) *RawHTMLExtractor {
	return &RawHTMLExtractor{
		Stash:     stash,
		EmptyTags: map[string]bool{"hr": true},
	}
}

// Run implements Preprocessor.
func (p *RawHTMLExtractor) Run(lines []string) []string {
	text := strings.Join(lines, "\n")
	out := p.extract(text)
	return strings.Split(out, "\n")
}

// extractorState carries the mutable state of one extraction pass — the
// Go analog of the Python HTMLExtractor instance's accumulated fields.
type extractorState struct {
	src       string
	stash     *HtmlStash
	emptyTags map[string]bool

	cleandoc strings.Builder
	cache    strings.Builder
	inraw    bool
	intail   bool
	stack    []string
}

func (p *RawHTMLExtractor) extract(text string) string {
	st := &extractorState{src: text, stash: p.Stash, emptyTags: p.EmptyTags}
	tz := htmltok.New([]byte(text))

	for {
		tok := tz.Next()
		if tok.Type == htmltok.EOF {
			break
		}
		switch tok.Type {
		case htmltok.StartTag:
			st.handleStartTag(tz, tok)
		case htmltok.SelfClosing:
			st.handleStartEndTag(tok)
		case htmltok.EndTag:
			st.handleEndTag(tok)
		case htmltok.Comment, htmltok.PI, htmltok.Declaration, htmltok.CDATA:
			st.handleEmptyTag(tok.Raw, true, tok.Start, tok.End)
		case htmltok.CharRef:
			st.handleEmptyTag(tok.Raw, false, tok.Start, tok.End)
		case htmltok.Text:
			st.handleData(tok.Data)
		}
	}

	if st.cache.Len() > 0 {
		st.cleandoc.WriteString(st.stash.Store(st.cache.String()))
		st.cache.Reset()
	}

	return st.cleandoc.String()
}

func (s *extractorState) atLineStart(pos int) bool {
	lineStart := strings.LastIndexByte(s.src[:pos], '\n') + 1
	offset := pos - lineStart
	if offset == 0 {
		return true
	}
	if offset > 3 {
		return false
	}
	return strings.TrimSpace(s.src[lineStart:pos]) == ""
}

// blankLineAfter reports whether two (optionally space-only) lines of
// blank content immediately follow pos, matching the Python
// `^([ ]*\n){2}` check.
func (s *extractorState) blankLineAfter(pos int) bool {
	rest := s.src[pos:]
	i := 0
	for count := 0; count < 2; count++ {
		j := i
		for j < len(rest) && rest[j] == ' ' {
			j++
		}
		if j >= len(rest) || rest[j] != '\n' {
			return false
		}
		i = j + 1
	}
	return true
}

func (s *extractorState) handleStartTag(tz *htmltok.Tokenizer, tok htmltok.Token) {
	tag := strings.ToLower(tok.Name)
	if s.emptyTags[tag] {
		s.handleEmptyTag(tok.Raw, true, tok.Start, tok.End)
		return
	}

	if blockLevelTags[tag] && (s.intail || (s.atLineStart(tok.Start) && !s.inraw)) {
		s.inraw = true
		s.cleandoc.WriteString("\n")
	}

	if s.inraw {
		s.stack = append(s.stack, tag)
		s.cache.WriteString(tok.Raw)
		if cdataContentTags[tag] {
			tz.EnterRawText(tag)
		}
		return
	}

	s.cleandoc.WriteString(tok.Raw)
	if cdataContentTags[tag] {
		tz.EnterRawText(tag)
		if s.inCodeSpan(tok.Start) {
			// A <script>/<style> tag inside an inline code span is just
			// text, not a real raw-text element; don't suppress parsing
			// of its "content".
			tz.ExitRawText()
		}
	}
}

// inCodeSpan peeks backward to the start of the current line and counts
// backtick characters; an odd count means pos sits inside an open inline
// code span.
func (s *extractorState) inCodeSpan(pos int) bool {
	lineStart := strings.LastIndexByte(s.src[:pos], '\n') + 1
	return strings.Count(s.src[lineStart:pos], "`")%2 == 1
}

func (s *extractorState) handleStartEndTag(tok htmltok.Token) {
	tag := strings.ToLower(tok.Name)
	s.handleEmptyTag(tok.Raw, blockLevelTags[tag], tok.Start, tok.End)
}

func (s *extractorState) handleEndTag(tok htmltok.Token) {
	tag := strings.ToLower(tok.Name)
	if !s.inraw {
		s.cleandoc.WriteString(tok.Raw)
		return
	}

	s.cache.WriteString(tok.Raw)
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		if top == tag {
			break
		}
	}
	if len(s.stack) != 0 {
		return
	}

	if s.blankLineAfter(tok.End) {
		s.cache.WriteString("\n")
	} else {
		s.intail = true
	}
	s.inraw = false
	s.cleandoc.WriteString(s.stash.Store(s.cache.String()))
	s.cleandoc.WriteString("\n\n")
	s.cache.Reset()
}

func (s *extractorState) handleData(data string) {
	if s.intail && strings.Contains(data, "\n") {
		s.intail = false
	}
	if s.inraw {
		s.cache.WriteString(data)
	} else {
		s.cleandoc.WriteString(data)
	}
}

func (s *extractorState) handleEmptyTag(data string, isBlock bool, start, end int) {
	if s.inraw || s.intail {
		s.cache.WriteString(data)
		return
	}
	if !(s.atLineStart(start) && isBlock) {
		s.cleandoc.WriteString(data)
		return
	}

	if s.blankLineAfter(end) {
		data += "\n"
	} else {
		s.intail = true
	}

	item := s.cleandoc.String()
	if !strings.HasSuffix(item, "\n\n") && strings.HasSuffix(item, "\n") {
		s.cleandoc.WriteString("\n")
	}
	s.cleandoc.WriteString(s.stash.Store(data))
	s.cleandoc.WriteString("\n\n")
}
