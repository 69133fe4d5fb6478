package htmltok

import "strings"

type mode int

const (
	modeData mode = iota
	modeRawText
)

// Tokenizer scans HTML-like markup out of a byte slice one Token at a time.
// It never returns an error: malformed input (an unterminated tag or
// declaration, an entity reference missing its terminating ';') is
// always recovered by falling back to emitting the offending bytes as Text,
// per the "never errors, never aborts" policy in the spec's error-handling
// design.
type Tokenizer struct {
	src []byte
	pos int

	mode      mode
	rawEndTag string // lower-cased tag name to watch for while in modeRawText
}

// New returns a Tokenizer positioned at the start of src. src is retained,
// not copied.
func New(src []byte) *Tokenizer {
	return &Tokenizer{src: src}
}

// Pos returns the tokenizer's current byte offset.
func (t *Tokenizer) Pos() int { return t.pos }

// EnterRawText switches the tokenizer into raw-text mode: everything up to
// (but not including) the next matching "</tagName" end tag is returned as
// a single Text token, mirroring how <script> and <style> content is never
// parsed as markup. Callers that recognize such a start tag call this
// immediately afterward.
func (t *Tokenizer) EnterRawText(tagName string) {
	t.mode = modeRawText
	t.rawEndTag = strings.ToLower(tagName)
}

// ExitRawText cancels raw-text mode before the matching end tag is seen.
// The extractor calls this when it determines — by peeking ahead — that a
// <script> or <style> start tag was actually encountered inside a Markdown
// code span and should not suppress parsing of its contents.
func (t *Tokenizer) ExitRawText() {
	t.mode = modeData
}

// InRawText reports whether the tokenizer is currently in raw-text mode.
func (t *Tokenizer) InRawText() bool {
	return t.mode == modeRawText
}

// Next returns the next Token and advances past it. Once the input is
// exhausted, Next repeatedly returns an EOF token.
func (t *Tokenizer) Next() Token {
	if t.pos >= len(t.src) {
		return Token{Type: EOF, Start: t.pos, End: t.pos}
	}
	if t.mode == modeRawText {
		return t.lexRawText()
	}
	switch t.src[t.pos] {
	case '<':
		return t.lexLT()
	case '&':
		return t.lexAmp()
	default:
		return t.lexText()
	}
}

// lexText consumes a run of plain character data up to the next '<' or '&'.
func (t *Tokenizer) lexText() Token {
	start := t.pos
	for t.pos < len(t.src) && t.src[t.pos] != '<' && t.src[t.pos] != '&' {
		t.pos++
	}
	raw := string(t.src[start:t.pos])
	return Token{Type: Text, Data: raw, Raw: raw, Start: start, End: t.pos}
}

// lexRawText consumes everything up to (not including) the next
// "</rawEndTag" (case-insensitive), or to EOF if no such end tag appears.
func (t *Tokenizer) lexRawText() Token {
	start := t.pos
	lower := strings.ToLower(string(t.src[t.pos:]))
	needle := "</" + t.rawEndTag
	if idx := indexTagClose(lower, needle); idx >= 0 {
		if idx == 0 {
			// At the matching end tag: leave raw-text mode and lex it.
			t.mode = modeData
			return t.lexLT()
		}
		t.pos = start + idx
	} else {
		t.pos = len(t.src)
	}
	raw := string(t.src[start:t.pos])
	return Token{Type: Text, Data: raw, Raw: raw, Start: start, End: t.pos}
}

// indexTagClose finds needle (an end-tag opener like "</script") in s such
// that it is followed only by whitespace and then '>', i.e. not a
// substring match against a longer tag name.
func indexTagClose(s, needle string) int {
	from := 0
	for {
		i := strings.Index(s[from:], needle)
		if i < 0 {
			return -1
		}
		abs := from + i
		j := abs + len(needle)
		for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
			j++
		}
		if j < len(s) && s[j] == '>' {
			return abs
		}
		from = abs + 1
	}
}

// lexLT dispatches on the character(s) following '<'.
func (t *Tokenizer) lexLT() Token {
	start := t.pos
	if start+1 >= len(t.src) {
		t.pos++
		return Token{Type: Text, Data: "<", Raw: "<", Start: start, End: t.pos}
	}

	switch {
	case hasPrefixAt(t.src, start, "<!--"):
		return t.lexComment(start)
	case hasPrefixAt(t.src, start, "<![CDATA["):
		return t.lexCDATA(start)
	case t.src[start+1] == '!':
		return t.lexDeclaration(start)
	case t.src[start+1] == '?':
		return t.lexPI(start)
	case t.src[start+1] == '/':
		return t.lexEndTag(start)
	case isNameStart(t.src[start+1]):
		return t.lexStartTag(start)
	default:
		t.pos++
		return Token{Type: Text, Data: "<", Raw: "<", Start: start, End: t.pos}
	}
}

func (t *Tokenizer) lexComment(start int) Token {
	end := indexFrom(t.src, start+4, "-->")
	if end < 0 {
		t.pos = start + 1
		return Token{Type: Text, Data: "<", Raw: "<", Start: start, End: t.pos}
	}
	t.pos = end + 3
	body := string(t.src[start+4 : end])
	raw := string(t.src[start:t.pos])
	return Token{Type: Comment, Data: body, Raw: raw, Start: start, End: t.pos}
}

func (t *Tokenizer) lexCDATA(start int) Token {
	end := indexFrom(t.src, start+9, "]]>")
	if end < 0 {
		t.pos = start + 1
		return Token{Type: Text, Data: "<", Raw: "<", Start: start, End: t.pos}
	}
	t.pos = end + 3
	body := string(t.src[start+9 : end])
	raw := string(t.src[start:t.pos])
	return Token{Type: CDATA, Data: body, Raw: raw, Start: start, End: t.pos}
}

// lexPI requires the "?>" terminator exactly, never a bare '>'.
func (t *Tokenizer) lexPI(start int) Token {
	end := indexFrom(t.src, start+2, "?>")
	if end < 0 {
		t.pos = start + 1
		return Token{Type: Text, Data: "<", Raw: "<", Start: start, End: t.pos}
	}
	t.pos = end + 2
	body := string(t.src[start+2 : end])
	name, rest := splitName(body)
	rest = strings.TrimLeft(rest, " \t\r\n")
	raw := string(t.src[start:t.pos])
	return Token{Type: PI, Name: name, Data: rest, Raw: raw, Start: start, End: t.pos}
}

// lexDeclaration covers <!DOCTYPE ...>, <!ENTITY ...>, and any other
// "<!KEYWORD" form. Any terminated form is returned as a Declaration
// whatever its keyword; unknown keywords are not told apart. An
// unterminated declaration falls back to a single literal '<' token so the
// caller resumes scanning normally.
func (t *Tokenizer) lexDeclaration(start int) Token {
	end := indexFrom(t.src, start+2, ">")
	if end < 0 {
		t.pos = start + 1
		return Token{Type: Text, Data: "<", Raw: "<", Start: start, End: t.pos}
	}
	t.pos = end + 1
	body := string(t.src[start+2 : end])
	name, rest := splitName(body)
	raw := string(t.src[start:t.pos])
	return Token{Type: Declaration, Name: name, Data: strings.TrimSpace(rest), Raw: raw, Start: start, End: t.pos}
}

func (t *Tokenizer) lexEndTag(start int) Token {
	end := indexFrom(t.src, start+2, ">")
	if end < 0 {
		t.pos = start + 1
		return Token{Type: Text, Data: "<", Raw: "<", Start: start, End: t.pos}
	}
	t.pos = end + 1
	name, _ := splitName(string(t.src[start+2 : end]))
	raw := string(t.src[start:t.pos])
	return Token{Type: EndTag, Name: name, Raw: raw, Start: start, End: t.pos}
}

func (t *Tokenizer) lexStartTag(start int) Token {
	i := start + 1
	nameStart := i
	for i < len(t.src) && isNameChar(t.src[i]) {
		i++
	}
	name := string(t.src[nameStart:i])

	attrs, closeIdx, selfClose, ok := parseAttrs(t.src, i)
	if !ok {
		t.pos = start + 1
		return Token{Type: Text, Data: "<", Raw: "<", Start: start, End: t.pos}
	}
	t.pos = closeIdx + 1
	raw := string(t.src[start:t.pos])
	typ := StartTag
	if selfClose {
		typ = SelfClosing
	}
	return Token{Type: typ, Name: name, Attr: attrs, Raw: raw, Start: start, End: t.pos}
}

// lexAmp consumes a character reference starting at '&' if one is properly
// terminated by ';'; otherwise it emits a single literal '&' as Text,
// rather than ever buffering a partial entity.
func (t *Tokenizer) lexAmp() Token {
	start := t.pos
	end := indexFrom(t.src, start+1, ";")
	if end < 0 {
		t.pos++
		return Token{Type: Text, Data: "&", Raw: "&", Start: start, End: t.pos}
	}
	body := t.src[start+1 : end]
	if !isValidRefBody(body) {
		t.pos++
		return Token{Type: Text, Data: "&", Raw: "&", Start: start, End: t.pos}
	}
	t.pos = end + 1
	raw := string(t.src[start:t.pos])
	return Token{Type: CharRef, Data: raw, Raw: raw, Start: start, End: t.pos}
}

func isValidRefBody(body []byte) bool {
	if len(body) == 0 || len(body) > 32 {
		return false
	}
	if body[0] == '#' {
		rest := body[1:]
		if len(rest) == 0 {
			return false
		}
		if rest[0] == 'x' || rest[0] == 'X' {
			return len(rest) > 1 && isAllHex(rest[1:])
		}
		return isAllDigits(rest)
	}
	return isAllAlnum(body)
}

func isAllDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isAllHex(b []byte) bool {
	for _, c := range b {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

func isAllAlnum(b []byte) bool {
	for _, c := range b {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

func isNameStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameChar(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9') || b == '-' || b == ':' || b == '_' || b == '.'
}

func hasPrefixAt(src []byte, at int, prefix string) bool {
	if at+len(prefix) > len(src) {
		return false
	}
	return string(src[at:at+len(prefix)]) == prefix
}

func indexFrom(src []byte, from int, sub string) int {
	if from > len(src) {
		return -1
	}
	i := strings.Index(string(src[from:]), sub)
	if i < 0 {
		return -1
	}
	return from + i
}

func splitName(s string) (name, rest string) {
	i := 0
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// parseAttrs scans attributes starting at i (just past the tag name) up to
// the tag's closing '>'. It returns the attributes, the index of '>', and
// whether the tag was self-closing ("/>"). ok is false if '>' is never
// found, meaning the whole tag is unterminated.
func parseAttrs(src []byte, i int) (attrs []Attr, closeIdx int, selfClose bool, ok bool) {
	for i < len(src) {
		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i >= len(src) {
			return nil, 0, false, false
		}
		if src[i] == '>' {
			return attrs, i, false, true
		}
		if src[i] == '/' && i+1 < len(src) && src[i+1] == '>' {
			return attrs, i + 1, true, true
		}
		if src[i] == '/' {
			i++
			continue
		}

		nameStart := i
		for i < len(src) && !isSpace(src[i]) && src[i] != '=' && src[i] != '>' && src[i] != '/' {
			i++
		}
		if i == nameStart {
			// Stray character (e.g. a bare quote); skip it defensively.
			i++
			continue
		}
		name := string(src[nameStart:i])

		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i < len(src) && src[i] == '=' {
			i++
			for i < len(src) && isSpace(src[i]) {
				i++
			}
			if i < len(src) && (src[i] == '"' || src[i] == '\'') {
				quote := src[i]
				i++
				valStart := i
				for i < len(src) && src[i] != quote {
					i++
				}
				if i >= len(src) {
					return nil, 0, false, false
				}
				attrs = append(attrs, Attr{Key: name, Val: string(src[valStart:i])})
				i++
			} else {
				valStart := i
				for i < len(src) && !isSpace(src[i]) && src[i] != '>' {
					i++
				}
				attrs = append(attrs, Attr{Key: name, Val: string(src[valStart:i])})
			}
		} else {
			attrs = append(attrs, Attr{Key: name, Val: ""})
		}
	}
	return nil, 0, false, false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
