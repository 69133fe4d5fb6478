package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// Priorities for the built-in block processors (§4.4, §9 Open Questions).
// Numeric values are otherwise unconstrained by the spec; what matters is
// the relative order they preserve: code/list/heading processors must all
// out-rank the paragraph fallback, and an extension's table processor is
// expected to register above PriorityParagraph but below the list/heading
// band so that a line starting with "|" inside a list item still parses as
// a list first.
const (
	PriorityEmptyBlock   = 100
	PriorityHashHeader    = 90
	PriorityCodeBlock    = 80
	PrioritySetext       = 75
	PriorityHR           = 70
	PriorityOList        = 60
	PriorityUList        = 60
	PriorityBlockQuote   = 50
	PriorityReference    = 40
	PriorityParagraph    = 10
)

func lstripNL(s string) string {
	return strings.TrimLeft(s, "\n")
}

// ----- Empty block -----

// EmptyBlockProcessor consumes a block that is empty or only whitespace
// (possible after splitting text containing 3+ consecutive blank lines),
// discarding it outright.
type EmptyBlockProcessor struct{}

func (EmptyBlockProcessor) Test(parent *Element, block string) bool {
	return strings.TrimSpace(block) == ""
}

func (EmptyBlockProcessor) Run(parent *Element, blocks *[]string) bool {
	block := (*blocks)[0]
	*blocks = (*blocks)[1:]
	if strings.Contains(block, "\n\n") && len(parent.Children) > 0 {
		last := parent.Children[len(parent.Children)-1]
		last.Tail.Body += "\n"
	}
	return true
}

// ----- Indented code -----

var codeIndentRe = regexp.MustCompile(`^(?: {4}|\t)`)

// CodeBlockProcessor recognizes indented code blocks: a block whose first
// line is indented by at least 4 spaces (or a literal tab). Consecutive
// indented blocks are merged into the same <pre><code> element, with the
// blank line that separated them restored between their contents.
type CodeBlockProcessor struct {
	TabLength int
}

func (p CodeBlockProcessor) Test(parent *Element, block string) bool {
	return codeIndentRe.MatchString(block)
}

func (p CodeBlockProcessor) Run(parent *Element, blocks *[]string) bool {
	block := (*blocks)[0]
	*blocks = (*blocks)[1:]

	var code *Element
	if n := len(parent.Children); n > 0 && parent.Children[n-1].Tag == "pre" {
		pre := parent.Children[n-1]
		if len(pre.Children) == 1 && pre.Children[0].Tag == "code" {
			code = pre.Children[0]
			code.Text.Body += "\n" + p.dedent(block) + "\n"
			return true
		}
	}

	pre := SubElement(parent, "pre")
	code = SubElement(pre, "code")
	code.Text = AtomicString(p.dedent(block) + "\n")
	return true
}

func (p CodeBlockProcessor) dedent(block string) string {
	lines := strings.Split(block, "\n")
	out := make([]string, len(lines))
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "\t"):
			out[i] = l[1:]
		case len(l) >= 4:
			out[i] = l[4:]
		default:
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return strings.Join(out, "\n")
}

// ----- Headings -----

var atxRe = regexp.MustCompile(`^ {0,3}(#{1,6})[ \t]*(.*?)[ \t]*#*[ \t]*$`)

// HashHeaderProcessor recognizes ATX-style headings ("# Title").
type HashHeaderProcessor struct{}

func (HashHeaderProcessor) Test(parent *Element, block string) bool {
	line := firstLine(block)
	return atxRe.MatchString(line)
}

func (HashHeaderProcessor) Run(parent *Element, blocks *[]string) bool {
	block := (*blocks)[0]
	lines := strings.SplitN(block, "\n", 2)
	m := atxRe.FindStringSubmatch(lines[0])
	level := len(m[1])
	h := SubElement(parent, "h"+strconv.Itoa(level))
	h.Text = PlainString(strings.TrimSpace(m[2]))

	if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		(*blocks)[0] = lines[1]
	} else {
		*blocks = (*blocks)[1:]
	}
	return true
}

var setextRe = regexp.MustCompile(`^ {0,3}(=+|-+)\s*$`)

// SetextHeaderProcessor recognizes Setext-style headings: a non-blank line
// followed by a line of only "=" (h1) or "-" (h2) characters.
type SetextHeaderProcessor struct{}

func (SetextHeaderProcessor) Test(parent *Element, block string) bool {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return false
	}
	if strings.TrimSpace(lines[0]) == "" {
		return false
	}
	return setextRe.MatchString(lines[1])
}

func (SetextHeaderProcessor) Run(parent *Element, blocks *[]string) bool {
	block := (*blocks)[0]
	lines := strings.Split(block, "\n")
	m := setextRe.FindStringSubmatch(lines[1])
	level := "1"
	if strings.HasPrefix(m[1], "-") {
		level = "2"
	}
	h := SubElement(parent, "h"+level)
	h.Text = PlainString(strings.TrimSpace(lines[0]))

	rest := strings.Join(lines[2:], "\n")
	if strings.TrimSpace(rest) != "" {
		(*blocks)[0] = rest
	} else {
		*blocks = (*blocks)[1:]
	}
	return true
}

// ----- Horizontal rule -----

var hrRe = regexp.MustCompile(`^ {0,3}((?:-[ \t]*){3,}|(?:_[ \t]*){3,}|(?:\*[ \t]*){3,})$`)

// HRProcessor recognizes a thematic break line of three or more matching
// "-", "_", or "*" characters, optionally space-separated.
type HRProcessor struct{}

func (HRProcessor) Test(parent *Element, block string) bool {
	return hrRe.MatchString(firstLine(block))
}

func (HRProcessor) Run(parent *Element, blocks *[]string) bool {
	block := (*blocks)[0]
	lines := strings.SplitN(block, "\n", 2)
	SubElement(parent, "hr")
	if len(lines) > 1 && strings.TrimSpace(lines[1]) != "" {
		(*blocks)[0] = lines[1]
	} else {
		*blocks = (*blocks)[1:]
	}
	return true
}

func firstLine(block string) string {
	if i := strings.IndexByte(block, '\n'); i >= 0 {
		return block[:i]
	}
	return block
}

// ----- Blockquote -----

var blockquoteRe = regexp.MustCompile(`(?m)^[ ]{0,3}>[ ]?`)
var blockquoteStartRe = regexp.MustCompile(`^[ ]{0,3}>`)

// BlockQuoteProcessor recognizes lines beginning with ">", strips the
// marker (and one following space) from every such line, and recursively
// parses the dedented body under a new <blockquote> element.
type BlockQuoteProcessor struct {
	Parser *BlockParser
}

func (p BlockQuoteProcessor) Test(parent *Element, block string) bool {
	return blockquoteStartRe.MatchString(block)
}

func (p BlockQuoteProcessor) Run(parent *Element, blocks *[]string) bool {
	block := (*blocks)[0]
	*blocks = (*blocks)[1:]

	lines := strings.Split(block, "\n")
	var quoted, rest []string
	inQuote := true
	for _, l := range lines {
		if inQuote && (blockquoteStartRe.MatchString(l) || strings.TrimSpace(l) == "") {
			quoted = append(quoted, l)
		} else {
			inQuote = false
			rest = append(rest, l)
		}
	}

	var bq *Element
	if n := len(parent.Children); n > 0 && parent.Children[n-1].Tag == "blockquote" {
		bq = parent.Children[n-1]
	} else {
		bq = SubElement(parent, "blockquote")
	}

	dedented := blockquoteRe.ReplaceAllString(strings.Join(quoted, "\n"), "")
	p.Parser.State.Set("blockquote")
	p.Parser.ParseChunk(bq, dedented)
	p.Parser.State.Reset()

	if leftover := strings.TrimRight(strings.Join(rest, "\n"), "\n"); strings.TrimSpace(leftover) != "" {
		*blocks = append([]string{leftover}, *blocks...)
	}
	return true
}

// ----- Paragraph (fallback) -----

// ParagraphProcessor wraps any remaining, non-empty block in a <p> element.
// Registered at the lowest priority, it accepts whatever no other
// processor claimed.
type ParagraphProcessor struct{}

func (ParagraphProcessor) Test(parent *Element, block string) bool {
	return true
}

func (ParagraphProcessor) Run(parent *Element, blocks *[]string) bool {
	block := strings.TrimSpace((*blocks)[0])
	*blocks = (*blocks)[1:]
	if block == "" {
		return true
	}
	p := SubElement(parent, "p")
	p.Text = PlainString(block)
	return true
}
