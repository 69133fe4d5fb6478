// Package tables implements the pipe-table extension: a BlockProcessor
// registered above the paragraph fallback that recognizes a header row, a
// "---|---" separator row, and zero or more body rows, and renders them as
// a <table> with <thead>/<tbody>.
package tables

import (
	"regexp"
	"strings"

	md "github.com/htmlmd/markdown"
)

// TablePriority sits below the blockquote/list/heading band (so a
// "|"-prefixed line inside a list item or blockquote is claimed by those
// processors first) and above the reference-definition and paragraph
// fallback priorities.
const TablePriority = 45

type alignment int

const (
	alignNone alignment = iota
	alignLeft
	alignRight
	alignCenter
)

var endBorderRe = regexp.MustCompile(`(?:[^\\]|^)(?:\\\\)*\|$`)
var codePipeRe = regexp.MustCompile("(\\\\\\\\)|(\\\\`+)|(`+)|(\\\\\\|)|(\\|)")

// Processor recognizes and renders pipe tables. UseAlignAttribute selects
// the legacy `align="..."` attribute instead of an inline `style`.
type Processor struct {
	UseAlignAttribute bool

	border    bool
	separator []string
}

// New returns a Processor with the default style-attribute alignment.
func New() *Processor {
	return &Processor{}
}

func (p *Processor) Test(parent *md.Element, block string) bool {
	rows := splitLines(block)
	if len(rows) < 2 {
		return false
	}

	header0 := rows[0]
	p.border = strings.HasPrefix(header0, "|")
	hasEndBorder := endBorderRe.MatchString(header0)
	row := p.splitRow(header0)
	row0Len := len(row)
	isTable := row0Len > 1

	if !isTable && row0Len == 1 && (p.border || hasEndBorder) {
		for i := 1; i < len(rows); i++ {
			isTable = strings.HasPrefix(rows[i], "|") || endBorderRe.MatchString(rows[i])
			if !isTable {
				break
			}
		}
	}

	if !isTable {
		return false
	}

	sep := p.splitRow(rows[1])
	if len(sep) != row0Len {
		return false
	}
	for _, cell := range sep {
		if strings.Trim(cell, "|:- ") != "" {
			return false
		}
	}
	p.separator = sep
	return true
}

func (p *Processor) Run(parent *md.Element, blocks *[]string) bool {
	block := (*blocks)[0]
	*blocks = (*blocks)[1:]
	lines := splitLines(block)

	align := make([]alignment, len(p.separator))
	for i, c := range p.separator {
		c = strings.TrimSpace(c)
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		switch {
		case left && right:
			align[i] = alignCenter
		case left:
			align[i] = alignLeft
		case right:
			align[i] = alignRight
		default:
			align[i] = alignNone
		}
	}

	table := md.SubElement(parent, "table")
	thead := md.SubElement(table, "thead")
	p.buildRow(lines[0], thead, align)

	tbody := md.SubElement(table, "tbody")
	if len(lines) < 3 {
		p.buildEmptyRow(tbody, align)
	} else {
		for _, row := range lines[2:] {
			p.buildRow(row, tbody, align)
		}
	}
	return true
}

func (p *Processor) buildEmptyRow(parent *md.Element, align []alignment) {
	tr := md.SubElement(parent, "tr")
	for range align {
		md.SubElement(tr, "td")
	}
}

func (p *Processor) buildRow(row string, parent *md.Element, align []alignment) {
	tr := md.SubElement(parent, "tr")
	tag := "td"
	if parent.Tag == "thead" {
		tag = "th"
	}
	cells := p.splitRow(row)
	for i, a := range align {
		c := md.SubElement(tr, tag)
		if i < len(cells) {
			c.Text = md.PlainString(strings.TrimSpace(cells[i]))
		}
		switch a {
		case alignLeft:
			p.setAlign(c, "left")
		case alignRight:
			p.setAlign(c, "right")
		case alignCenter:
			p.setAlign(c, "center")
		}
	}
}

func (p *Processor) setAlign(c *md.Element, a string) {
	if p.UseAlignAttribute {
		c.Set("align", a)
		return
	}
	c.Set("style", "text-align: "+a+";")
}

// splitRow splits row into cells, first trimming a leading/trailing border
// pipe, then splitting on pipes that do not fall inside a backtick-delimited
// code span.
func (p *Processor) splitRow(row string) []string {
	if p.border {
		row = strings.TrimPrefix(row, "|")
		row = endBorderRe.ReplaceAllStringFunc(row, func(m string) string {
			return strings.TrimSuffix(m, "|")
		})
	}
	return splitOutsideCode(row)
}

// splitOutsideCode walks row looking for literal "`"-delimited spans (of
// matching open/close run length) and bare "|" characters, discarding
// pipes that fall inside such a span — mirroring the reference
// implementation's tic-pairing algorithm, simplified to Go's lack of
// regexp backreferences.
func splitOutsideCode(row string) []string {
	type ticRun struct{ start, end, tickLen int }
	var ticks []ticRun
	var pipes []int

	for _, m := range codePipeRe.FindAllStringSubmatchIndex(row, -1) {
		switch {
		case m[4] >= 0: // escaped backtick run: (\`+)
			ticks = append(ticks, ticRun{start: m[4], end: m[5], tickLen: (m[5] - m[4]) - 1})
		case m[6] >= 0: // bare backtick run: (`+)
			ticks = append(ticks, ticRun{start: m[6], end: m[7], tickLen: m[7] - m[6]})
		case m[10] >= 0: // bare pipe: (\|)
			pipes = append(pipes, m[10])
		}
	}

	var regions [][2]int
	for i := 0; i < len(ticks); i++ {
		if ticks[i].tickLen <= 0 {
			continue
		}
		for j := i + 1; j < len(ticks); j++ {
			if ticks[j].tickLen == ticks[i].tickLen {
				regions = append(regions, [2]int{ticks[i].start, ticks[j].end - 1})
				i = j
				break
			}
		}
	}

	var good []int
	for _, pipe := range pipes {
		inRegion := false
		for _, r := range regions {
			if pipe >= r[0] && pipe <= r[1] {
				inRegion = true
				break
			}
			if pipe < r[0] {
				break
			}
		}
		if !inRegion {
			good = append(good, pipe)
		}
	}

	var cells []string
	pos := 0
	for _, pipe := range good {
		cells = append(cells, row[pos:pipe])
		pos = pipe + 1
	}
	cells = append(cells, row[pos:])
	return cells
}

func splitLines(block string) []string {
	lines := strings.Split(block, "\n")
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Trim(l, " ")
	}
	return out
}

// Extension wires a table Processor into a Markdown instance's
// BlockProcessors registry and adds "|" to its escaped-character set, so
// "\|" inside a cell is treated as a literal pipe rather than a column
// delimiter.
type Extension struct {
	UseAlignAttribute bool `yaml:"use_align_attribute" json:"use_align_attribute"`
}

func (e Extension) ExtendMarkdown(m *md.Markdown) {
	hasPipe := false
	for _, c := range m.EscapedChars {
		if c == '|' {
			hasPipe = true
			break
		}
	}
	if !hasPipe {
		m.EscapedChars = append(m.EscapedChars, '|')
	}
	m.BlockProcessors.Register(&Processor{UseAlignAttribute: e.UseAlignAttribute}, "table", TablePriority)
}
