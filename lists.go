package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	uListRe  = regexp.MustCompile(`^[ ]{0,3}[*+-][ \t]+(.*)`)
	oListRe  = regexp.MustCompile(`^[ ]{0,3}(\d+)\.[ \t]+(.*)`)
	childIndentRe = regexp.MustCompile(`^[ ]{4}(.*)`)
)

// listProcessor holds the logic shared by OListProcessor and UListProcessor:
// split a block into items by marker lines, recursively parse each item's
// (dedented) body with a "list" parser State pushed for the duration (no
// block processor's Test consults it), and decide tight vs. loose
// rendering.
type listProcessor struct {
	parser      *BlockParser
	marker      *regexp.Regexp
	tag         string // "ol" or "ul"
	ignoreStart bool
}

func (p listProcessor) test(block string) bool {
	return p.marker.MatchString(firstLine(block))
}

// items splits block into one string per list item: the marker line plus
// any following indented continuation lines, each item's text dedented by
// 4 spaces.
func (p listProcessor) items(block string) (items []string, startValue string) {
	lines := strings.Split(block, "\n")
	var cur []string
	for _, l := range lines {
		if m := p.marker.FindStringSubmatch(l); m != nil {
			if cur != nil {
				items = append(items, strings.Join(cur, "\n"))
			}
			if startValue == "" && len(m) > 2 {
				startValue = m[1]
			}
			body := m[len(m)-1]
			cur = []string{body}
			continue
		}
		if m := childIndentRe.FindStringSubmatch(l); m != nil {
			cur = append(cur, m[1])
			continue
		}
		cur = append(cur, strings.TrimLeft(l, " \t"))
	}
	if cur != nil {
		items = append(items, strings.Join(cur, "\n"))
	}
	return items, startValue
}

func (p listProcessor) run(parent *Element, blocks *[]string) bool {
	block := (*blocks)[0]
	*blocks = (*blocks)[1:]

	items, start := p.items(block)

	var list *Element
	if n := len(parent.Children); n > 0 && parent.Children[n-1].Tag == p.tag {
		list = parent.Children[n-1]
	} else {
		list = SubElement(parent, p.tag)
		if p.tag == "ol" && !p.ignoreStart && start != "" && start != "1" {
			if v, err := strconv.Atoi(start); err == nil && v != 1 {
				list.Set("start", start)
			}
		}
	}

	loose := strings.Contains(block, "\n\n") || p.anyItemLoose(items)

	for _, item := range items {
		li := SubElement(list, "li")
		p.parser.State.Set("list")
		if loose {
			p.parser.ParseChunk(li, item)
		} else {
			p.parser.ParseChunk(li, item)
			p.looseToTight(li)
		}
		p.parser.State.Reset()
	}
	return true
}

func (p listProcessor) anyItemLoose(items []string) bool {
	for _, it := range items {
		if strings.Contains(strings.TrimRight(it, "\n"), "\n\n") {
			return true
		}
	}
	return false
}

// looseToTight collapses a list item that was parsed as a single <p> child
// (the common case for a tight list item with no internal blank lines)
// down to bare text directly on the <li>, matching the spec's tight-list
// rendering.
func (p listProcessor) looseToTight(li *Element) {
	if len(li.Children) == 1 && li.Children[0].Tag == "p" {
		only := li.Children[0]
		li.Text = only.Text
		li.Children = only.Children
		for _, c := range li.Children {
			c.parent = li
		}
		li.Tail = only.Tail
	}
}

// OListProcessor recognizes ordered ("1.", "2.", ...) list blocks.
type OListProcessor struct {
	LazyOL bool
	p      listProcessor
}

func NewOListProcessor(parser *BlockParser, lazyOL bool) *OListProcessor {
	return &OListProcessor{LazyOL: lazyOL, p: listProcessor{parser: parser, marker: oListRe, tag: "ol"}}
}

func (o *OListProcessor) Test(parent *Element, block string) bool { return o.p.test(block) }
func (o *OListProcessor) Run(parent *Element, blocks *[]string) bool {
	o.p.ignoreStart = !o.LazyOL
	return o.p.run(parent, blocks)
}

// UListProcessor recognizes unordered ("-", "*", "+") list blocks.
type UListProcessor struct {
	p listProcessor
}

func NewUListProcessor(parser *BlockParser) *UListProcessor {
	return &UListProcessor{p: listProcessor{parser: parser, marker: uListRe, tag: "ul"}}
}

func (u *UListProcessor) Test(parent *Element, block string) bool { return u.p.test(block) }
func (u *UListProcessor) Run(parent *Element, blocks *[]string) bool {
	return u.p.run(parent, blocks)
}
