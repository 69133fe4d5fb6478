package markdown

import "strings"

// Treeprocessor rewrites the document tree in place, optionally replacing
// the root entirely (§4.6). Returning nil leaves the existing root as is.
type Treeprocessor interface {
	Run(root *Element) *Element
}

// InlineTreeprocessor is the highest-priority tree processor: it walks
// every element's text and tail, expanding them through the InlineEngine,
// and splices the resulting runs into the tree as new children or adjacent
// text/tail.
type InlineTreeprocessor struct {
	Engine *InlineEngine
}

func NewInlineTreeprocessor(engine *InlineEngine) *InlineTreeprocessor {
	return &InlineTreeprocessor{Engine: engine}
}

func (tp *InlineTreeprocessor) Run(root *Element) *Element {
	tp.walk(root)
	return nil
}

func (tp *InlineTreeprocessor) walk(e *Element) {
	if !e.Text.Atomic && e.Text.Body != "" {
		tp.expandText(e)
	}
	// Copy the child slice before recursing: expandText may append new
	// children ahead of the existing ones, and walking those is correct,
	// but a processor must never mutate an ancestor's list while that
	// ancestor is itself being walked higher up the call stack.
	children := append([]*Element(nil), e.Children...)
	for _, c := range children {
		tp.walk(c)
	}
	if !e.Tail.Atomic && e.Tail.Body != "" {
		tp.expandTail(e)
	}
}

// ancestorSet returns the tags that "enclose" e's own text: e's tag itself
// (the text sits directly inside it) plus every ancestor above it. Used for
// both e.Text (enclosed by e) and, via the caller passing e's parent, for
// e.Tail (enclosed by the parent, not by e).
func (tp *InlineTreeprocessor) ancestorSet(e *Element) map[string]bool {
	set := map[string]bool{}
	if e.Tag != GroupTag {
		set[e.Tag] = true
	}
	for _, t := range e.AncestorTags() {
		set[t] = true
	}
	return set
}

// expandText replaces e.Text with the first literal run produced by the
// engine (if any) and inserts any spliced elements as new leading children,
// pushing e's existing children after them. Any trailing literal run
// becomes the tail of the last spliced element, or remains e.Text if no
// element was spliced at all.
func (tp *InlineTreeprocessor) expandText(e *Element) {
	runs := tp.Engine.Apply(e.Text.Body, tp.ancestorSet(e))
	newChildren, leading, trailing := tp.splice(runs)

	e.Text = leading
	if len(newChildren) == 0 {
		return
	}
	for _, c := range newChildren {
		c.parent = e
	}
	last := newChildren[len(newChildren)-1]
	last.Tail = mergeText(last.Tail, trailing)
	e.Children = append(newChildren, e.Children...)
}

// expandTail replaces e.Tail with the leading literal run and inserts any
// spliced elements as new siblings immediately after e in its parent.
func (tp *InlineTreeprocessor) expandTail(e *Element) {
	parent := e.Parent()
	if parent == nil {
		return
	}
	runs := tp.Engine.Apply(e.Tail.Body, tp.ancestorSet(parent))
	newChildren, leading, trailing := tp.splice(runs)

	e.Tail = leading
	if len(newChildren) == 0 {
		return
	}
	for _, c := range newChildren {
		c.parent = parent
	}
	last := newChildren[len(newChildren)-1]
	last.Tail = mergeText(last.Tail, trailing)

	idx := -1
	for i, c := range parent.Children {
		if c == e {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	out := make([]*Element, 0, len(parent.Children)+len(newChildren))
	out = append(out, parent.Children[:idx+1]...)
	out = append(out, newChildren...)
	out = append(out, parent.Children[idx+1:]...)
	parent.Children = out
}

// textAccum accumulates a run of consecutive literal inlineRuns, tracking
// whether every contributing run was atomic so the combined stretch keeps
// the flag when that holds (losing it is always safe — it just means a
// second pass re-scans already-settled text — but an entity or code span
// with no neighboring spliced element needs the flag kept, or Atomicity
// (§8) doesn't actually hold for it).
type textAccum struct {
	b      strings.Builder
	atomic bool
	any    bool
}

func (t *textAccum) write(r inlineRun) {
	if r.text == "" {
		return
	}
	if !t.any {
		t.atomic = r.atomic
		t.any = true
	} else if !r.atomic {
		t.atomic = false
	}
	t.b.WriteString(r.text)
}

func (t *textAccum) value() Text {
	return Text{Body: t.b.String(), Atomic: t.any && t.atomic}
}

// mergeText concatenates two Text values in order, atomic only if both
// non-empty sides are; an empty side never downgrades the other's flag.
func mergeText(a, b Text) Text {
	if a.Body == "" {
		return b
	}
	if b.Body == "" {
		return a
	}
	return Text{Body: a.Body + b.Body, Atomic: a.Atomic && b.Atomic}
}

// splice groups a flat run list into: text immediately before the first
// spliced element (leading), the elements themselves (each run's trailing
// text folded into the following element's tail, or kept pending if no
// further element follows — returned as trailing), and any run after the
// last element (trailing).
func (tp *InlineTreeprocessor) splice(runs []inlineRun) (children []*Element, leading, trailing Text) {
	var pending textAccum
	for _, r := range runs {
		if r.element == nil {
			pending.write(r)
			continue
		}
		if len(children) == 0 {
			leading = pending.value()
		} else {
			children[len(children)-1].Tail = mergeText(children[len(children)-1].Tail, pending.value())
		}
		pending = textAccum{}
		children = append(children, r.element)
	}
	trailing = pending.value()
	if len(children) == 0 {
		leading = trailing
		trailing = Text{}
	}
	return children, leading, trailing
}

// PrettifyTreeprocessor normalizes block-level whitespace so the serialized
// document has a newline between sibling blocks, per §4.6.
type PrettifyTreeprocessor struct{}

var blockTagSet = blockLevelTags

func (PrettifyTreeprocessor) Run(root *Element) *Element {
	prettifyElement(root, true)
	return nil
}

// prettifyElement mirrors the reference prettify pass: a block-level
// element (root included) gets a leading "\n" text when its first child is
// itself block-level, recurses only into block-level children, and always
// gets its own trailing "\n" tail filled in when blank. <pre>/<code> are
// left untouched so their content's whitespace is never disturbed.
func prettifyElement(e *Element, isRoot bool) {
	if e.Tag == "pre" {
		return
	}
	if !blockTagSet[e.Tag] && !isRoot {
		return
	}
	if isWhitespace(e.Text.Body) && len(e.Children) > 0 && blockTagSet[e.Children[0].Tag] {
		e.Text.Body = "\n"
	}
	for _, c := range e.Children {
		if blockTagSet[c.Tag] {
			prettifyElement(c, false)
		}
	}
	if isWhitespace(e.Tail.Body) {
		e.Tail.Body = "\n"
	}
}
