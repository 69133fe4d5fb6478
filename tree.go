package markdown

import "strings"

// Special tag values. An Element with one of these tags is not a normal
// HTML element: CommentTag/PITag serialize using their own syntax, and
// GroupTag is the "None"-sentinel tag from the spec — it emits no tag of
// its own, only its text, children, and tail.
const (
	GroupTag   = ""
	CommentTag = "#comment"
	PITag      = "#pi"
)

// Attr is one insertion-ordered attribute. Element keeps attributes as a
// slice rather than a map so that serialization preserves the order
// attributes were set in, and duplicate-key detection can replace in place.
type Attr struct {
	Key string
	Val string
}

// Text is a string value that may be flagged atomic: once marked, the
// inline processor must never attempt to re-match patterns inside it. A
// zero-value Text is simply the empty, non-atomic string, so Element fields
// that hold Text need no special nil handling.
type Text struct {
	Body   string
	Atomic bool
}

// AtomicString returns an atomic Text wrapping s.
func AtomicString(s string) Text {
	return Text{Body: s, Atomic: true}
}

// PlainString returns a non-atomic Text wrapping s.
func PlainString(s string) Text {
	return Text{Body: s}
}

// IsEmpty reports whether the text body has zero length, regardless of the
// atomic flag.
func (t Text) IsEmpty() bool {
	return t.Body == ""
}

// Element is a node of the intermediate document tree built by the block
// parser, mutated in place by tree processors (most importantly inline
// expansion), and walked by the serializer.
type Element struct {
	Tag  string
	Attr []Attr

	// Text sits before the first child (or is the element's entire content,
	// for a childless element). Tail sits after this element, inside the
	// parent's content, before the parent's next child or closing tag.
	Text Text
	Tail Text

	// Namespace, if non-empty, is emitted as xmlns="Namespace" the first
	// time this namespace is seen in a given serialization pass.
	Namespace string

	Children []*Element

	// parent is tracked so inline expansion's ancestor-exclusion check can
	// walk upward without the caller threading a parent chain through.
	parent *Element
}

// NewElement returns a childless Element with the given tag and no
// attributes, text, or tail.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// SubElement creates a new Element with the given tag, appends it as the
// last child of parent, and returns it — the usual way block and inline
// processors build up the tree.
func SubElement(parent *Element, tag string) *Element {
	e := NewElement(tag)
	parent.AppendChild(e)
	return e
}

// AppendChild appends child to e's children and records e as its parent.
func (e *Element) AppendChild(child *Element) {
	child.parent = e
	e.Children = append(e.Children, child)
}

// InsertChild inserts child at position i among e's children.
func (e *Element) InsertChild(i int, child *Element) {
	child.parent = e
	e.Children = append(e.Children, nil)
	copy(e.Children[i+1:], e.Children[i:])
	e.Children[i] = child
}

// Parent returns e's parent, or nil for the root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Get returns the value of the attribute named key and whether it is set.
func (e *Element) Get(key string) (string, bool) {
	for _, a := range e.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Set adds or replaces the attribute named key.
func (e *Element) Set(key, val string) {
	for i := range e.Attr {
		if e.Attr[i].Key == key {
			e.Attr[i].Val = val
			return
		}
	}
	e.Attr = append(e.Attr, Attr{Key: key, Val: val})
}

// AddClass appends cls to the element's space-separated class attribute,
// creating it if absent.
func (e *Element) AddClass(cls string) {
	if existing, ok := e.Get("class"); ok && existing != "" {
		e.Set("class", existing+" "+cls)
		return
	}
	e.Set("class", cls)
}

// AncestorTags returns the tag of every ancestor of e, from immediate
// parent outward, used by inline patterns' ANCESTOR_EXCLUDES check.
func (e *Element) AncestorTags() []string {
	var tags []string
	for p := e.parent; p != nil; p = p.parent {
		tags = append(tags, p.Tag)
	}
	return tags
}

// HasAncestor reports whether any ancestor of e carries one of the given
// tags.
func (e *Element) HasAncestor(tags map[string]bool) bool {
	for p := e.parent; p != nil; p = p.parent {
		if tags[p.Tag] {
			return true
		}
	}
	return false
}

// isWhitespace reports whether s is empty or contains only spaces, tabs, or
// newlines — used by the prettify tree processor to decide whether it is
// safe to normalize surrounding whitespace without altering meaning.
func isWhitespace(s string) bool {
	return strings.TrimLeft(s, " \t\n") == ""
}

// Walk calls fn for e and, recursively, every descendant, in document
// order (pre-order, depth-first). fn may mutate the element it is given
// (text, tail, attributes) but must not mutate Children of an ancestor
// currently being walked; tree processors that restructure the tree build a
// fresh list of children before returning instead.
func Walk(e *Element, fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		Walk(c, fn)
	}
}
