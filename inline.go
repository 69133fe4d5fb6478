package markdown

import (
	"regexp"
	"unicode/utf8"
)

// InlineMatch is what an InlineProcessor's HandleMatch returns: either an
// Element to splice into the tree in place of the matched span, or literal
// replacement text, or neither. Skip means "consume the match but emit
// nothing here" (the span is genuinely gone). Decline means the opposite:
// this processor's regex matched but the construct isn't actually usable
// (e.g. a reference link whose label has no definition) — the match is
// discarded as if it never happened, and the engine keeps looking for
// another candidate at the same or a later position, same as an
// ancestor-exclusion rejection.
type InlineMatch struct {
	Element *Element
	Text    string
	IsText  bool
	Skip    bool
	Decline bool
}

// InlineProcessor recognizes one inline (span-level) construct via a
// compiled regular expression and converts a match into replacement
// content.
type InlineProcessor interface {
	// Pattern returns the compiled regexp used to search for candidate
	// matches within a text node.
	Pattern() *regexp.Regexp
	// HandleMatch is called with the regexp match (as FindStringSubmatchIndex
	// would report) and the full text being scanned; it returns the
	// replacement content.
	HandleMatch(data string, m []int) InlineMatch
	// AncestorExcludes returns the set of tag names that suppress this
	// pattern when present anywhere in the current element's ancestor
	// chain (§4.5).
	AncestorExcludes() map[string]bool
}

// BaseInlineProcessor supplies a no-op AncestorExcludes for processors that
// don't need one; embed it and override only what differs.
type BaseInlineProcessor struct {
	Re       *regexp.Regexp
	Excludes map[string]bool
}

func (b BaseInlineProcessor) Pattern() *regexp.Regexp { return b.Re }
func (b BaseInlineProcessor) AncestorExcludes() map[string]bool { return b.Excludes }

// InlineEngine applies the registered InlineProcessors to a text string,
// producing a list of sibling nodes (Elements and/or plain Text) that
// replace it. It implements §4.5: earliest match wins, ties broken by
// registry priority (registry iteration order already reflects that), a
// match rejected by ancestor exclusion falls through to the next candidate
// at the same or later position, and the scan repeats on the unconsumed
// suffix until exhausted.
type InlineEngine struct {
	Patterns *Registry[InlineProcessor]
}

// inlineRun is one piece of the replacement sequence for a text node: either
// literal text or a spliced Element.
type inlineRun struct {
	text    string
	atomic  bool
	element *Element
}

// Apply scans data for matches against every registered pattern and returns
// the ordered replacement runs. ancestors is consulted for ancestor
// exclusion; it is the tag set of every element enclosing the node being
// expanded.
func (e *InlineEngine) Apply(data string, ancestors map[string]bool) []inlineRun {
	procs := e.Patterns.Items()
	var out []inlineRun
	pos := 0

	for pos < len(data) {
		bestStart, bestEnd := -1, -1
		var bestMatch InlineMatch
		var bestOK bool

		for _, proc := range procs {
			if excl := proc.AncestorExcludes(); excl != nil && hasAny(ancestors, excl) {
				continue
			}
			re := proc.Pattern()
			// A declined match is discarded and the same pattern is searched
			// again from the rune after its start.
			for from := pos; from <= len(data); {
				loc := re.FindStringSubmatchIndex(data[from:])
				if loc == nil {
					break
				}
				start, end := from+loc[0], from+loc[1]
				if bestStart != -1 && start >= bestStart {
					break
				}
				match := proc.HandleMatch(data, shiftIndices(loc, from))
				if match.Decline {
					_, w := utf8.DecodeRuneInString(data[start:])
					from = start + max(w, 1)
					continue
				}
				bestStart, bestEnd = start, end
				bestMatch = match
				bestOK = true
				break
			}
		}

		if !bestOK {
			out = append(out, inlineRun{text: data[pos:]})
			break
		}

		if bestStart > pos {
			out = append(out, inlineRun{text: data[pos:bestStart]})
		}

		switch {
		case bestMatch.Skip:
			// emit nothing for this span
		case bestMatch.Element != nil:
			out = append(out, inlineRun{element: bestMatch.Element})
		case bestMatch.IsText:
			out = append(out, inlineRun{text: bestMatch.Text, atomic: true})
		}

		if bestEnd <= pos {
			// Guarantee forward progress even if a buggy processor
			// returned a zero-width match.
			bestEnd = pos + 1
			if bestEnd > len(data) {
				bestEnd = len(data)
			}
		}
		pos = bestEnd
	}

	return out
}

func hasAny(have, want map[string]bool) bool {
	for t := range want {
		if have[t] {
			return true
		}
	}
	return false
}

func shiftIndices(loc []int, offset int) []int {
	out := make([]int, len(loc))
	for i, v := range loc {
		if v < 0 {
			out[i] = v
		} else {
			out[i] = v + offset
		}
	}
	return out
}
