package markdown

import "strconv"

// stashSentinel is a character outside any range a Markdown or HTML
// constructor might plausibly produce. It brackets stash placeholders so
// they can never collide with real document text and are trivially found by
// the final postprocessor. U+E024 sits in the Unicode Private Use Area.
const stashSentinel = '\uE024'

// stashTag is the fixed token inserted between the sentinels, matching the
// exact sequence the spec requires the final postprocessor to recognize.
const stashTag = "wzxhzdk:"

// HtmlStash holds raw HTML fragments extracted by preprocessors so they can
// be threaded through the rest of the pipeline as opaque placeholder tokens
// and reinserted verbatim by the final postprocessor.
type HtmlStash struct {
	fragments []string
}

// NewHtmlStash returns an empty HtmlStash.
func NewHtmlStash() *HtmlStash {
	return &HtmlStash{}
}

// Store records fragment and returns the placeholder token that stands in
// for it until the fragment is restored from the final postprocessor.
func (h *HtmlStash) Store(fragment string) string {
	idx := len(h.fragments)
	h.fragments = append(h.fragments, fragment)
	return Placeholder(idx)
}

// Get returns the fragment stored at idx and whether it was present.
func (h *HtmlStash) Get(idx int) (string, bool) {
	if idx < 0 || idx >= len(h.fragments) {
		return "", false
	}
	return h.fragments[idx], true
}

// Len reports how many fragments are currently stashed.
func (h *HtmlStash) Len() int {
	return len(h.fragments)
}

// Reset clears the stash for the start of a new conversion.
func (h *HtmlStash) Reset() {
	h.fragments = nil
}

// Placeholder builds the sentinel-bracketed placeholder token for index idx.
func Placeholder(idx int) string {
	return string(stashSentinel) + stashTag + strconv.Itoa(idx) + string(stashSentinel)
}
