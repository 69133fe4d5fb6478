package markdown

import (
	"regexp"
	"strings"
)

// refDefRe matches a reference-style link definition line per §4.1:
//   [label]: /url "optional title"
// Titles may be wrapped in double quotes, single quotes, or parentheses.
var refDefRe = regexp.MustCompile(`^[ ]{0,3}\[([^\]]+)\]:[ \t]*\n?[ \t]*<?([^ \t>]+)>?(?:[ \t]*\n?[ \t]*(?:"([^"]*)"|'([^']*)'|\(([^)]*)\)))?[ \t]*$`)

// linkRef is one resolved reference-style link definition.
type linkRef struct {
	URL   string
	Title string
}

// ReferenceDefs is the preprocessor described in §4.1: it pulls
// `[label]: url "title"` definitions out of the source text entirely,
// storing them (normalized, case-insensitive) into References, and leaves
// no trace of the definition line behind — not even a blank line.
type ReferenceDefs struct {
	References map[string]linkRef
}

// NewReferenceDefs returns a stripper backed by refs.
func NewReferenceDefs(refs map[string]linkRef) *ReferenceDefs {
	return &ReferenceDefs{References: refs}
}

// Run implements Preprocessor.
func (p *ReferenceDefs) Run(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		m := refDefRe.FindStringSubmatch(line)
		if m == nil {
			// A definition's title is allowed to spill onto the next line;
			// try the two-line form before giving up on this line.
			if i+1 < len(lines) {
				joined := line + "\n" + lines[i+1]
				if m2 := refDefRe.FindStringSubmatch(joined); m2 != nil {
					p.store(m2)
					i++
					continue
				}
			}
			out = append(out, line)
			continue
		}
		p.store(m)
	}
	return out
}

func (p *ReferenceDefs) store(m []string) {
	label := NormalizeLabel(m[1])
	title := m[3]
	if title == "" {
		title = m[4]
	}
	if title == "" {
		title = m[5]
	}
	if _, exists := p.References[label]; !exists {
		p.References[label] = linkRef{URL: m[2], Title: title}
	}
}

// NormalizeLabel folds a reference label to the case- and
// whitespace-insensitive key used to look it up, per §4.1's matching rule.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
