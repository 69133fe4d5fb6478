// Package wikilinks implements the [[Target]] / [[Target|Display]] inline
// extension: an InlineProcessor registered alongside the core link patterns
// that turns a bracketed wiki-style reference into an <a class="wikilink">.
package wikilinks

import (
	"regexp"
	"strings"

	md "github.com/htmlmd/markdown"
)

// Priority sits just below the core reference-link band so an ordinary
// "[text][ref]" is still given first refusal over "[[Target]]" — the two
// syntaxes only collide on a reference label that itself contains a
// bracket, which core link processors already decline on via the usual
// earliest-match/priority tie-break.
const Priority = 162

var wikilinkRe = regexp.MustCompile(`\[\[([\w0-9_ -]+(?:\|[\w0-9_ -]+)?)\]\]`)

// BuildURL formats a URL from a page label, base, and suffix. The default
// collapses runs of whitespace (and the underscores often used in place of
// spaces) into a single "_", matching the reference extension's behavior.
type BuildURL func(label, base, end string) string

var collapseRe = regexp.MustCompile(`[ ]+_|_[ ]+|[ ]+`)

func defaultBuildURL(label, base, end string) string {
	clean := collapseRe.ReplaceAllString(label, "_")
	return base + clean + end
}

// Processor recognizes "[[Target]]" and "[[Target|Display]]".
type Processor struct {
	md.BaseInlineProcessor
	BaseURL   string
	EndURL    string
	HTMLClass string
	BuildURL  BuildURL
}

func (p *Processor) HandleMatch(data string, m []int) md.InlineMatch {
	body := strings.TrimSpace(data[m[2]:m[3]])
	if body == "" {
		return md.InlineMatch{Decline: true}
	}

	target, display := body, body
	if i := strings.IndexByte(body, '|'); i >= 0 {
		target = strings.TrimSpace(body[:i])
		display = strings.TrimSpace(body[i+1:])
		if target == "" || display == "" {
			return md.InlineMatch{Decline: true}
		}
	}

	build := p.BuildURL
	if build == nil {
		build = defaultBuildURL
	}

	a := md.NewElement("a")
	a.Set("href", build(target, p.BaseURL, p.EndURL))
	if p.HTMLClass != "" {
		a.AddClass(p.HTMLClass)
	}
	a.Text = md.PlainString(display)
	return md.InlineMatch{Element: a}
}

// Extension wires a wikilinks Processor into a Markdown instance's
// InlineProcessors registry. BaseURL and EndURL default to "/"; HTMLClass
// defaults to "wikilink".
type Extension struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	EndURL    string `yaml:"end_url" json:"end_url"`
	HTMLClass string `yaml:"html_class" json:"html_class"`
	BuildURL  BuildURL `yaml:"-" json:"-"`
}

func (e Extension) ExtendMarkdown(m *md.Markdown) {
	base, end, class := e.BaseURL, e.EndURL, e.HTMLClass
	if base == "" {
		base = "/"
	}
	if end == "" {
		end = "/"
	}
	if class == "" {
		class = "wikilink"
	}
	proc := &Processor{
		BaseInlineProcessor: md.BaseInlineProcessor{Re: wikilinkRe, Excludes: map[string]bool{"a": true}},
		BaseURL:             base,
		EndURL:              end,
		HTMLClass:           class,
		BuildURL:            e.BuildURL,
	}
	m.InlineProcessors.Register(proc, "wikilink", Priority)
}
