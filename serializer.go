package markdown

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputFormat serializes an Element tree to its final string form. The
// facade keeps a map of these under OutputFormats, selected by name
// ("html" or "xhtml") from the Markdown.OutputFormat field.
type OutputFormat func(root *Element) (string, error)

// voidTags is the set of HTML elements that never have a closing tag or
// children.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// booleanAttrs is the set of attributes whose presence alone carries
// meaning; the serializer renders them as bare names in HTML mode
// ("hidden") and self-valued in XHTML mode ("hidden=\"hidden\"") whenever
// their stored value is empty or equal to the attribute name.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true, "async": true, "autofocus": true,
	"autoplay": true, "checked": true, "controls": true, "default": true,
	"defer": true, "disabled": true, "formnovalidate": true, "hidden": true,
	"ismap": true, "itemscope": true, "loop": true, "multiple": true,
	"muted": true, "nomodule": true, "novalidate": true, "open": true,
	"readonly": true, "required": true, "reversed": true, "selected": true,
}

// SerializeHTML renders root using HTML void-element and boolean-attribute
// conventions: void elements have no closing slash, and boolean attributes
// are emitted bare.
func SerializeHTML(root *Element) (string, error) {
	var b strings.Builder
	s := &serializer{xhtml: false, seenNS: map[string]bool{}}
	if err := s.writeElement(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SerializeXHTML renders root using XHTML conventions: void elements
// self-close, and boolean attributes repeat their name as the value.
func SerializeXHTML(root *Element) (string, error) {
	var b strings.Builder
	s := &serializer{xhtml: true, seenNS: map[string]bool{}}
	if err := s.writeElement(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

type serializer struct {
	xhtml  bool
	seenNS map[string]bool
}

func (s *serializer) writeElement(b *strings.Builder, e *Element) error {
	if e.Namespace != "" && e.Tag == "" {
		return fmt.Errorf("markdown: qualified name with empty local part in namespace %q", e.Namespace)
	}

	switch e.Tag {
	case CommentTag:
		b.WriteString("<!--")
		b.WriteString(e.Text.Body)
		b.WriteString("-->")
		s.writeTail(b, e)
		return nil
	case PITag:
		target, _ := e.Get("target")
		b.WriteString("<?")
		b.WriteString(target)
		if e.Text.Body != "" {
			b.WriteString(" ")
			b.WriteString(escapeAttr(e.Text.Body))
		}
		b.WriteString("?>")
		s.writeTail(b, e)
		return nil
	case GroupTag:
		b.WriteString(escapeText(e.Text.Body))
		for _, c := range e.Children {
			if err := s.writeElement(b, c); err != nil {
				return err
			}
		}
		s.writeTail(b, e)
		return nil
	}

	b.WriteString("<")
	b.WriteString(e.Tag)

	if e.Namespace != "" && !s.seenNS[e.Namespace] {
		s.seenNS[e.Namespace] = true
		b.WriteString(` xmlns="`)
		b.WriteString(escapeAttr(e.Namespace))
		b.WriteString(`"`)
	}

	for _, a := range e.Attr {
		s.writeAttr(b, a)
	}

	void := voidTags[e.Tag]
	if void {
		if s.xhtml {
			b.WriteString(" />")
		} else {
			b.WriteString(">")
		}
		s.writeTail(b, e)
		return nil
	}
	b.WriteString(">")

	b.WriteString(escapeText(e.Text.Body))
	for _, c := range e.Children {
		if err := s.writeElement(b, c); err != nil {
			return err
		}
	}

	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteString(">")

	s.writeTail(b, e)
	return nil
}

func (s *serializer) writeAttr(b *strings.Builder, a Attr) {
	if booleanAttrs[a.Key] && (a.Val == "" || a.Val == a.Key) {
		if s.xhtml {
			fmt.Fprintf(b, ` %s="%s"`, a.Key, a.Key)
		} else {
			fmt.Fprintf(b, " %s", a.Key)
		}
		return
	}
	fmt.Fprintf(b, ` %s="%s"`, a.Key, escapeAttr(a.Val))
}

func (s *serializer) writeTail(b *strings.Builder, e *Element) {
	b.WriteString(escapeText(e.Tail.Body))
}

// escapeText escapes the characters that are significant inside element
// content: &, <, and >. Double quotes are left untouched, per §4.7.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// escapeAttr escapes the characters significant inside a quoted attribute
// value: &, <, >, ", and any control character below 0x20, which is
// rendered as a numeric character reference.
func escapeAttr(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '&':
			b.WriteString("&amp;")
		case r == '<':
			b.WriteString("&lt;")
		case r == '>':
			b.WriteString("&gt;")
		case r == '"':
			b.WriteString("&quot;")
		case r < 0x20:
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(r)))
			b.WriteString(";")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
