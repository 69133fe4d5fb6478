package htmltok

import "testing"

func tokenTypes(src string) []TokenType {
	tz := New([]byte(src))
	var types []TokenType
	for {
		tok := tz.Next()
		if tok.Type == EOF {
			return types
		}
		types = append(types, tok.Type)
	}
}

func TestStartAndEndTag(t *testing.T) {
	types := tokenTypes("<div>hi</div>")
	want := []TokenType{StartTag, Text, EndTag}
	if len(types) != len(want) {
		t.Fatalf("got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("got %v, want %v", types, want)
		}
	}
}

func TestSelfClosingTag(t *testing.T) {
	tz := New([]byte(`<hr/>`))
	tok := tz.Next()
	if tok.Type != SelfClosing {
		t.Fatalf("got %v, want SelfClosing", tok.Type)
	}
}

func TestCommentRequiresClosingDashes(t *testing.T) {
	tz := New([]byte("<!-- hi -->tail"))
	tok := tz.Next()
	if tok.Type != Comment || tok.Data != " hi " {
		t.Fatalf("got %+v", tok)
	}
}

func TestUnterminatedCommentFallsBackToLiteralLT(t *testing.T) {
	tz := New([]byte("<!-- no close"))
	tok := tz.Next()
	if tok.Type != Text || tok.Data != "<" {
		t.Fatalf("got %+v, want literal '<'", tok)
	}
}

func TestProcessingInstructionRequiresQuestionMarkClose(t *testing.T) {
	tz := New([]byte("<?php echo 1; ?>rest"))
	tok := tz.Next()
	if tok.Type != PI || tok.Name != "php" {
		t.Fatalf("got %+v", tok)
	}
}

func TestCharRefRequiresSemicolonTerminator(t *testing.T) {
	types := tokenTypes("&amp; &notaref")
	if len(types) < 1 || types[0] != CharRef {
		t.Fatalf("got %v, want first token CharRef", types)
	}
	// "&notaref" has no ';' terminator: must fall back to literal '&' text,
	// never buffered as an incomplete entity.
	tz := New([]byte("&notaref"))
	tok := tz.Next()
	if tok.Type != Text || tok.Data != "&" {
		t.Fatalf("got %+v, want literal '&'", tok)
	}
}

func TestRawTextModeStopsOnlyAtMatchingEndTag(t *testing.T) {
	tz := New([]byte("a < b </script>after"))
	tz.EnterRawText("script")
	tok := tz.Next()
	if tok.Type != Text || tok.Data != "a < b " {
		t.Fatalf("got %+v", tok)
	}
	if !tz.InRawText() {
		t.Fatal("expected still in raw-text mode before the end tag is consumed")
	}
}

func TestAttributesParseQuotedAndBareValues(t *testing.T) {
	tz := New([]byte(`<a href="x" target=_blank disabled>`))
	tok := tz.Next()
	if tok.Type != StartTag || tok.Name != "a" {
		t.Fatalf("got %+v", tok)
	}
	if len(tok.Attr) != 3 {
		t.Fatalf("got %d attrs, want 3: %+v", len(tok.Attr), tok.Attr)
	}
	if tok.Attr[0].Key != "href" || tok.Attr[0].Val != "x" {
		t.Fatalf("got %+v", tok.Attr[0])
	}
	if tok.Attr[2].Key != "disabled" || tok.Attr[2].Val != "" {
		t.Fatalf("got %+v", tok.Attr[2])
	}
}
