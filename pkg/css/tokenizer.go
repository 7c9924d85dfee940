package css

import (
	"fmt"
	"strings"
	"unicode"
)

type CSSTokenType int

const (
	CSSTokenText   CSSTokenType = iota // selector, property or value text
	CSSTokenLBrace                     // {
	CSSTokenRBrace                     // }
	CSSTokenColon                      // :
	CSSTokenSemicolon                  // ;
	CSSTokenEOF
)

type CSSToken struct {
	Type  CSSTokenType
	Value string
	Pos   int
}

// CSSTokenizer splits stylesheet text into structural tokens. Inside a
// declaration value whitespace does not end the token, so multi-word
// values ("0 1em 0") come back whole.
type CSSTokenizer struct {
	input   string
	pos     int
	inBlock bool
	inValue bool
}

func NewCSSTokenizer(input string) *CSSTokenizer {
	return &CSSTokenizer{input: input}
}

func (t *CSSTokenizer) NextToken() CSSToken {
	t.skipWhitespace()

	if t.pos >= len(t.input) {
		return CSSToken{Type: CSSTokenEOF, Pos: t.pos}
	}

	start := t.pos
	switch t.input[t.pos] {
	case '{':
		t.pos++
		t.inBlock = true
		return CSSToken{Type: CSSTokenLBrace, Value: "{", Pos: start}
	case '}':
		t.pos++
		t.inBlock, t.inValue = false, false
		return CSSToken{Type: CSSTokenRBrace, Value: "}", Pos: start}
	case ':':
		if t.inBlock && !t.inValue {
			t.pos++
			t.inValue = true
			return CSSToken{Type: CSSTokenColon, Value: ":", Pos: start}
		}
	case ';':
		t.pos++
		t.inValue = false
		return CSSToken{Type: CSSTokenSemicolon, Value: ";", Pos: start}
	}
	return t.readText()
}

func (t *CSSTokenizer) readText() CSSToken {
	start := t.pos
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == '{' || ch == '}' || ch == ';' {
			break
		}
		if ch == ':' && t.inBlock && !t.inValue {
			break
		}
		if ch == '/' && t.pos+1 < len(t.input) && t.input[t.pos+1] == '*' {
			break
		}
		t.pos++
	}
	return CSSToken{Type: CSSTokenText, Value: strings.TrimSpace(t.input[start:t.pos]), Pos: start}
}

func (t *CSSTokenizer) skipWhitespace() {
	for t.pos < len(t.input) {
		if unicode.IsSpace(rune(t.input[t.pos])) {
			t.pos++
		} else if t.pos+1 < len(t.input) && t.input[t.pos] == '/' && t.input[t.pos+1] == '*' {
			t.skipComment()
		} else {
			break
		}
	}
}

// skipComment skips a /* ... */ comment. Assumes pos is at the '/'.
func (t *CSSTokenizer) skipComment() {
	t.pos += 2
	for t.pos+1 < len(t.input) {
		if t.input[t.pos] == '*' && t.input[t.pos+1] == '/' {
			t.pos += 2
			return
		}
		t.pos++
	}
	t.pos = len(t.input)
}

// Error returns a formatted error with position information
func (t *CSSTokenizer) Error(msg string) error {
	return fmt.Errorf("css: position %d: %s", t.pos, msg)
}
