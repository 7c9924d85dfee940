package html

import (
	"errors"
	"fmt"
	gohtml "html"
	"strings"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("markup syntax error")

// SyntaxError locates malformed markup. Line and Col are 1-based.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenStartTag:
		return "start tag"
	case TokenEndTag:
		return "end tag"
	case TokenText:
		return "text"
	}
	return "EOF"
}

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  []Attribute
	Text        string
	SelfClosing bool
	// Offset is the byte offset of the token in the input.
	Offset int
}

// Tokenizer splits HT3D markup into tags and text. Comments, doctypes
// and processing instructions are skipped.
type Tokenizer struct {
	input string
	pos   int
}

func NewTokenizer(markup string) *Tokenizer {
	return &Tokenizer{input: markup}
}

// NextToken returns the next tag or text run, or TokenEOF.
func (t *Tokenizer) NextToken() (Token, error) {
	for {
		if t.eof() {
			return Token{Type: TokenEOF, Offset: t.pos}, nil
		}
		if t.peek() != '<' {
			tok := t.readText()
			if tok.Text == "" {
				continue
			}
			return tok, nil
		}
		skipped, err := t.skipDeclaration()
		if err != nil {
			return Token{}, err
		}
		if !skipped {
			return t.readTag()
		}
	}
}

// skipDeclaration consumes a comment, <!...> or <?...?> at pos.
func (t *Tokenizer) skipDeclaration() (bool, error) {
	rest := t.input[t.pos:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		t.skipPast("-->", t.pos+4)
	case strings.HasPrefix(rest, "<?"):
		t.skipPast("?>", t.pos+2)
	case strings.HasPrefix(rest, "<!"):
		start := t.pos
		if i := strings.IndexByte(rest, '>'); i >= 0 {
			t.pos += i + 1
		} else {
			return false, t.errorAt(start, "unterminated declaration")
		}
	default:
		return false, nil
	}
	return true, nil
}

// skipPast moves pos after the next end marker searched from from, or to
// EOF when there is none.
func (t *Tokenizer) skipPast(end string, from int) {
	if i := strings.Index(t.input[from:], end); i >= 0 {
		t.pos = from + i + len(end)
		return
	}
	t.pos = len(t.input)
}

func (t *Tokenizer) readTag() (Token, error) {
	start := t.pos
	t.pos++ // <

	tok := Token{Type: TokenStartTag, Offset: start}
	if !t.eof() && t.peek() == '/' {
		tok.Type = TokenEndTag
		t.pos++
	}
	tok.TagName = t.readName(isTagNameChar)
	if tok.TagName == "" {
		return Token{}, t.errorAt(t.pos, "expected tag name")
	}

	if tok.Type == TokenEndTag {
		i := strings.IndexByte(t.input[t.pos:], '>')
		if i < 0 {
			return Token{}, t.errorAt(start, "unterminated end tag </"+tok.TagName)
		}
		t.pos += i + 1
		return tok, nil
	}

	for {
		t.skipWhitespace()
		if t.eof() {
			return Token{}, t.errorAt(start, "unterminated tag <"+tok.TagName)
		}
		switch t.peek() {
		case '>':
			t.pos++
			return tok, nil
		case '/':
			t.pos++
			t.skipWhitespace()
			if !t.eof() && t.peek() == '>' {
				t.pos++
				tok.SelfClosing = true
				return tok, nil
			}
			continue
		}

		name, value, err := t.readAttribute()
		if err != nil {
			return Token{}, err
		}
		tok.Attributes = setAttribute(tok.Attributes, name, value)
	}
}

func (t *Tokenizer) readName(valid func(byte) bool) string {
	start := t.pos
	for !t.eof() && valid(t.peek()) {
		t.pos++
	}
	return strings.ToLower(t.input[start:t.pos])
}

// readAttribute reads name, name=value, name="value" or name='value'.
// Entities in values are decoded.
func (t *Tokenizer) readAttribute() (string, string, error) {
	name := t.readName(isAttributeNameChar)
	if name == "" {
		return "", "", t.errorAt(t.pos, fmt.Sprintf("unexpected %q in tag", t.peek()))
	}
	t.skipWhitespace()
	if t.eof() || t.peek() != '=' {
		return name, "", nil
	}
	t.pos++
	t.skipWhitespace()
	if t.eof() {
		return "", "", t.errorAt(t.pos, "expected value for attribute "+name)
	}

	if q := t.peek(); q == '"' || q == '\'' {
		start := t.pos
		end := strings.IndexByte(t.input[start+1:], q)
		if end < 0 {
			return "", "", t.errorAt(start, "unterminated value for attribute "+name)
		}
		t.pos = start + 1 + end + 1
		return name, gohtml.UnescapeString(t.input[start+1 : start+1+end]), nil
	}

	start := t.pos
	for !t.eof() && !isSpace(t.peek()) && t.peek() != '>' {
		t.pos++
	}
	return name, gohtml.UnescapeString(t.input[start:t.pos]), nil
}

// readText reads up to the next '<'. Text is split into words later, so
// whitespace runs collapse and an all-blank run yields "".
func (t *Tokenizer) readText() Token {
	start := t.pos
	if i := strings.IndexByte(t.input[start:], '<'); i >= 0 {
		t.pos += i
	} else {
		t.pos = len(t.input)
	}
	text := strings.Join(strings.Fields(t.input[start:t.pos]), " ")
	return Token{Type: TokenText, Text: gohtml.UnescapeString(text), Offset: start}
}

// ReadRawUntil returns everything up to the end tag </name>, matched
// without regard to case, and moves past it. Without an end tag the rest
// of the input is returned.
func (t *Tokenizer) ReadRawUntil(name string) string {
	needle := "</" + strings.ToLower(name) + ">"
	start := t.pos
	if i := strings.Index(strings.ToLower(t.input[start:]), needle); i >= 0 {
		t.pos = start + i + len(needle)
		return t.input[start : start+i]
	}
	t.pos = len(t.input)
	return t.input[start:]
}

// Position converts a byte offset into a 1-based line and column.
func (t *Tokenizer) Position(offset int) (line, col int) {
	offset = min(offset, len(t.input))
	before := t.input[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}

func (t *Tokenizer) errorAt(offset int, msg string) error {
	line, col := t.Position(offset)
	return &SyntaxError{Line: line, Col: col, Msg: msg}
}

func (t *Tokenizer) eof() bool  { return t.pos >= len(t.input) }
func (t *Tokenizer) peek() byte { return t.input[t.pos] }

func (t *Tokenizer) skipWhitespace() {
	for !t.eof() && isSpace(t.peek()) {
		t.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isTagNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isAttributeNameChar(c byte) bool {
	return isTagNameChar(c) || c == ':' || c == '.'
}
