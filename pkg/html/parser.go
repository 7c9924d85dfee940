package html

import (
	"fmt"
)

// Parser builds a Document from markup. It is forgiving about structure:
// stray end tags are dropped and elements left open at EOF are closed.
type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	open      []*Node
}

func NewParser(markup string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(markup),
		doc:       NewDocument(),
	}
}

// Parse consumes the whole input. Only malformed tags are errors; they
// come back as a *SyntaxError.
func (p *Parser) Parse() (*Document, error) {
	p.open = []*Node{p.doc.Root}

	for {
		tok, err := p.tokenizer.NextToken()
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}

		switch tok.Type {
		case TokenEOF:
			return p.doc, nil
		case TokenText:
			p.top().AppendText(tok.Text)
		case TokenEndTag:
			p.close(tok.TagName)
		case TokenStartTag:
			p.start(tok)
		}
	}
}

// start handles a start tag. Style and script bodies are raw text and go
// to the document, not the tree.
func (p *Parser) start(tok Token) {
	switch tok.TagName {
	case "style", "script":
		if tok.SelfClosing {
			return
		}
		raw := p.tokenizer.ReadRawUntil(tok.TagName)
		if tok.TagName == "style" {
			p.doc.Stylesheets = append(p.doc.Stylesheets, raw)
		} else {
			p.doc.Scripts = append(p.doc.Scripts, raw)
		}
		return
	}

	el := &Node{
		Type:       ElementNode,
		TagName:    tok.TagName,
		Attributes: tok.Attributes,
		Children:   make([]*Node, 0),
	}
	p.top().AddChild(el)
	if !tok.SelfClosing && !isVoidElement(tok.TagName) {
		p.open = append(p.open, el)
	}
}

func (p *Parser) top() *Node {
	return p.open[len(p.open)-1]
}

// close pops up to and including the innermost open element named tag.
// The document root is never popped.
func (p *Parser) close(tag string) {
	for i := len(p.open) - 1; i > 0; i-- {
		if p.open[i].TagName == tag {
			p.open = p.open[:i]
			return
		}
	}
}

// isVoidElement reports the HT3D elements that never have children.
func isVoidElement(tag string) bool {
	switch tag {
	case "img", "mesh", "br", "hr", "meta", "link":
		return true
	}
	return false
}

// Parse parses a complete document or fragment.
func Parse(markup string) (*Document, error) {
	return NewParser(markup).Parse()
}
