package css

import (
	"strings"
)

// SelectorPart is one compound selector: tag, id and classes that must
// all match the same element.
type SelectorPart struct {
	Element string // "" or "*" matches any tag
	ID      string
	Classes []string
}

type CombinatorType int

const (
	DescendantCombinator CombinatorType = iota // A B
	ChildCombinator                            // A > B
)

// Selector is a chain of compound selectors joined by combinators.
// Combinators[i] sits between Parts[i] and Parts[i+1].
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []CombinatorType
	Specificity int
}

// Rule is one selector with its expanded declarations. Order is the
// position of the rule across every stylesheet added to a Cascade and
// breaks specificity ties.
type Rule struct {
	Selector     Selector
	Declarations map[string]string
	Order        int
}

type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses stylesheet text. Comma separated selector groups
// produce one rule per selector. Malformed rules are skipped.
func ParseStylesheet(text string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	tok := NewCSSTokenizer(text)

	for {
		t := tok.NextToken()
		if t.Type == CSSTokenEOF {
			return sheet, nil
		}
		if t.Type != CSSTokenText {
			// Stray punctuation outside a rule
			continue
		}

		selectorText := t.Value
		if next := tok.NextToken(); next.Type != CSSTokenLBrace {
			if next.Type == CSSTokenEOF {
				return sheet, nil
			}
			continue
		}

		decls, closed := parseBlock(tok)
		for _, raw := range strings.Split(selectorText, ",") {
			sel, ok := parseSelector(raw)
			if !ok {
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Declarations: decls})
		}
		if !closed {
			return sheet, nil
		}
	}
}

// parseBlock reads declarations up to the closing brace. closed is false
// when the input ended first.
func parseBlock(tok *CSSTokenizer) (map[string]string, bool) {
	style := NewStyle()
	var property string
	for {
		t := tok.NextToken()
		switch t.Type {
		case CSSTokenEOF:
			return style.Properties, false
		case CSSTokenRBrace:
			return style.Properties, true
		case CSSTokenText:
			if property == "" {
				property = strings.ToLower(t.Value)
				continue
			}
			if t.Value != "" {
				expandShorthand(style, property, t.Value)
			}
			property = ""
		case CSSTokenSemicolon:
			property = ""
		}
	}
}

// ParseSelectorGroup parses a comma separated selector list. ok is false
// if any member is malformed.
func ParseSelectorGroup(group string) (sels []Selector, ok bool) {
	for _, raw := range strings.Split(group, ",") {
		sel, ok := parseSelector(raw)
		if !ok {
			return nil, false
		}
		sels = append(sels, sel)
	}
	return sels, true
}

func parseSelector(raw string) (Selector, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Selector{}, false
	}

	sel := Selector{Raw: raw}
	fields := strings.Fields(strings.ReplaceAll(raw, ">", " > "))
	pendingChild := false
	for _, f := range fields {
		if f == ">" {
			pendingChild = true
			continue
		}
		part, ok := parseSelectorPart(f)
		if !ok {
			return Selector{}, false
		}
		if len(sel.Parts) > 0 {
			if pendingChild {
				sel.Combinators = append(sel.Combinators, ChildCombinator)
			} else {
				sel.Combinators = append(sel.Combinators, DescendantCombinator)
			}
		} else if pendingChild {
			return Selector{}, false
		}
		pendingChild = false
		sel.Parts = append(sel.Parts, part)
		sel.Specificity += part.specificity()
	}
	if pendingChild || len(sel.Parts) == 0 {
		return Selector{}, false
	}
	return sel, true
}

// parseSelectorPart splits "tag#id.a.b" into its components.
func parseSelectorPart(s string) (SelectorPart, bool) {
	var part SelectorPart
	i := 0
	for i < len(s) && s[i] != '#' && s[i] != '.' {
		i++
	}
	part.Element = strings.ToLower(s[:i])

	for i < len(s) {
		marker := s[i]
		j := i + 1
		for j < len(s) && s[j] != '#' && s[j] != '.' {
			j++
		}
		name := s[i+1 : j]
		if name == "" {
			return SelectorPart{}, false
		}
		if marker == '#' {
			part.ID = name
		} else {
			part.Classes = append(part.Classes, name)
		}
		i = j
	}
	return part, true
}

func (p SelectorPart) specificity() int {
	n := 10 * len(p.Classes)
	if p.ID != "" {
		n += 100
	}
	if p.Element != "" && p.Element != "*" {
		n++
	}
	return n
}
