package css

import (
	"strings"
)

// Element is the view of a styled node the matcher and cascade need.
// ParentElement returns nil for the root.
type Element interface {
	TagName() string
	Attribute(name string) (string, bool)
	ParentElement() Element
}

// MatchesSelector returns true if el matches the complex selector.
func MatchesSelector(el Element, selector Selector) bool {
	if el == nil || len(selector.Parts) == 0 {
		return false
	}
	// Start from the rightmost part (the target element)
	return matchesCompoundSelector(el, selector, len(selector.Parts)-1)
}

func matchesCompoundSelector(el Element, selector Selector, partIndex int) bool {
	if !matchesSelectorPart(el, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	prev := partIndex - 1
	switch selector.Combinators[prev] {
	case DescendantCombinator:
		for ancestor := el.ParentElement(); ancestor != nil; ancestor = ancestor.ParentElement() {
			if matchesCompoundSelector(ancestor, selector, prev) {
				return true
			}
		}
	case ChildCombinator:
		if parent := el.ParentElement(); parent != nil {
			return matchesCompoundSelector(parent, selector, prev)
		}
	}
	return false
}

func matchesSelectorPart(el Element, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && el.TagName() != part.Element {
		return false
	}

	if part.ID != "" {
		if id, ok := el.Attribute("id"); !ok || id != part.ID {
			return false
		}
	}

	if len(part.Classes) > 0 {
		classAttr, ok := el.Attribute("class")
		if !ok {
			return false
		}
		nodeClasses := strings.Fields(classAttr)
		for _, required := range part.Classes {
			found := false
			for _, c := range nodeClasses {
				if c == required {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// FindMatchingRules returns the rules of sheet that match el, in sheet order.
func FindMatchingRules(el Element, sheet *Stylesheet) []Rule {
	var matches []Rule
	for _, rule := range sheet.Rules {
		if MatchesSelector(el, rule.Selector) {
			matches = append(matches, rule)
		}
	}
	return matches
}
