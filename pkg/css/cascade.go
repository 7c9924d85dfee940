package css

import (
	"sort"
)

// inherited lists the properties that fall back to the nearest ancestor
// declaring them.
var inherited = map[string]bool{
	"font-family":  true,
	"font-size":    true,
	"font-weight":  true,
	"font-height":  true,
	"color":        true,
	"word-spacing": true,
	"text-align":   true,
	"line-height":  true,
	"visibility":   true,
}

// IsInherited reports whether property falls back to ancestors.
func IsInherited(property string) bool {
	return inherited[property]
}

// Cascade resolves computed styles. Rules are applied by ascending
// specificity, ties broken by source order, and the element's style
// attribute is applied last. Computed styles are memoized per element
// until Invalidate or Reset.
type Cascade struct {
	sheets   []*Stylesheet
	rules    int
	computed map[Element]*Style
}

// NewCascade returns a cascade seeded with the user agent stylesheet.
func NewCascade() *Cascade {
	c := &Cascade{computed: make(map[Element]*Style)}
	ua, _ := ParseStylesheet(UserAgent)
	c.AddStylesheet(ua)
	return c
}

// AddStylesheet appends an author stylesheet. Later sheets win ties.
func (c *Cascade) AddStylesheet(sheet *Stylesheet) {
	if sheet == nil {
		return
	}
	for i := range sheet.Rules {
		sheet.Rules[i].Order = c.rules
		c.rules++
	}
	c.sheets = append(c.sheets, sheet)
	c.Reset()
}

// Computed returns the style declared for el itself, without inheritance.
func (c *Cascade) Computed(el Element) *Style {
	if style, ok := c.computed[el]; ok {
		return style
	}

	var rules []Rule
	for _, sheet := range c.sheets {
		rules = append(rules, FindMatchingRules(el, sheet)...)
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Selector.Specificity != rules[j].Selector.Specificity {
			return rules[i].Selector.Specificity < rules[j].Selector.Specificity
		}
		return rules[i].Order < rules[j].Order
	})

	style := NewStyle()
	for _, rule := range rules {
		for property, value := range rule.Declarations {
			style.Set(property, value)
		}
	}
	if attr, ok := el.Attribute("style"); ok {
		style.Merge(ParseInlineStyle(attr))
	}

	c.computed[el] = style
	return style
}

// LocalStyle returns the value declared on el itself.
func (c *Cascade) LocalStyle(el Element, property string) (string, bool) {
	return c.Computed(el).Get(property)
}

// GetStyle returns the computed value of property for el, or Initial.
func (c *Cascade) GetStyle(el Element, property string) string {
	for cur := el; cur != nil; cur = cur.ParentElement() {
		if v, ok := c.LocalStyle(cur, property); ok {
			return v
		}
		if !inherited[property] {
			break
		}
	}
	return Initial
}

// Invalidate drops the memoized style of el. Callers invalidate the
// descendants they know about.
func (c *Cascade) Invalidate(el Element) {
	delete(c.computed, el)
}

// Reset drops every memoized style.
func (c *Cascade) Reset() {
	c.computed = make(map[Element]*Style)
}
