package css

import (
	"strconv"
	"strings"
)

// Initial is returned by the resolver for properties that are neither
// declared on the element nor inherited from an ancestor.
const Initial = "initial"

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// GetNumber parses a unitless numeric property such as grow.
func (s *Style) GetNumber(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// Merge copies every property of other into s, overwriting existing values.
func (s *Style) Merge(other *Style) {
	if other == nil {
		return
	}
	for k, v := range other.Properties {
		s.Properties[k] = v
	}
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for _, decl := range strings.Split(styleAttr, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		property := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(parts[1])
		if property == "" || value == "" {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style
}

// expandShorthand expands shorthand properties into their per-edge longhands.
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, value)
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands margin/padding shorthand. Besides the usual
// CSS forms it accepts a six value form for the depth edges:
//
//	"10"                    top right bottom left (far/near stay unset)
//	"10 20"                 vertical horizontal
//	"10 20 30"              top horizontal bottom
//	"10 20 30 40"           top right bottom left
//	"10 20 30 40 50 60"     top right bottom left far near
func expandBoxProperty(style *Style, prefix, value string) {
	parts := strings.Fields(value)

	switch len(parts) {
	case 1:
		style.Set(prefix+"-top", parts[0])
		style.Set(prefix+"-right", parts[0])
		style.Set(prefix+"-bottom", parts[0])
		style.Set(prefix+"-left", parts[0])
	case 2:
		style.Set(prefix+"-top", parts[0])
		style.Set(prefix+"-bottom", parts[0])
		style.Set(prefix+"-right", parts[1])
		style.Set(prefix+"-left", parts[1])
	case 3:
		style.Set(prefix+"-top", parts[0])
		style.Set(prefix+"-right", parts[1])
		style.Set(prefix+"-left", parts[1])
		style.Set(prefix+"-bottom", parts[2])
	case 4:
		style.Set(prefix+"-top", parts[0])
		style.Set(prefix+"-right", parts[1])
		style.Set(prefix+"-bottom", parts[2])
		style.Set(prefix+"-left", parts[3])
	case 6:
		style.Set(prefix+"-top", parts[0])
		style.Set(prefix+"-right", parts[1])
		style.Set(prefix+"-bottom", parts[2])
		style.Set(prefix+"-left", parts[3])
		style.Set(prefix+"-far", parts[4])
		style.Set(prefix+"-near", parts[5])
	}
}

type Color struct {
	R, G, B uint8
	A       float64
}

var namedColors = map[string]Color{
	"red":     {255, 0, 0, 1},
	"green":   {0, 128, 0, 1},
	"blue":    {0, 0, 255, 1},
	"yellow":  {255, 255, 0, 1},
	"cyan":    {0, 255, 255, 1},
	"magenta": {255, 0, 255, 1},
	"white":   {255, 255, 255, 1},
	"black":   {0, 0, 0, 1},
	"gray":    {128, 128, 128, 1},
	"orange":  {255, 165, 0, 1},
	"purple":  {128, 0, 128, 1},
	"pink":    {255, 192, 203, 1},
	"brown":   {165, 42, 42, 1},
	"lime":    {0, 255, 0, 1},
	"navy":    {0, 0, 128, 1},
	"teal":    {0, 128, 128, 1},
	"silver":  {192, 192, 192, 1},
}

// ParseColor understands named colors, #rgb, #rrggbb and the bare eight
// digit aarrggbb form used by theme files ("ffffffff").
func ParseColor(colorStr string) (Color, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	if c, ok := namedColors[colorStr]; ok {
		return c, true
	}
	if colorStr == "transparent" {
		return Color{}, true
	}

	hex := strings.TrimPrefix(colorStr, "#")
	switch {
	case len(hex) == 3 && strings.HasPrefix(colorStr, "#"):
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		fallthrough
	case len(hex) == 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 1}, true
	case len(hex) == 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), float64(uint8(v>>24)) / 255}, true
	}
	return Color{}, false
}

// Direction selects the main axis of a container.
type Direction string

const (
	DirectionColumn Direction = "column"
	DirectionRow    Direction = "row"
	DirectionStack  Direction = "stack"
)

// ParseDirection never fails: anything unknown is a column.
func ParseDirection(v string) Direction {
	switch strings.TrimSpace(v) {
	case "row":
		return DirectionRow
	case "stack":
		return DirectionStack
	}
	return DirectionColumn
}

type Wrap string

const (
	WrapNone Wrap = "nowrap"
	WrapWrap Wrap = "wrap"
)

func ParseWrap(v string) Wrap {
	if strings.TrimSpace(v) == "wrap" {
		return WrapWrap
	}
	return WrapNone
}

// Justify distributes main axis slack between the members of a line.
type Justify string

const (
	JustifyStart        Justify = "start"
	JustifyEnd          Justify = "end"
	JustifyCenter       Justify = "center"
	JustifySpaceBetween Justify = "space-between"
	JustifySpaceAround  Justify = "space-around"
	JustifySpaceEvenly  Justify = "space-evenly"
)

func ParseJustify(v string) Justify {
	switch strings.TrimSpace(v) {
	case "end", "flex-end":
		return JustifyEnd
	case "center":
		return JustifyCenter
	case "space-between":
		return JustifySpaceBetween
	case "space-around":
		return JustifySpaceAround
	case "space-evenly":
		return JustifySpaceEvenly
	}
	return JustifyStart
}

// TextAlign overrides justify-content on containers of text. Justify maps to
// space-between on every line but the last.
type TextAlign string

const (
	TextAlignStart   TextAlign = "start"
	TextAlignEnd     TextAlign = "end"
	TextAlignCenter  TextAlign = "center"
	TextAlignJustify TextAlign = "justify"
)

// ParseTextAlign reports ok=false for "initial" and unknown values so
// callers can fall back to justify-content.
func ParseTextAlign(v string) (TextAlign, bool) {
	switch strings.TrimSpace(v) {
	case Initial, "":
		return "", false
	case "right", "end":
		return TextAlignEnd, true
	case "center":
		return TextAlignCenter, true
	case "justify":
		return TextAlignJustify, true
	case "left", "start":
		return TextAlignStart, true
	}
	return "", false
}

// Justify returns the justify-content equivalent of the alignment for
// one line.
func (a TextAlign) Justify(lastLine bool) Justify {
	switch a {
	case TextAlignEnd:
		return JustifyEnd
	case TextAlignCenter:
		return JustifyCenter
	case TextAlignJustify:
		if lastLine {
			return JustifyStart
		}
		return JustifySpaceBetween
	}
	return JustifyStart
}

// Align positions a child on its parent's cross axis.
type Align string

const (
	AlignStart   Align = "start"
	AlignCenter  Align = "center"
	AlignEnd     Align = "end"
	AlignStretch Align = "stretch"
)

func ParseAlign(v string) Align {
	switch strings.TrimSpace(v) {
	case "center":
		return AlignCenter
	case "end", "flex-end":
		return AlignEnd
	case "stretch":
		return AlignStretch
	}
	return AlignStart
}
