package css

import (
	"errors"
	"testing"
)

func TestParseInlineStyle_MultipleProperties(t *testing.T) {
	style := ParseInlineStyle("color: red; width: 100px;; bogus")
	color, _ := style.Get("color")
	width, _ := style.Get("width")
	if color != "red" || width != "100px" {
		t.Errorf("expected both properties to parse, got %v", style.Properties)
	}
	if len(style.Properties) != 2 {
		t.Errorf("expected malformed declarations to be dropped, got %v", style.Properties)
	}
}

func TestParseInlineStyle_SixValuePadding(t *testing.T) {
	style := ParseInlineStyle("padding: 1 2 3 4 5 6")
	expected := map[string]string{
		"padding-top":    "1",
		"padding-right":  "2",
		"padding-bottom": "3",
		"padding-left":   "4",
		"padding-far":    "5",
		"padding-near":   "6",
	}
	for prop, want := range expected {
		if got, _ := style.Get(prop); got != want {
			t.Errorf("%s: expected %q, got %q", prop, want, got)
		}
	}
}

func TestGetNumber(t *testing.T) {
	style := ParseInlineStyle("grow: 2; width: 10px")
	if n, ok := style.GetNumber("grow"); !ok || n != 2 {
		t.Errorf("expected grow=2, got %v %v", n, ok)
	}
	if _, ok := style.GetNumber("width"); ok {
		t.Error("width is not a bare number")
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]Color{
		"red":         {255, 0, 0, 1},
		"#00f":        {0, 0, 255, 1},
		"#008000":     {0, 128, 0, 1},
		"ffffffff":    {255, 255, 255, 1},
		"ff000000":    {0, 0, 0, 1},
		"00ff0000":    {255, 0, 0, 0},
		"transparent": {},
	}
	for in, expected := range tests {
		color, ok := ParseColor(in)
		if !ok || color != expected {
			t.Errorf("color %s: expected %+v, got %+v", in, expected, color)
		}
	}
	if _, ok := ParseColor("not-a-color"); ok {
		t.Error("expected unknown color to fail")
	}
}

func TestEnumFallbacks(t *testing.T) {
	if ParseDirection("diagonal") != DirectionColumn {
		t.Error("unknown direction should be column")
	}
	if ParseDirection("stack") != DirectionStack {
		t.Error("stack should parse")
	}
	if ParseWrap("wrap-reverse") != WrapNone {
		t.Error("unknown wrap should be nowrap")
	}
	if ParseJustify("space-sideways") != JustifyStart {
		t.Error("unknown justify should be start")
	}
	if ParseAlign(Initial) != AlignStart {
		t.Error("initial align should be start")
	}
	if _, ok := ParseTextAlign(Initial); ok {
		t.Error("initial text-align should defer to justify-content")
	}
	if _, ok := ParseTextAlign("centre"); ok {
		t.Error("unknown text-align should defer to justify-content")
	}
	if got, ok := ParseTextAlign("left"); !ok || got != TextAlignStart {
		t.Errorf("left: expected start, got %q %v", got, ok)
	}
}

func TestTextAlignJustify(t *testing.T) {
	if got := TextAlignJustify.Justify(false); got != JustifySpaceBetween {
		t.Errorf("expected space-between, got %s", got)
	}
	if got := TextAlignJustify.Justify(true); got != JustifyStart {
		t.Errorf("expected start on the last line, got %s", got)
	}
	if got := TextAlignCenter.Justify(true); got != JustifyCenter {
		t.Errorf("expected center, got %s", got)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want Size
	}{
		{"12", Size{12, UnitPx}},
		{"12px", Size{12, UnitPx}},
		{"1.5rem", Size{1.5, UnitRem}},
		{"2em", Size{2, UnitEm}},
		{"50vw", Size{50, UnitVw}},
		{"25vh", Size{25, UnitVh}},
		{"10vd", Size{10, UnitVd}},
		{"50%", Size{50, UnitPercent}},
		{"-3px", Size{-3, UnitPx}},
	}
	for _, tt := range tests {
		got, ok, err := ParseSize(tt.in)
		if err != nil || !ok || got != tt.want {
			t.Errorf("ParseSize(%q) = %+v, %v, %v; want %+v", tt.in, got, ok, err, tt.want)
		}
	}

	if _, ok, err := ParseSize(Initial); ok || err != nil {
		t.Errorf("initial: expected ok=false and no error, got %v %v", ok, err)
	}

	for _, bad := range []string{"10pt", "abc", "px", "", "NaN", "nan", "Inf", "-Inf", "infinity", "NaNpx", "+Inf%", "infinityem"} {
		if _, _, err := ParseSize(bad); !errors.Is(err, ErrInvalidUnit) {
			t.Errorf("ParseSize(%q): expected ErrInvalidUnit, got %v", bad, err)
		}
	}
}
