package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livre3d/pkg/css"
)

type element struct {
	tag   string
	attrs map[string]string
}

func (e *element) TagName() string { return e.tag }
func (e *element) Attribute(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}
func (e *element) ParentElement() css.Element { return nil }

func TestLoadTheme_Empty(t *testing.T) {
	theme, err := LoadTheme("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme(), theme)
}

func TestLoadTheme(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.css"), []byte("div { width: 30 }"), 0644))
	path := filepath.Join(dir, "theme.toml")
	data := `
world_width = 200
hfov = 90
background = "ff0000ff"
stylesheets = ["extra.css"]

[fonts]
regular = "fonts/Regular.ttf"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	theme, err := LoadTheme(path)
	require.NoError(t, err)

	assert.Equal(t, 200.0, theme.WorldWidth)
	assert.Equal(t, 90.0, theme.HFOV)
	assert.Equal(t, 0.5, theme.NearFarRatio, "unset keys keep defaults")

	fc := theme.FontConfig()
	assert.Equal(t, filepath.Join(dir, "fonts", "Regular.ttf"), fc.Regular)
	assert.NotEmpty(t, fc.Bold)

	vp := theme.Viewport(400, 300)
	w2p, err := vp.WorldToPixels()
	require.NoError(t, err)
	assert.Equal(t, 2.0, w2p)

	c, err := theme.Cascade()
	require.NoError(t, err)
	assert.Equal(t, "ff0000ff", c.GetStyle(&element{tag: "body"}, "background-color"))
	assert.Equal(t, "30", c.GetStyle(&element{tag: "div"}, "width"))
}

func TestLoadTheme_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "world_width = "},
		{"world width", "world_width = -1"},
		{"hfov", "hfov = 180"},
		{"ratio", "near_far_ratio = 1.5"},
		{"background", `background = "not a color"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "theme.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := LoadTheme(path)
			assert.Error(t, err)
		})
	}
}

func TestTheme_MissingStylesheet(t *testing.T) {
	theme := DefaultTheme()
	theme.Stylesheets = []string{filepath.Join(t.TempDir(), "missing.css")}
	_, err := theme.Cascade()
	assert.Error(t, err)
}

func TestSaveTheme_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	want := DefaultTheme()
	want.Background = "blue"
	require.NoError(t, SaveTheme(path, want))

	got, err := LoadTheme(path)
	require.NoError(t, err)
	assert.Equal(t, want.Background, got.Background)
	assert.Equal(t, want.HFOV, got.HFOV)
}
