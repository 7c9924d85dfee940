package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"livre3d/pkg/css"
	"livre3d/pkg/text"
	"livre3d/pkg/viewport"
)

// Theme is the scene setup read from a TOML file: camera, fonts and
// author stylesheets applied to every document.
type Theme struct {
	WorldWidth   float64    `toml:"world_width"`
	HFOV         float64    `toml:"hfov"`
	NearFarRatio float64    `toml:"near_far_ratio"`
	Background   string     `toml:"background"`
	Fonts        FontsTheme `toml:"fonts"`
	// Stylesheets are paths, relative to the theme file, of CSS added after
	// the user agent sheet.
	Stylesheets []string `toml:"stylesheets"`

	dir string
}

type FontsTheme struct {
	Regular string `toml:"regular"`
	Bold    string `toml:"bold"`
}

// DefaultTheme returns the camera used when no theme file is given.
func DefaultTheme() Theme {
	return Theme{
		WorldWidth:   100,
		HFOV:         60,
		NearFarRatio: 0.5,
	}
}

// LoadTheme reads a theme file over the defaults. An empty path returns
// the defaults.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if path == "" {
		return theme, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return theme, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &theme); err != nil {
		return theme, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	theme.dir = filepath.Dir(path)

	if err := theme.Validate(); err != nil {
		return theme, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}

// SaveTheme writes theme as TOML.
func SaveTheme(path string, theme Theme) error {
	data, err := toml.Marshal(theme)
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (t Theme) Validate() error {
	var errs []error
	if t.WorldWidth <= 0 {
		errs = append(errs, fmt.Errorf("world_width must be positive, got %g", t.WorldWidth))
	}
	if t.HFOV <= 0 || t.HFOV >= 180 {
		errs = append(errs, fmt.Errorf("hfov must be between 0 and 180 degrees, got %g", t.HFOV))
	}
	if t.NearFarRatio <= 0 || t.NearFarRatio >= 1 {
		errs = append(errs, fmt.Errorf("near_far_ratio must be between 0 and 1, got %g", t.NearFarRatio))
	}
	if t.Background != "" {
		if _, ok := css.ParseColor(t.Background); !ok {
			errs = append(errs, fmt.Errorf("background: invalid color %q", t.Background))
		}
	}
	return errors.Join(errs...)
}

// Viewport returns a viewport with the theme's camera and the given
// window size.
func (t Theme) Viewport(width, height float64) *viewport.Viewport {
	vp := viewport.New(t.WorldWidth, t.HFOV, t.NearFarRatio)
	vp.Resize(width, height)
	return vp
}

// FontConfig fills unset font paths from the bundled fonts.
func (t Theme) FontConfig() text.FontConfig {
	fc := text.DefaultFontConfig()
	if t.Fonts.Regular != "" {
		fc.Regular = t.resolve(t.Fonts.Regular)
	}
	if t.Fonts.Bold != "" {
		fc.Bold = t.resolve(t.Fonts.Bold)
	}
	return fc
}

// Cascade returns a cascade holding the user agent sheet, then the theme
// background, then the theme stylesheets in order.
func (t Theme) Cascade() (*css.Cascade, error) {
	c := css.NewCascade()
	if t.Background != "" {
		sheet, err := css.ParseStylesheet(fmt.Sprintf("body { background-color: %s; }", t.Background))
		if err != nil {
			return nil, fmt.Errorf("theme background: %w", err)
		}
		c.AddStylesheet(sheet)
	}
	for _, p := range t.Stylesheets {
		path := t.resolve(p)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("theme stylesheet: %w", err)
		}
		sheet, err := css.ParseStylesheet(string(data))
		if err != nil {
			return nil, fmt.Errorf("theme stylesheet %s: %w", path, err)
		}
		c.AddStylesheet(sheet)
	}
	return c, nil
}

func (t Theme) resolve(p string) string {
	if filepath.IsAbs(p) || t.dir == "" {
		return p
	}
	return filepath.Join(t.dir, p)
}
