package text

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// LineHeight is the glyph box height as a multiple of the font size.
const LineHeight = 1.2

// FontConfig holds paths to font files used for text measurement and rendering.
type FontConfig struct {
	Regular string
	Bold    string
}

// defaultFontsDir returns the fonts directory next to the executable, or
// relative to this source file.
func defaultFontsDir() string {
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "..", "fonts")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "fonts")
}

// DefaultFontConfig returns a FontConfig using the bundled Atkinson Hyperlegible fonts.
func DefaultFontConfig() FontConfig {
	dir := defaultFontsDir()
	return FontConfig{
		Regular: filepath.Join(dir, "AtkinsonHyperlegible-Regular.ttf"),
		Bold:    filepath.Join(dir, "AtkinsonHyperlegible-Bold.ttf"),
	}
}

// FontPath returns the font path for the given weight.
func (fc FontConfig) FontPath(bold bool) string {
	if bold && fc.Bold != "" {
		return fc.Bold
	}
	return fc.Regular
}

// Face describes a font face. Size is in pixels.
type Face struct {
	Family string
	Size   float64
	Bold   bool
}

// IsBold reports whether a font-weight value selects the bold face.
func IsBold(weight string) bool {
	switch strings.TrimSpace(weight) {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

type faceKey struct {
	path string
	size float64
}

// Measurer measures glyph runs. Loaded faces are cached by font path and
// size and shared between goroutines.
type Measurer struct {
	fonts FontConfig

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

func NewMeasurer(fonts FontConfig) *Measurer {
	return &Measurer{fonts: fonts, faces: make(map[faceKey]font.Face)}
}

// Fonts returns the configured font paths.
func (m *Measurer) Fonts() FontConfig {
	return m.fonts
}

// LoadFace returns the cached face for f, loading it on first use.
func (m *Measurer) LoadFace(f Face) (font.Face, error) {
	key := faceKey{path: m.fonts.FontPath(f.Bold), size: f.Size}
	if key.path == "" {
		return nil, fmt.Errorf("no font configured for %+v", f)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if face, ok := m.faces[key]; ok {
		return face, nil
	}
	face, err := gg.LoadFontFace(key.path, key.size)
	if err != nil {
		return nil, fmt.Errorf("load font %s: %w", key.path, err)
	}
	m.faces[key] = face
	return face, nil
}

// Preload loads every face, stopping at the first failure.
func (m *Measurer) Preload(faces ...Face) error {
	for _, f := range faces {
		if _, err := m.LoadFace(f); err != nil {
			return err
		}
	}
	return nil
}

// Measure returns the width and height in pixels of s set in f. When the
// face cannot be loaded it falls back to Estimate.
func (m *Measurer) Measure(s string, f Face) (width, height float64) {
	face, err := m.LoadFace(f)
	if err != nil {
		return Estimate(s, f.Size)
	}
	m.mu.Lock()
	adv := font.MeasureString(face, s)
	m.mu.Unlock()
	return float64(adv) / 64, f.Size * LineHeight
}

// Estimate is the rough metric used when no font is available.
func Estimate(s string, size float64) (width, height float64) {
	return float64(len([]rune(s))) * size * 0.6, size * LineHeight
}
