package visualtest

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"livre3d/pkg/resource"
	"livre3d/pkg/text"
	"livre3d/pkg/viewport"
)

// Scene is a document rendered at a fixed window size with the default
// camera: 100 world units across, 60 degrees, near at half of far.
type Scene struct {
	Markup string
	Width  int
	Height int
	// Base resolves relative resources. Empty means the working directory.
	Base string
	// Fonts defaults to the bundled fonts.
	Fonts text.FontConfig
}

// Render lays the scene out and renders its front view.
func (s Scene) Render(ctx context.Context) (image.Image, error) {
	vp := viewport.New(100, 60, 0.5)
	vp.Resize(float64(s.Width), float64(s.Height))

	page := resource.NewPage(vp, resource.PageOptions{
		Fetcher: resource.NewFetcher(s.Base),
		Fonts:   s.Fonts,
	})
	if err := page.Open(ctx, s.Markup); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	r := page.NewRenderer()
	if err := r.Render(page.Tree); err != nil {
		return nil, err
	}
	return r.Image(), nil
}

// RenderToFile renders the scene into a PNG at path, creating its
// directory.
func (s Scene) RenderToFile(ctx context.Context, path string) error {
	img, err := s.Render(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return SavePNG(img, path)
}

// Reftest renders test and reference at the same size and compares them.
func Reftest(ctx context.Context, test, reference Scene, opts CompareOptions) (*CompareResult, error) {
	got, err := test.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("test: %w", err)
	}
	want, err := reference.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	return Compare(got, want, opts)
}
