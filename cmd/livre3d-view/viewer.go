package main

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"go.uber.org/zap"

	"livre3d/internal/config"
	"livre3d/pkg/render"
	"livre3d/pkg/resource"
)

// viewer holds the open page. Loading runs on its own goroutine while
// fyne asks for frames on the render goroutine, so both go through mu.
type viewer struct {
	ctx   context.Context
	cfg   *config.Config
	theme config.Theme
	log   *zap.Logger

	mu       sync.Mutex
	page     *resource.Page
	renderer *render.Renderer
	size     image.Point
	last     image.Image
}

func newViewer(ctx context.Context, cfg *config.Config, theme config.Theme, log *zap.Logger) *viewer {
	return &viewer{
		ctx:   ctx,
		cfg:   cfg,
		theme: theme,
		log:   log.Named("view"),
		size:  image.Pt(int(cfg.Viewport.Width), int(cfg.Viewport.Height)),
	}
}

// open replaces the page with the document at src, laid out at the
// current window size.
func (v *viewer) open(src string) error {
	styles, err := v.theme.Cascade()
	if err != nil {
		return err
	}
	v.mu.Lock()
	size := v.size
	v.mu.Unlock()

	vp := v.theme.Viewport(float64(size.X), float64(size.Y))
	page, err := resource.OpenURI(v.ctx, vp, src, resource.PageOptions{
		Styles:      styles,
		Fonts:       v.theme.FontConfig(),
		Concurrency: v.cfg.Resource.Concurrency,
		Logger:      v.log,
	})
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = page
	v.renderer = nil
	if size != v.size {
		// The window changed while loading
		if err := page.Resize(v.ctx, float64(v.size.X), float64(v.size.Y)); err != nil {
			v.log.Warn("resize failed", zap.Error(err))
		}
	}
	return nil
}

// frame is the raster callback: it follows the window size, lays the
// page out again when the size changed and renders it.
func (v *viewer) frame(w, h int) image.Image {
	v.mu.Lock()
	defer v.mu.Unlock()

	if w <= 0 || h <= 0 {
		return blank(1, 1)
	}
	size := image.Pt(w, h)
	if size != v.size {
		v.size = size
		v.renderer = nil
		if v.page != nil {
			if err := v.page.Resize(v.ctx, float64(w), float64(h)); err != nil {
				// The driver restored the last good geometry
				v.log.Warn("layout after resize failed", zap.Int("width", w), zap.Int("height", h), zap.Error(err))
			}
		}
	}
	if v.page == nil {
		return blank(w, h)
	}

	if err := v.page.Settle(v.ctx); err != nil {
		v.log.Warn("layout failed", zap.Error(err))
	}
	if v.renderer == nil {
		v.renderer = v.page.NewRenderer()
	}
	if err := v.renderer.Render(v.page.Tree); err != nil {
		v.log.Error("render failed", zap.Error(err))
		if v.last != nil {
			return v.last
		}
		return blank(w, h)
	}
	v.last = v.renderer.Image()
	return v.last
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}
