package resource

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"livre3d/pkg/css"
	"livre3d/pkg/engine"
	"livre3d/pkg/html"
	"livre3d/pkg/images"
	"livre3d/pkg/js"
	"livre3d/pkg/layout"
	"livre3d/pkg/render"
	"livre3d/pkg/text"
	"livre3d/pkg/viewport"
)

// PageOptions configures NewPage. Zero values pick the defaults.
type PageOptions struct {
	Fetcher     Fetcher
	Styles      *css.Cascade
	Fonts       text.FontConfig
	Concurrency int
	Logger      *zap.Logger
}

// Page is one live document: its layout tree, the frame driver that lays
// it out, the script engine bound to it and the loader feeding it.
type Page struct {
	Tree     *layout.Tree
	Viewport *viewport.Viewport
	Driver   *engine.Driver
	Measurer *text.Measurer
	Images   *images.Cache

	loader *Loader
	script *js.Engine
	log    *zap.Logger
}

// NewPage wires an empty page to vp.
func NewPage(vp *viewport.Viewport, opts PageOptions) *Page {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	styles := opts.Styles
	if styles == nil {
		styles = css.NewCascade()
	}
	fonts := opts.Fonts
	if fonts.Regular == "" {
		fonts = text.DefaultFontConfig()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher("")
	}

	p := &Page{
		Viewport: vp,
		Measurer: text.NewMeasurer(fonts),
		Images:   images.NewCache(),
		log:      log,
	}
	p.Tree = layout.NewTree(styles, vp, layout.WithTextMeasurer(p.Measurer), layout.WithLogger(log.Named("layout")))
	p.Driver = engine.New(p.Tree, vp, log)
	p.loader = NewLoader(fetcher, p.Images, p.Driver, log)
	if opts.Concurrency > 0 {
		p.loader.SetConcurrency(opts.Concurrency)
	}
	p.script = js.New(p.Tree, js.WithLogger(log), js.WithResizer(p.Driver))
	return p
}

// OpenURI fetches the document at src, a path or URL, and opens it in a
// new page. Without a fetcher in opts, relative references resolve
// against src.
func OpenURI(ctx context.Context, vp *viewport.Viewport, src string, opts PageOptions) (*Page, error) {
	markup, err := FetchText(ctx, NewFetcher(""), src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewFetcher(BaseOf(src))
	}
	p := NewPage(vp, opts)
	if err := p.Open(ctx, markup); err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return p, nil
}

// BaseOf is what relative references in the document at src resolve
// against: the URL itself or the file's directory.
func BaseOf(src string) string {
	if IsNetworkURL(src) {
		return src
	}
	return filepath.Dir(src)
}

// Open parses markup and brings the page to a settled state: the tree is
// built and laid out, document scripts run against it, then everything
// the markup and the scripts refer to is loaded and laid out.
//
// Script and resource failures are logged and do not fail Open.
func (p *Page) Open(ctx context.Context, markup string) error {
	doc, err := html.Parse(markup)
	if err != nil {
		return fmt.Errorf("parsing markup: %w", err)
	}
	if err := p.preloadFonts(ctx); err != nil {
		p.log.Debug("font preload failed, measuring with estimates", zap.Error(err))
	}

	pending, err := p.Tree.Build(doc)
	if err != nil {
		return fmt.Errorf("building tree: %w", err)
	}
	if err := p.Settle(ctx); err != nil {
		return err
	}

	if len(doc.Scripts) > 0 {
		if err := p.script.Execute(doc); err != nil {
			p.log.Warn("script failed", zap.Error(err))
		}
		pending = append(pending, p.script.TakePending()...)
	}

	if err := p.loader.Load(ctx, pending); err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.log.Warn("some resources did not load", zap.Error(err))
	}
	return p.Settle(ctx)
}

// Run executes a script against the page, loads what it queued and
// settles the layout.
func (p *Page) Run(ctx context.Context, src string) error {
	if err := p.script.Run(src); err != nil {
		return err
	}
	if err := p.loader.Load(ctx, p.script.TakePending()); err != nil && ctx.Err() != nil {
		return err
	}
	return p.Settle(ctx)
}

// Settle ticks the driver until no pass is pending.
func (p *Page) Settle(ctx context.Context) error {
	for {
		ran, err := p.Driver.Tick(ctx)
		if err != nil {
			return err
		}
		if !ran {
			return nil
		}
	}
}

// Resize changes the window size and lays the page out again.
func (p *Page) Resize(ctx context.Context, width, height float64) error {
	p.Driver.Resize(width, height)
	return p.Settle(ctx)
}

// NewRenderer returns a renderer sized to the window that shares the
// page's font and image caches.
func (p *Page) NewRenderer() *render.Renderer {
	return render.NewRenderer(int(p.Viewport.Width()), int(p.Viewport.Height()),
		render.WithMeasurer(p.Measurer),
		render.WithImageCache(p.Images),
		render.WithLogger(p.log),
	)
}

func (p *Page) preloadFonts(ctx context.Context) error {
	size := 16.0
	return p.loader.Preload(ctx, p.Measurer,
		text.Face{Family: "sans-serif", Size: size},
		text.Face{Family: "sans-serif", Size: size, Bold: true},
	)
}
