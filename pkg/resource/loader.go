package resource

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"livre3d/pkg/engine"
	"livre3d/pkg/images"
	"livre3d/pkg/layout"
	"livre3d/pkg/text"
)

// DefaultConcurrency bounds the number of resources fetched at once.
const DefaultConcurrency = 4

// Poster receives loaded content. *engine.Driver implements it.
type Poster interface {
	Post(a engine.Arrival)
}

// Loader fetches the resources a build left pending and posts them to the
// frame goroutine as they complete.
type Loader struct {
	fetcher     Fetcher
	images      *images.Cache
	poster      Poster
	log         *zap.Logger
	concurrency int
}

// NewLoader creates a Loader. A nil cache gets a private one.
func NewLoader(f Fetcher, cache *images.Cache, p Poster, log *zap.Logger) *Loader {
	if cache == nil {
		cache = images.NewCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		fetcher:     f,
		images:      cache,
		poster:      p,
		log:         log.Named("resource"),
		concurrency: DefaultConcurrency,
	}
}

// SetConcurrency changes how many resources load at once.
func (l *Loader) SetConcurrency(n int) {
	if n > 0 {
		l.concurrency = n
	}
}

// Load fetches every pending resource. A resource that fails is logged
// and skipped; the others still arrive. The returned error joins the
// individual failures, or is the context error if loading was canceled.
func (l *Loader) Load(ctx context.Context, pending []layout.Pending) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	var mu sync.Mutex
	var failures []error

	for _, p := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := l.load(gctx, p)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				l.log.Warn("resource failed", zap.String("src", p.Src), zap.Error(err))
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			l.poster.Post(a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(failures...)
}

// LoadText fetches src and posts its words for parent.
func (l *Loader) LoadText(ctx context.Context, parent layout.NodeID, src string) error {
	return l.deliver(ctx, layout.Pending{Parent: parent, Src: src, Kind: layout.PendingText})
}

// LoadImage fetches and decodes src and posts an image leaf for parent.
func (l *Loader) LoadImage(ctx context.Context, parent layout.NodeID, src string) error {
	return l.deliver(ctx, layout.Pending{Parent: parent, Src: src, Kind: layout.PendingImage})
}

func (l *Loader) deliver(ctx context.Context, p layout.Pending) error {
	a, err := l.load(ctx, p)
	if err != nil {
		return err
	}
	l.poster.Post(a)
	return nil
}

func (l *Loader) load(ctx context.Context, p layout.Pending) (engine.Arrival, error) {
	switch p.Kind {
	case layout.PendingImage:
		img, err := l.loadImage(ctx, p.Src)
		if err != nil {
			return engine.Arrival{}, err
		}
		b := img.Bounds()
		return engine.Arrival{
			Parent:  p.Parent,
			Content: &layout.Image{Src: p.Src, Width: b.Dx(), Height: b.Dy()},
		}, nil
	case layout.PendingText:
		s, err := FetchText(ctx, l.fetcher, p.Src)
		if err != nil {
			return engine.Arrival{}, err
		}
		return engine.Arrival{Parent: p.Parent, Text: s}, nil
	}
	return engine.Arrival{}, fmt.Errorf("unknown pending kind %d for %s", p.Kind, p.Src)
}

func (l *Loader) loadImage(ctx context.Context, src string) (image.Image, error) {
	if images.IsDataURI(src) {
		return l.images.Load(src)
	}
	if img, ok := l.images.Get(src); ok {
		return img, nil
	}
	body, _, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return l.images.Decode(src, body)
}

// Preload loads font faces concurrently so the first layout pass does not
// stall on disk.
func (l *Loader) Preload(ctx context.Context, m *text.Measurer, faces ...text.Face) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for _, f := range faces {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := m.LoadFace(f); err != nil {
				return err
			}
			l.log.Debug("face loaded", zap.String("family", f.Family), zap.Float64("size", f.Size), zap.Bool("bold", f.Bold))
			return nil
		})
	}
	return g.Wait()
}
