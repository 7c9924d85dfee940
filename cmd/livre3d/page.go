package main

import (
	"context"

	"livre3d/pkg/resource"
)

// openPage opens the document at src, a path or URL, in a window of the
// configured size.
func (a *app) openPage(ctx context.Context, src string) (*resource.Page, error) {
	styles, err := a.theme.Cascade()
	if err != nil {
		return nil, err
	}
	opts := resource.PageOptions{
		Styles:      styles,
		Fonts:       a.theme.FontConfig(),
		Concurrency: a.cfg.Resource.Concurrency,
		Logger:      a.log,
	}
	if a.cfg.Resource.BaseDir != "" {
		opts.Fetcher = resource.NewFetcher(a.cfg.Resource.BaseDir)
	}
	vp := a.theme.Viewport(a.cfg.Viewport.Width, a.cfg.Viewport.Height)
	return resource.OpenURI(ctx, vp, src, opts)
}
