package resource

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads network URIs over HTTP/HTTPS and everything else
// from disk. Relative URIs resolve against the base, which is either a
// URL or a directory.
type DefaultFetcher struct {
	base   string
	client *http.Client
}

// NewFetcher creates a DefaultFetcher with the given base URL or
// directory.
func NewFetcher(base string) *DefaultFetcher {
	return &DefaultFetcher{base: base, client: defaultClient}
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	if IsNetworkURL(uri) {
		return get(ctx, f.client, uri)
	}
	if IsNetworkURL(f.base) {
		return get(ctx, f.client, ResolveURL(f.base, uri))
	}

	path := strings.TrimPrefix(uri, "file://")
	if !filepath.IsAbs(path) && f.base != "" {
		path = filepath.Join(f.base, path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return body, mime.TypeByExtension(filepath.Ext(path)), nil
}

// FetchText fetches a URI and returns its text content.
// Returns an error if the content type is not text.
func FetchText(ctx context.Context, f Fetcher, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for %s: %s", uri, contentType)
	}
	return string(body), nil
}
