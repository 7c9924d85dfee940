package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	userAgent = "livre3d/0.1"

	// maxBodySize bounds a single network resource.
	maxBodySize = 64 << 20
)

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// StatusError is returned for a response outside 2xx.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// get fetches rawURL and returns the body with its Content-Type.
func get(ctx context.Context, client *http.Client, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("GET %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, "", &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, "", fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if len(body) > maxBodySize {
		return nil, "", fmt.Errorf("GET %s: body exceeds %d bytes", rawURL, maxBodySize)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// ResolveURL resolves ref against base. Either failing to parse leaves
// ref unchanged.
func ResolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// IsNetworkURL reports whether s has an http or https scheme.
func IsNetworkURL(s string) bool {
	scheme, _, ok := strings.Cut(s, "://")
	if !ok {
		return false
	}
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}
