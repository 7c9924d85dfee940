package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrInvalidDataURI is returned for data URIs that cannot be decoded.
var ErrInvalidDataURI = errors.New("invalid data URI")

// Cache keeps decoded images by the URI they were loaded from.
type Cache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

func NewCache() *Cache {
	return &Cache{images: make(map[string]image.Image)}
}

// Get returns a cached image.
func (c *Cache) Get(uri string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[uri]
	return img, ok
}

// Load decodes a data URI or a file from disk, caching the result.
func (c *Cache) Load(uri string) (image.Image, error) {
	if img, ok := c.Get(uri); ok {
		return img, nil
	}

	var img image.Image
	var err error
	if IsDataURI(uri) {
		img, err = DecodeDataURI(uri)
	} else {
		img, err = loadFile(uri)
	}
	if err != nil {
		return nil, err
	}
	return c.put(uri, img), nil
}

// Decode decodes fetched bytes and caches them under uri.
func (c *Cache) Decode(uri string, data []byte) (image.Image, error) {
	if img, ok := c.Get(uri); ok {
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", uri, err)
	}
	return c.put(uri, img), nil
}

// put stores img unless another goroutine got there first, and returns
// the cached one.
func (c *Cache) put(uri string, img image.Image) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.images[uri]; ok {
		return existing
	}
	c.images[uri] = img
	return img
}

func loadFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// IsDataURI reports whether uri carries its payload inline.
func IsDataURI(uri string) bool {
	return strings.HasPrefix(uri, "data:")
}

// DecodeDataURI decodes a base64 or percent-encoded data URI.
func DecodeDataURI(uri string) (image.Image, error) {
	if !IsDataURI(uri) {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}

	var data []byte
	var err error
	if strings.HasSuffix(header, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return img, nil
}
