// Package art downloads and renders album art and avatars for the
// terminal. Fetched images are cached on disk by URL so a track change
// back to a recent song never re-downloads its cover.
package art

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/cache"
)

const (
	// maxImageBytes caps a single download. Discord CDN avatars and
	// Spotify covers are well under this.
	maxImageBytes = 4 << 20

	defaultFetchTimeout = 15 * time.Second

	// cacheTTL keeps fetched art for a day; CDN URLs are content-addressed
	// so staleness is not a concern, only disk usage.
	cacheTTL = 24 * time.Hour
)

// Fetcher downloads images over HTTP with a disk cache.
type Fetcher struct {
	client *http.Client
	store  *cache.Store
}

// NewFetcher creates a Fetcher. store may be nil to disable caching.
func NewFetcher(store *cache.Store) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: defaultFetchTimeout},
		store:  store,
	}
}

// Fetch downloads and decodes the image at url. Cached bytes are used
// when present; fresh downloads are stored before decoding.
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("art: empty url")
	}

	key := "art:" + url
	if f.store != nil {
		if data, ok := f.store.Get(key); ok {
			img, err := imaging.Decode(bytes.NewReader(data))
			if err == nil {
				return img, nil
			}
			// Cached bytes no longer decode; drop and refetch.
			f.store.Delete(key)
		}
	}

	data, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("art: decode %s: %w", url, err)
	}

	if f.store != nil {
		// Cache write failures are non-fatal; the image decoded fine.
		_ = f.store.PutWithTTL(key, data, cacheTTL)
	}
	return img, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("art: build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("art: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("art: fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("art: read %s: %w", url, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("art: %s exceeds %d byte limit", url, maxImageBytes)
	}
	return data, nil
}
