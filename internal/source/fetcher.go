// Package source fetches the raw CSV bodies the dataset is built from. A location
// is either an http(s) URL or a path on the local filesystem.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ting0602/trackchart/internal/tracklog"
)

const (
	DefaultConcurrency = 4
	DefaultTimeout     = 60 * time.Second
)

// Fetcher downloads several locations concurrently.
type Fetcher struct {
	client *http.Client
	cache  *Cache
	sem    *semaphore.Weighted
}

// NewFetcher returns a Fetcher running at most concurrency requests at once. A nil
// cache disables caching; a non-positive concurrency picks a default.
func NewFetcher(cache *Cache, concurrency int, timeout time.Duration) *Fetcher {
	if concurrency < 1 {
		concurrency = min(DefaultConcurrency, runtime.GOMAXPROCS(0))
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tracklog.Logger.Debugf("Source fetch concurrency: %d, timeout %s", concurrency, timeout)

	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		cache:  cache,
		sem:    semaphore.NewWeighted(int64(concurrency)),
	}
}

// IsRemote reports whether loc is fetched over HTTP.
func IsRemote(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Fetch returns the body of every location, in argument order. The first failure
// cancels the outstanding fetches and is returned.
func (f *Fetcher) Fetch(ctx context.Context, locations []string) ([][]byte, error) {
	bodies := make([][]byte, len(locations))
	g, gctx := errgroup.WithContext(ctx)

	for i, loc := range locations {
		g.Go(func() error {
			if err := f.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer f.sem.Release(1)

			body, err := f.fetchOne(gctx, loc)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", loc, err)
			}
			bodies[i] = body
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bodies, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, loc string) ([]byte, error) {
	if !IsRemote(loc) {
		path := filepath.Clean(strings.TrimPrefix(loc, "file://"))
		tracklog.Logger.Debugf("Reading local source %s", path)
		// #nosec G304
		return os.ReadFile(path)
	}

	if body, ok := f.cache.Load(loc); ok {
		tracklog.Logger.Infof("Serving %s from cache", loc)
		return body, nil
	}

	body, err := f.get(ctx, loc)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Store(loc, body); err != nil {
		tracklog.Logger.Warnf("Not caching %s: %v", loc, err)
	}
	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	tracklog.Logger.Infof("Downloaded %s (%d bytes) in %s", url, len(body), time.Since(start))
	return body, nil
}
