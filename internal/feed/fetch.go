// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed downloads the conference ICS schedule and turns it into
// normalized, scorable events.
// See docs/ARCHITECTURE § Feed.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

// DefaultURL is the published schedule feed for the conference.
const DefaultURL = "https://kccnceu2026.sched.com/all.ics"

// DefaultMaxAge is how long a cached feed counts as fresh.
const DefaultMaxAge = 24 * time.Hour

const cacheFileName = "events.ics"

// CachePath returns the feed cache file location under cfg.CacheDir.
func CachePath(cfg types.FeedConfig) string {
	return filepath.Join(cfg.CacheDir, cacheFileName)
}

// Fetch returns the raw ICS feed. A cached copy younger than cfg.MaxAge
// (DefaultMaxAge when unset) is returned without network access unless
// forceRefresh is set; fromCache reports which path was taken. A fresh
// download replaces the cache atomically (write-to-temp, then rename).
// Network and HTTP failures wrap ErrFetch. Falling back to a stale cache
// after a failed download is the caller's decision, never a silent
// default here; see ReadCached.
func Fetch(ctx context.Context, client *http.Client, cfg types.FeedConfig, forceRefresh bool) (data []byte, fromCache bool, err error) {
	cachePath := CachePath(cfg)
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	if !forceRefresh {
		if info, statErr := os.Stat(cachePath); statErr == nil && time.Since(info.ModTime()) < maxAge {
			if cached, readErr := os.ReadFile(cachePath); readErr == nil {
				return cached, true, nil
			}
		}
	}

	data, err = download(ctx, client, cfg)
	if err != nil {
		return nil, false, err
	}
	if err := writeCache(cachePath, data); err != nil {
		return nil, false, err
	}
	return data, false, nil
}

// ReadCached returns the cache file contents regardless of age. Callers
// use it to fall back to a stale feed after a failed refresh.
func ReadCached(cfg types.FeedConfig) ([]byte, error) {
	return os.ReadFile(CachePath(cfg))
}

func download(ctx context.Context, client *http.Client, cfg types.FeedConfig) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "text/calendar")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d from %s", ErrFetch, resp.StatusCode, cfg.URL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrFetch, err)
	}
	return data, nil
}

// writeCache replaces the cache file via a temporary file so concurrent
// readers never observe a partial write.
func writeCache(destPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".feed-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing feed cache: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
