// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

const fixtureBody = "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"

func feedConfig(url, cacheDir string) types.FeedConfig {
	return types.FeedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "sched-scorer-test/0.1",
		},
		URL:      url,
		CacheDir: cacheDir,
		MaxAge:   24 * time.Hour,
	}
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if got := r.Header.Get("User-Agent"); got != "sched-scorer-test/0.1" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte(fixtureBody))
	}))
	defer ts.Close()

	cfg := feedConfig(ts.URL, t.TempDir())

	data, fromCache, err := Fetch(context.Background(), ts.Client(), cfg, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if fromCache {
		t.Error("first fetch reported fromCache = true")
	}
	if string(data) != fixtureBody {
		t.Errorf("data = %q, want fixture body", data)
	}
	if _, err := os.Stat(CachePath(cfg)); err != nil {
		t.Errorf("cache file missing: %v", err)
	}

	// Second call within MaxAge must not hit the network.
	data, fromCache, err = Fetch(context.Background(), ts.Client(), cfg, false)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if !fromCache {
		t.Error("second fetch reported fromCache = false")
	}
	if string(data) != fixtureBody {
		t.Errorf("cached data = %q", data)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server calls = %d, want 1", n)
	}
}

func TestFetchForceRefreshBypassesFreshCache(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(fixtureBody))
	}))
	defer ts.Close()

	cfg := feedConfig(ts.URL, t.TempDir())

	if _, _, err := Fetch(context.Background(), ts.Client(), cfg, false); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	_, fromCache, err := Fetch(context.Background(), ts.Client(), cfg, true)
	if err != nil {
		t.Fatalf("forced Fetch: %v", err)
	}
	if fromCache {
		t.Error("forced fetch reported fromCache = true")
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("server calls = %d, want 2", n)
	}
}

func TestFetchExpiredCacheRedownloads(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(fixtureBody))
	}))
	defer ts.Close()

	cfg := feedConfig(ts.URL, t.TempDir())

	// Seed an expired cache file.
	if err := os.WriteFile(CachePath(cfg), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-25 * time.Hour)
	if err := os.Chtimes(CachePath(cfg), old, old); err != nil {
		t.Fatal(err)
	}

	data, fromCache, err := Fetch(context.Background(), ts.Client(), cfg, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if fromCache {
		t.Error("expired cache reported fromCache = true")
	}
	if string(data) != fixtureBody {
		t.Errorf("data = %q, want fresh body", data)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server calls = %d, want 1", n)
	}
}

func TestFetchFreshCacheSkipsNetwork(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(fixtureBody))
	}))
	defer ts.Close()

	cfg := feedConfig(ts.URL, t.TempDir())
	if err := os.WriteFile(CachePath(cfg), []byte("fresh enough"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, fromCache, err := Fetch(context.Background(), ts.Client(), cfg, false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !fromCache {
		t.Error("fromCache = false, want true")
	}
	if string(data) != "fresh enough" {
		t.Errorf("data = %q", data)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("server calls = %d, want 0", n)
	}
}

func TestFetchHTTPFailureWrapsErrFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cfg := feedConfig(ts.URL, t.TempDir())
	_, _, err := Fetch(context.Background(), ts.Client(), cfg, false)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("err = %v, want ErrFetch", err)
	}
}

func TestFetchNetworkFailureWrapsErrFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	ts.Close() // server down

	cfg := feedConfig(ts.URL, t.TempDir())
	_, _, err := Fetch(context.Background(), http.DefaultClient, cfg, false)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("err = %v, want ErrFetch", err)
	}
}

func TestFetchFailureLeavesStaleCacheIntact(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	cfg := feedConfig(ts.URL, t.TempDir())
	if err := os.WriteFile(CachePath(cfg), []byte("stale but usable"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(CachePath(cfg), old, old); err != nil {
		t.Fatal(err)
	}

	_, _, err := Fetch(context.Background(), ts.Client(), cfg, false)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}

	// The stale copy must survive for the caller's fallback decision.
	data, err := ReadCached(cfg)
	if err != nil {
		t.Fatalf("ReadCached: %v", err)
	}
	if string(data) != "stale but usable" {
		t.Errorf("stale cache = %q", data)
	}
}

func TestFetchLeavesNoTempFiles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(fixtureBody))
	}))
	defer ts.Close()

	cacheDir := t.TempDir()
	cfg := feedConfig(ts.URL, cacheDir)
	if _, _, err := Fetch(context.Background(), ts.Client(), cfg, false); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	leftovers, err := filepath.Glob(filepath.Join(cacheDir, ".feed-*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}
