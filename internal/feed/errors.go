// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import "errors"

// Sentinel error kinds for this package. Callers classify failures with
// errors.Is: a fetch failure may be recovered by falling back to a stale
// cache, a parse failure never is.
var (
	// ErrFetch marks network or HTTP failures retrieving the feed.
	ErrFetch = errors.New("feed fetch failed")

	// ErrParse marks a feed that could not be turned into any usable
	// events. Individually malformed entries are skipped and logged
	// without raising it.
	ErrParse = errors.New("feed parse failed")
)
