// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import "errors"

// ErrBackend marks a batch whose scoring calls exhausted all retries.
// The batch's events are reported unscored; the run continues.
var ErrBackend = errors.New("scoring backend failed")
