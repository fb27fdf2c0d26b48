// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import "errors"

// ErrBadResponse marks a model reply with no usable score array. The
// caller retries the batch before giving up on its events.
var ErrBadResponse = errors.New("unusable model response")
