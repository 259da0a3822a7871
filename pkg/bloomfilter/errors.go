// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bloomfilter

import "github.com/zeebo/errs"

// Error classes shared by the filter build and classification steps.
var (
	// ErrConfig is returned for invalid parameters such as rates, sizes or thresholds.
	ErrConfig = errs.Class("configuration error")
	// ErrInput is returned when an input or a persisted artifact is missing or empty.
	ErrInput = errs.Class("input error")
	// ErrFormat is returned for corrupt or truncated persisted filters.
	ErrFormat = errs.Class("format error")
	// ErrDegenerate is returned for filters without bits or hash functions.
	ErrDegenerate = errs.Class("degenerate filter")
)
