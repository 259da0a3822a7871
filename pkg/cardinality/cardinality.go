// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package cardinality estimates the number of distinct items in a stream.
package cardinality

import (
	"github.com/axiomhq/hyperloglog"
)

// Estimator counts distinct items approximately.
type Estimator interface {
	// Add records an item. The item may be reused by the caller afterwards.
	Add(item []byte)
	// Estimate returns the approximate number of distinct items added.
	Estimate() uint64
}

// HyperLogLog is an Estimator with a relative standard error of about 0.8%
// using 16 KiB of registers.
type HyperLogLog struct {
	sketch *hyperloglog.Sketch
}

// NewHyperLogLog returns an empty estimator.
func NewHyperLogLog() *HyperLogLog {
	return &HyperLogLog{sketch: hyperloglog.New14()}
}

// Add implements Estimator.
func (hll *HyperLogLog) Add(item []byte) {
	hll.sketch.Insert(item)
}

// Estimate implements Estimator.
func (hll *HyperLogLog) Estimate() uint64 {
	return hll.sketch.Estimate()
}
