// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

/*
Package decon builds contaminant filters from reference sequences and uses
them to classify sequencing reads.

Build streams a reference corpus into a freshly sized bloomfilter.Filter.
When the number of distinct k-mers is not known up front, the corpus is
streamed twice: once into a HyperLogLog estimator to size the filter and once
to insert the k-mers.

A Classifier computes, for every read and every filter of a set, the fraction
of the read's k-mers found in the filter. In filter mode a read is dropped as
soon as one fraction reaches the threshold; in statistics mode the fractions
are aggregated per input.
*/
package decon

import (
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
)

var (
	mon = monkit.Package()

	// Error is the error class for decontamination failures.
	Error = errs.Class("decon")
)
