// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

/*
Package bloomfilter implements the Bloom filter used to hold contaminant
k-mers, its sizing math and its on-disk format.

A filter is persisted as two files. The payload at the given path holds the
bit array packed most significant bit first and padded with zero bits to a
whole byte. The sidecar at path + ".params" holds one decimal field per line:

	size
	hash_count
	expected_elements
	false_positive_rate
	kmer_length
	exact_bit_length

The number of sidecar lines selects the format version. FormatV2 (six lines)
is written by this package and hashes with BLAKE3. FormatV1 (the first two
lines only) is the legacy layout, whose filters were hashed with
SHA-256 over the decimal probe index appended to the item. FormatV1 filters
can be loaded and queried so existing reference filters keep working.
*/
package bloomfilter
