// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bloomfilter

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"strconv"

	"github.com/zeebo/blake3"
)

// Scheme identifies the hash family used to derive bit indexes.
type Scheme uint8

const (
	// SchemeSHA256 is the FormatV1 family: SHA-256 over the item followed by
	// the decimal probe index, the digest read as a big-endian integer.
	SchemeSHA256 Scheme = 1
	// SchemeBLAKE3 is the FormatV2 family: BLAKE3 over the little-endian
	// uint32 probe index followed by the item, the first 8 digest bytes read
	// as a big-endian integer.
	SchemeBLAKE3 Scheme = 2
)

// String implements fmt.Stringer.
func (scheme Scheme) String() string {
	switch scheme {
	case SchemeSHA256:
		return "sha256"
	case SchemeBLAKE3:
		return "blake3"
	default:
		return "scheme(" + strconv.Itoa(int(scheme)) + ")"
	}
}

func (scheme Scheme) valid() bool {
	return scheme == SchemeSHA256 || scheme == SchemeBLAKE3
}

// index returns the bit index of item for the given probe in a filter of
// size bits.
func (scheme Scheme) index(item []byte, probe int, size uint64) uint64 {
	var stack [64]byte
	buf := stack[:0]

	switch scheme {
	case SchemeSHA256:
		buf = append(buf, item...)
		buf = strconv.AppendInt(buf, int64(probe), 10)
		sum := sha256.Sum256(buf)

		var digest, modulus big.Int
		digest.SetBytes(sum[:])
		modulus.SetUint64(size)
		return digest.Mod(&digest, &modulus).Uint64()

	default:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(probe))
		buf = append(buf, item...)
		sum := blake3.Sum256(buf)
		return binary.BigEndian.Uint64(sum[:8]) % size
	}
}
