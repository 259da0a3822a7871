// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bloomfilter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/zeebo/errs"

	"storj.io/kmerdecon/internal/fpath"
)

// Format is the persisted filter layout version.
type Format int

const (
	// FormatV1 is the legacy two field sidecar.
	FormatV1 Format = 1
	// FormatV2 is the six field sidecar written by this package.
	FormatV2 Format = 2

	fieldsV1 = 2
	fieldsV2 = 6
)

// ParamsExt is the file name suffix of the sidecar.
const ParamsExt = ".params"

// ParamsPath returns the sidecar path for a filter payload path.
func ParamsPath(path string) string { return path + ParamsExt }

func payloadBytes(bits uint64) uint64 { return (bits + 7) / 8 }

// Format returns the format the filter is persisted in, which follows from
// its hash scheme.
func (filter *Filter) Format() Format {
	if filter.scheme == SchemeSHA256 {
		return FormatV1
	}
	return FormatV2
}

// Save writes the payload to path and the sidecar to ParamsPath(path). Each
// file is replaced atomically.
func (filter *Filter) Save(path string) error {
	err := fpath.AtomicWriteFile(path, 0644, func(w io.Writer) error {
		_, err := filter.WritePayload(w)
		return err
	})
	if err != nil {
		return ErrInput.Wrap(err)
	}

	err = fpath.AtomicWriteFile(ParamsPath(path), 0644, filter.writeParams)
	if err != nil {
		return ErrInput.Wrap(err)
	}
	return nil
}

// WritePayload writes the packed bit array, most significant bit first.
func (filter *Filter) WritePayload(w io.Writer) (int64, error) {
	payload := make([]byte, payloadBytes(filter.params.Size))
	for i, ok := filter.bits.NextSet(0); ok; i, ok = filter.bits.NextSet(i + 1) {
		payload[i>>3] |= 0x80 >> (i & 7)
	}
	n, err := w.Write(payload)
	return int64(n), err
}

func (filter *Filter) writeParams(w io.Writer) error {
	params := filter.params
	fields := []string{
		strconv.FormatUint(params.Size, 10),
		strconv.Itoa(params.HashCount),
	}
	if filter.Format() == FormatV2 {
		fields = append(fields,
			strconv.FormatInt(params.ExpectedElements, 10),
			strconv.FormatFloat(params.FalsePositiveRate, 'g', -1, 64),
			strconv.Itoa(params.KmerLength),
			strconv.FormatUint(params.Size, 10),
		)
	}
	_, err := io.WriteString(w, strings.Join(fields, "\n")+"\n")
	return err
}

// Load reads a filter persisted with Save.
func Load(path string) (_ *Filter, err error) {
	params, format, exactBits, err := loadParams(ParamsPath(path))
	if err != nil {
		return nil, err
	}

	scheme := SchemeBLAKE3
	if format == FormatV1 {
		scheme = SchemeSHA256
	}
	if err := params.Check(); err != nil {
		return nil, err
	}
	if exactBits != params.Size {
		return nil, ErrFormat.New("%s: exact bit length %d does not match size %d",
			ParamsPath(path), exactBits, params.Size)
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, openError(err)
	}
	defer func() { err = errs.Combine(err, fh.Close()) }()

	bits, err := readPayload(bufio.NewReader(fh), exactBits)
	if err != nil {
		return nil, ErrFormat.New("%s: %v", path, err)
	}

	return &Filter{
		params: params,
		scheme: scheme,
		bits:   bits,
	}, nil
}

func openError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrInput.New("filter artifact missing: %v", err)
	}
	return ErrInput.Wrap(err)
}

// readPayload reads exactly the bytes covering exactBits and discards the
// padding bits of the last byte.
func readPayload(r io.Reader, exactBits uint64) (*bitset.BitSet, error) {
	want := payloadBytes(exactBits)
	payload := make([]byte, want)
	if n, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("payload has %d bytes, want %d", n, want)
	}
	if n, _ := io.Copy(io.Discard, r); n > 0 {
		return nil, fmt.Errorf("payload has %d trailing bytes", n)
	}

	bits := bitset.New(uint(exactBits))
	for byteIdx, b := range payload {
		if b == 0 {
			continue
		}
		for bit := uint64(0); bit < 8; bit++ {
			i := uint64(byteIdx)*8 + bit
			if i >= exactBits {
				break
			}
			if b&(0x80>>bit) != 0 {
				bits.Set(uint(i))
			}
		}
	}
	return bits, nil
}

func loadParams(path string) (params Params, format Format, exactBits uint64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, 0, 0, openError(err)
	}

	fields := strings.Fields(string(bytes.TrimSpace(data)))
	lines := strings.Split(string(bytes.TrimSpace(data)), "\n")
	if len(fields) != len(lines) {
		return Params{}, 0, 0, ErrFormat.New("%s: expected one field per line", path)
	}

	p := fieldParser{path: path, fields: fields}
	switch len(fields) {
	case fieldsV1:
		format = FormatV1
		params.Size = p.parseUint(0, "size")
		params.HashCount = p.parseInt(1, "hash_count")
		exactBits = params.Size
	case fieldsV2:
		format = FormatV2
		params.Size = p.parseUint(0, "size")
		params.HashCount = p.parseInt(1, "hash_count")
		params.ExpectedElements = int64(p.parseInt(2, "expected_elements"))
		params.FalsePositiveRate = p.parseFloat(3, "false_positive_rate")
		params.KmerLength = p.parseInt(4, "kmer_length")
		exactBits = p.parseUint(5, "exact_bit_length")
		if p.err == nil && params.ExpectedElements <= 0 {
			p.fail("expected_elements", fmt.Errorf("must be positive, got %d", params.ExpectedElements))
		}
		if p.err == nil && !(params.FalsePositiveRate > 0 && params.FalsePositiveRate < 1) {
			p.fail("false_positive_rate", fmt.Errorf("must be within (0, 1), got %v", params.FalsePositiveRate))
		}
	default:
		return Params{}, 0, 0, ErrFormat.New("%s: unsupported filter format with %d fields", path, len(fields))
	}
	if p.err != nil {
		return Params{}, 0, 0, p.err
	}
	return params, format, exactBits, nil
}

// fieldParser parses sidecar fields, keeping the first error.
type fieldParser struct {
	path   string
	fields []string
	err    error
}

func (p *fieldParser) fail(name string, err error) {
	if p.err == nil {
		p.err = ErrFormat.New("%s: field %s: %v", p.path, name, err)
	}
}

func (p *fieldParser) parseUint(i int, name string) uint64 {
	v, err := strconv.ParseUint(p.fields[i], 10, 64)
	if err != nil {
		p.fail(name, err)
	}
	return v
}

func (p *fieldParser) parseInt(i int, name string) int {
	v, err := strconv.ParseInt(p.fields[i], 10, 0)
	if err != nil {
		p.fail(name, err)
	}
	return int(v)
}

func (p *fieldParser) parseFloat(i int, name string) float64 {
	v, err := strconv.ParseFloat(p.fields[i], 64)
	if err != nil {
		p.fail(name, err)
	}
	return v
}
