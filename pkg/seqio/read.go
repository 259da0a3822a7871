// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package seqio

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	bioseqio "github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/zeebo/errs"
)

const sniffBytes = 4096

// FormatOf returns the format implied by the extension of path, ignoring a
// compression extension. It returns 0 for unknown extensions.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(TrimCompression(path))) {
	case ".fa", ".fasta", ".fna", ".fas", ".ffn", ".mfa":
		return FASTA
	case ".fq", ".fastq":
		return FASTQ
	default:
		return 0
	}
}

type reader struct {
	format  Format
	scanner *bioseqio.Scanner
	closers []func() error
}

// Open opens the sequence file at path.
func Open(path string) (_ Reader, err error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	r, err := newReader(fh, FormatOf(path))
	if err != nil {
		return nil, errs.Combine(err, fh.Close())
	}
	r.closers = append(r.closers, fh.Close)
	return r, nil
}

// NewReader returns a reader over r. Compression and format are detected from
// the content. Closing the reader does not close r.
func NewReader(r io.Reader) (Reader, error) {
	return newReader(r, 0)
}

func newReader(r io.Reader, fallback Format) (*reader, error) {
	raw, closeDecompressor, err := decompress(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(raw)

	format := sniffFormat(br)
	if format == 0 {
		format = fallback
	}

	var seqReader bioseqio.Reader
	switch format {
	case FASTQ:
		seqReader = fastq.NewReader(br, linear.NewQSeq("", nil, alphabet.DNAredundant, alphabet.Sanger))
	case FASTA, 0:
		format = FASTA
		seqReader = fasta.NewReader(br, linear.NewSeq("", nil, alphabet.DNAredundant))
	}

	return &reader{
		format:  format,
		scanner: bioseqio.NewScanner(seqReader),
		closers: []func() error{closeDecompressor},
	}, nil
}

// sniffFormat looks at the first non-blank byte of the input.
func sniffFormat(br *bufio.Reader) Format {
	head, _ := br.Peek(sniffBytes)
	head = bytes.TrimLeft(head, " \t\r\n")
	if len(head) == 0 {
		return 0
	}
	switch head[0] {
	case '>':
		return FASTA
	case '@':
		return FASTQ
	default:
		return 0
	}
}

// Format implements Reader.
func (r *reader) Format() Format { return r.format }

// Read implements Reader.
func (r *reader) Read() (Record, error) {
	if !r.scanner.Next() {
		if err := r.scanner.Error(); err != nil {
			return Record{}, Error.Wrap(err)
		}
		return Record{}, io.EOF
	}
	return toRecord(r.scanner.Seq())
}

// Close implements Reader.
func (r *reader) Close() error {
	var group errs.Group
	for _, fn := range r.closers {
		group.Add(fn())
	}
	return group.Err()
}

func toRecord(sequence seq.Sequence) (Record, error) {
	switch s := sequence.(type) {
	case *linear.Seq:
		record := Record{ID: s.ID, Desc: s.Desc, Seq: make([]byte, len(s.Seq))}
		for i, l := range s.Seq {
			record.Seq[i] = byte(l)
		}
		return record, nil
	case *linear.QSeq:
		record := Record{
			ID:   s.ID,
			Desc: s.Desc,
			Seq:  make([]byte, len(s.Seq)),
			Qual: make([]byte, len(s.Seq)),
		}
		for i, ql := range s.Seq {
			record.Seq[i] = byte(ql.L)
			record.Qual[i] = ql.Q.Encode(s.Encode)
		}
		return record, nil
	default:
		return Record{}, Error.New("unexpected sequence type %T", sequence)
	}
}
