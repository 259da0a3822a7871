// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package seqio

import (
	"bufio"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/zeebo/errs"
)

// fastaWidth is the line width of written FASTA sequences.
const fastaWidth = 60

type writer struct {
	format   Format
	buf      *bufio.Writer
	fasta    *fasta.Writer
	fastq    *fastq.Writer
	finalize func() error
}

// NewWriter returns a writer of format records into w, compressed with
// compression. Closing the writer flushes it but does not close w.
func NewWriter(w io.Writer, format Format, compression Compression) (Writer, error) {
	cw, finalize, err := compress(w, compression)
	if err != nil {
		return nil, err
	}

	out := &writer{
		format:   format,
		buf:      bufio.NewWriter(cw),
		finalize: finalize,
	}
	switch format {
	case FASTA:
		out.fasta = fasta.NewWriter(out.buf, fastaWidth)
	case FASTQ:
		out.fastq = fastq.NewWriter(out.buf)
	default:
		return nil, Error.New("unsupported output format %v", format)
	}
	return out, nil
}

// Write implements Writer.
func (w *writer) Write(record Record) error {
	var s seq.Sequence
	var err error
	switch w.format {
	case FASTQ:
		s, err = toQSeq(record)
		if err == nil {
			_, err = w.fastq.Write(s)
		}
	default:
		_, err = w.fasta.Write(toSeq(record))
	}
	return Error.Wrap(err)
}

// Close implements Writer.
func (w *writer) Close() error {
	return Error.Wrap(errs.Combine(w.buf.Flush(), w.finalize()))
}

func toSeq(record Record) *linear.Seq {
	s := linear.NewSeq(record.ID, alphabet.BytesToLetters(record.Seq), alphabet.DNAredundant)
	s.Desc = record.Desc
	return s
}

func toQSeq(record Record) (*linear.QSeq, error) {
	if len(record.Qual) != len(record.Seq) {
		return nil, Error.New("record %q has %d bases but %d quality scores",
			record.ID, len(record.Seq), len(record.Qual))
	}
	letters := make([]alphabet.QLetter, len(record.Seq))
	for i := range letters {
		letters[i] = alphabet.QLetter{
			L: alphabet.Letter(record.Seq[i]),
			Q: alphabet.Sanger.DecodeToQphred(record.Qual[i]),
		}
	}
	s := linear.NewQSeq(record.ID, letters, alphabet.DNAredundant, alphabet.Sanger)
	s.Desc = record.Desc
	return s, nil
}
