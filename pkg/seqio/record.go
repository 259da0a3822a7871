// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package seqio reads and writes FASTA and FASTQ records, optionally gzip or
// zstd compressed.
package seqio

import (
	"io"

	"github.com/zeebo/errs"
)

// Error is the error class for sequence input and output.
var Error = errs.Class("seqio")

// Format is a sequence file format.
type Format int

const (
	// FASTA records carry an identifier and a sequence.
	FASTA Format = iota + 1
	// FASTQ records additionally carry a quality string.
	FASTQ
)

// String implements fmt.Stringer.
func (format Format) String() string {
	switch format {
	case FASTA:
		return "fasta"
	case FASTQ:
		return "fastq"
	default:
		return "unknown"
	}
}

// Record is a single sequence.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
	// Qual holds the Sanger encoded quality of every base, nil for FASTA.
	Qual []byte
}

// Reader reads records. Read returns io.EOF after the last record.
type Reader interface {
	Read() (Record, error)
	Format() Format
	Close() error
}

// Writer writes records.
type Writer interface {
	Write(Record) error
	Close() error
}

// Source opens a fresh reader over the same records on every call.
type Source interface {
	Open() (Reader, error)
}

// ReadAll reads the remaining records of r.
func ReadAll(r Reader) ([]Record, error) {
	var records []Record
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}
