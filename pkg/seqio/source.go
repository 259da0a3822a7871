// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package seqio

import (
	"io"
)

// File returns a Source reading the sequence file at path.
func File(path string) Source { return fileSource(path) }

type fileSource string

func (path fileSource) Open() (Reader, error) { return Open(string(path)) }

// Files returns a Source reading the files at paths one after another.
func Files(paths ...string) Source {
	sources := make([]Source, len(paths))
	for i, path := range paths {
		sources[i] = File(path)
	}
	return Concat(sources...)
}

// Concat returns a Source reading sources one after another.
func Concat(sources ...Source) Source { return multiSource(sources) }

type multiSource []Source

func (sources multiSource) Open() (Reader, error) {
	r := &multiReader{sources: sources}
	if err := r.next(); err != nil {
		return nil, err
	}
	return r, nil
}

type multiReader struct {
	sources []Source
	current Reader
	format  Format
}

func (r *multiReader) Format() Format {
	if r.format == 0 {
		return FASTA
	}
	return r.format
}

func (r *multiReader) Read() (Record, error) {
	for {
		if r.current == nil {
			if len(r.sources) == 0 {
				return Record{}, io.EOF
			}
			if err := r.next(); err != nil {
				return Record{}, err
			}
		}

		record, err := r.current.Read()
		if err != io.EOF {
			return record, err
		}
		if err := r.current.Close(); err != nil {
			return Record{}, err
		}
		r.current = nil
	}
}

// next opens the next source.
func (r *multiReader) next() error {
	if len(r.sources) == 0 {
		return nil
	}
	current, err := r.sources[0].Open()
	if err != nil {
		return err
	}
	r.sources = r.sources[1:]
	r.current = current
	if r.format == 0 {
		r.format = current.Format()
	}
	return nil
}

func (r *multiReader) Close() error {
	if r.current == nil {
		return nil
	}
	err := r.current.Close()
	r.current = nil
	return err
}

// Records returns a Source over records held in memory.
func Records(records ...Record) Source { return recordSource(records) }

type recordSource []Record

func (records recordSource) Open() (Reader, error) {
	format := FASTA
	if len(records) > 0 && records[0].Qual != nil {
		format = FASTQ
	}
	return &recordReader{records: records, format: format}, nil
}

type recordReader struct {
	records []Record
	format  Format
}

func (r *recordReader) Format() Format { return r.format }

func (r *recordReader) Read() (Record, error) {
	if len(r.records) == 0 {
		return Record{}, io.EOF
	}
	record := r.records[0]
	r.records = r.records[1:]
	// readers hand out records the caller may modify.
	record.Seq = append([]byte(nil), record.Seq...)
	return record, nil
}

func (r *recordReader) Close() error { return nil }
