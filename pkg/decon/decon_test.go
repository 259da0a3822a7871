// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package decon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/kmerdecon/pkg/bloomfilter"
	"storj.io/kmerdecon/pkg/kmer"
	"storj.io/kmerdecon/pkg/seqio"
)

// newFilter returns a filter sized for n k-mers holding every k-mer of seqs.
func newFilter(t *testing.T, n int64, k int, seqs ...string) *bloomfilter.Filter {
	t.Helper()

	filter, err := bloomfilter.NewOptimal(n, 0.001, k)
	require.NoError(t, err)
	for _, seq := range seqs {
		for m := range kmer.Generate([]byte(seq), k) {
			filter.Add(m)
		}
	}
	return filter
}

func fastq(id, seq string) seqio.Record {
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 'I'
	}
	return seqio.Record{ID: id, Seq: []byte(seq), Qual: qual}
}

// recordWriter collects written records.
type recordWriter struct {
	records []seqio.Record
	closed  bool
}

func (w *recordWriter) Write(record seqio.Record) error {
	w.records = append(w.records, record)
	return nil
}

func (w *recordWriter) Close() error {
	w.closed = true
	return nil
}

func (w *recordWriter) ids() []string {
	ids := []string{}
	for _, record := range w.records {
		ids = append(ids, record.ID)
	}
	return ids
}

func open(t *testing.T, records ...seqio.Record) seqio.Reader {
	t.Helper()

	r, err := seqio.Records(records...).Open()
	require.NoError(t, err)
	return r
}
