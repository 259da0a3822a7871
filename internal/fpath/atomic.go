// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package fpath contains file helpers shared by the commands and the filter
// persistence.
package fpath

import (
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/errs"
)

// Error is the error class for file helpers.
var Error = errs.Class("fpath")

// AtomicWriteFile writes the output of write into a temporary file next to
// outfile and renames it into place once it was synced. Readers never observe
// a partially written outfile.
func AtomicWriteFile(outfile string, mode os.FileMode, write func(w io.Writer) error) (err error) {
	fh, err := os.CreateTemp(filepath.Dir(outfile), "."+filepath.Base(outfile)+".*")
	if err != nil {
		return Error.Wrap(err)
	}
	defer func() {
		if err != nil {
			err = errs.Combine(err, fh.Close())
			err = errs.Combine(err, os.Remove(fh.Name()))
		}
	}()
	if err := write(fh); err != nil {
		return Error.Wrap(err)
	}
	if err := fh.Chmod(mode); err != nil {
		return Error.Wrap(err)
	}
	if err := fh.Sync(); err != nil {
		return Error.Wrap(err)
	}
	if err := fh.Close(); err != nil {
		return Error.Wrap(err)
	}
	if err := os.Rename(fh.Name(), outfile); err != nil {
		return Error.Wrap(err)
	}
	return nil
}

// AtomicWrite writes data to outfile using AtomicWriteFile.
func AtomicWrite(outfile string, mode os.FileMode, data []byte) error {
	return AtomicWriteFile(outfile, mode, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
