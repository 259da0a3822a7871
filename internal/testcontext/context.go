// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package testcontext implements a test context with a scratch directory and
// goroutines that are waited for on cleanup.
package testcontext

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"storj.io/kmerdecon/pkg/seqio"
)

// Context is a context that has utility methods for testing and waiting for asynchronous errors.
type Context struct {
	context.Context

	group *errgroup.Group
	test  testing.TB

	once      sync.Once
	directory string
}

// New creates a new test context. Call Cleanup when the test finishes.
func New(test testing.TB) *Context {
	group, ctx := errgroup.WithContext(context.Background())
	return &Context{
		Context: ctx,
		group:   group,
		test:    test,
	}
}

// Go runs fn in a goroutine. Cleanup fails the test when fn fails.
func (ctx *Context) Go(fn func() error) {
	ctx.test.Helper()
	ctx.group.Go(fn)
}

// Dir returns a directory inside the scratch directory, creating it.
func (ctx *Context) Dir(subs ...string) string {
	ctx.test.Helper()

	ctx.once.Do(func() {
		var err error
		ctx.directory, err = os.MkdirTemp("", filepath.Base(ctx.test.Name()))
		if err != nil {
			ctx.test.Fatal(err)
		}
	})

	dir := filepath.Join(append([]string{ctx.directory}, subs...)...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		ctx.test.Fatal(err)
	}
	return dir
}

// File returns a path inside the scratch directory. Its parent is created,
// the file itself is not.
func (ctx *Context) File(subs ...string) string {
	ctx.test.Helper()

	if len(subs) == 0 {
		ctx.test.Fatal("expected more than one argument")
	}

	dir := ctx.Dir(subs[:len(subs)-1]...)
	return filepath.Join(dir, subs[len(subs)-1])
}

// WriteFile writes data into a file inside the scratch directory and returns
// its path.
func (ctx *Context) WriteFile(data []byte, subs ...string) string {
	ctx.test.Helper()

	path := ctx.File(subs...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		ctx.test.Fatal(err)
	}
	return path
}

// WriteRecords writes records in format into a file inside the scratch
// directory, compressed as its name implies, and returns its path.
func (ctx *Context) WriteRecords(format seqio.Format, records []seqio.Record, subs ...string) string {
	ctx.test.Helper()

	path := ctx.File(subs...)

	var buf bytes.Buffer
	w, err := seqio.NewWriter(&buf, format, seqio.CompressionOf(path))
	if err != nil {
		ctx.test.Fatal(err)
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			ctx.test.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		ctx.test.Fatal(err)
	}
	return ctx.WriteFile(buf.Bytes(), subs...)
}

// Cleanup waits for the goroutines started with Go, fails the test on their
// first error and removes the scratch directory.
func (ctx *Context) Cleanup() {
	ctx.test.Helper()

	defer ctx.deleteTemporary()
	if err := ctx.group.Wait(); err != nil {
		ctx.test.Fatal(err)
	}
}

func (ctx *Context) deleteTemporary() {
	if ctx.directory == "" {
		return
	}
	if err := os.RemoveAll(ctx.directory); err != nil {
		ctx.test.Fatal(err)
	}
}
