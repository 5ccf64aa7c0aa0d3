// Package file appends predictions to an NDJSON file. Writes go through a
// bufio.Writer, so lines only hit disk on buffer fill or Close. Optional
// size-based rotation keeps a bounded history of older files.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/spendsort/internal/model"
	"github.com/crimson-sun/spendsort/internal/output"
)

const (
	defaultBufSize = 64 * 1024

	// keepRotated bounds the rotation history: prediction.ndjson.1 is the
	// newest rotated file, .10 the oldest, anything beyond is overwritten.
	keepRotated = 10
)

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize sets the file size in bytes at which the current file is
// rotated out. 0 (default) disables rotation.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithBufSize sets the write buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// Output appends one JSON-encoded prediction per line to a file.
type Output struct {
	mu        sync.Mutex
	buf       *bufio.Writer
	file      *os.File
	path      string
	verbosity output.Verbosity
	maxSize   int64 // 0 = no rotation
	size      int64 // current file size including buffered bytes
	bufSize   int
}

// New opens (or creates) the file at path for appending. An existing file
// counts toward the rotation threshold from its current size.
func New(path string, verbosity output.Verbosity, opts ...Option) (*Output, error) {
	o := &Output{
		path:      path,
		verbosity: verbosity,
		bufSize:   defaultBufSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.open(); err != nil {
		return nil, err
	}
	return o, nil
}

// Write appends the prediction as one NDJSON line, rotating first if the
// line would push the file past the size limit.
func (o *Output) Write(_ context.Context, pred model.Prediction) error {
	line, err := json.Marshal(output.FormatPrediction(pred, o.verbosity))
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.maxSize > 0 && o.size+int64(len(line)) > o.maxSize {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file output: rotate: %w", err)
		}
	}

	n, err := o.buf.Write(line)
	o.size += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Close flushes buffered lines and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.buf.Flush(); err != nil {
		o.file.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.file.Close()
}

func (o *Output) open() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.file = f
	o.buf = bufio.NewWriterSize(f, o.bufSize)
	o.size = info.Size()
	return nil
}

// rotate closes the current file, shifts the numbered history up by one
// ({path}.1 becomes {path}.2 and so on), renames the current file to
// {path}.1, and starts a fresh file.
func (o *Output) rotate() error {
	if err := o.buf.Flush(); err != nil {
		return err
	}
	if err := o.file.Close(); err != nil {
		return err
	}

	for i := keepRotated - 1; i >= 1; i-- {
		// Rename fails harmlessly when the slot doesn't exist yet.
		os.Rename(fmt.Sprintf("%s.%d", o.path, i), fmt.Sprintf("%s.%d", o.path, i+1))
	}
	if err := os.Rename(o.path, o.path+".1"); err != nil {
		return err
	}

	o.size = 0
	return o.open()
}
