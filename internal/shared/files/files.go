// Package files wraps result and input file I/O: transparent gzip and JSON documents.
package files

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"

	"github.com/GriffinCanCode/etlbench/internal/shared/paths"
)

// Open opens path for reading, decompressing when it ends in .gz.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !paths.IsGzip(path) {
		return f, nil
	}

	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip %s: %w", path, err)
	}
	return &stackCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
}

// Create creates path for writing, compressing when compress is set.
func Create(path string, compress bool) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !compress {
		return f, nil
	}

	zw := gzip.NewWriter(f)
	return &stackCloser{Writer: zw, closers: []io.Closer{zw, f}}, nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(path string, v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadJSON decodes the JSON document at path into v.
func ReadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, v)
}

// stackCloser closes layered streams innermost first and keeps the first error.
type stackCloser struct {
	io.Reader
	io.Writer
	closers []io.Closer
}

func (s *stackCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
