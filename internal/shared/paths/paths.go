package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultPrefix names result files when no prefix is configured.
const DefaultPrefix = "go"

// File suffixes
const (
	CSVExt  = ".csv"
	GzipExt = ".gz"
	JSONExt = ".json"
)

// Output resolves result file names inside one directory.
type Output struct {
	Dir    string
	Prefix string
}

// NewOutput returns an Output, falling back to DefaultPrefix.
func NewOutput(dir, prefix string) Output {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Output{Dir: dir, Prefix: prefix}
}

// Table returns the CSV path for a named table.
func (o Output) Table(name string, compressed bool) string {
	file := fmt.Sprintf("%s_%s%s", o.Prefix, name, CSVExt)
	if compressed {
		file += GzipExt
	}
	return filepath.Join(o.Dir, file)
}

// Summary returns the dataset summary JSON path.
func (o Output) Summary() string {
	return filepath.Join(o.Dir, o.Prefix+"_summary"+JSONExt)
}

// Metrics returns the performance metrics JSON path.
func (o Output) Metrics() string {
	return filepath.Join(o.Dir, o.Prefix+"_metrics"+JSONExt)
}

// IsGzip reports whether path names a gzip-compressed file.
func IsGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), GzipExt)
}

// ValidatePrefix checks a result prefix is usable inside a file name.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix cannot be empty")
	}
	if strings.ContainsAny(prefix, `/\`) || filepath.Clean(prefix) != prefix || prefix == ".." {
		return fmt.Errorf("prefix %q contains path components", prefix)
	}
	return nil
}
