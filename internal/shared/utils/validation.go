package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Sample size limits for benchmark requests
const (
	DefaultSampleSize = 10000
	MinSampleSize     = 1
	MaxSampleSize     = 50_000_000
)

// ParseSampleSize validates a sample_size query value.
// An empty value yields DefaultSampleSize.
func ParseSampleSize(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSampleSize, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("sample_size must be an integer, got %q", raw)
	}
	return n, ValidateRange("sample_size", n, MinSampleSize, MaxSampleSize)
}

// ValidateRange checks min <= n <= max.
func ValidateRange(field string, n, min, max int) error {
	if n < min || n > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", field, min, max, n)
	}
	return nil
}
