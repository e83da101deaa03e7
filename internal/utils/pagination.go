// Package utils provides small helpers for query parsing and pagination that
// are shared by the HTTP handlers and the plan service.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 int, returning def when s is empty or
// not a valid integer. Surrounding whitespace is not trimmed.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Page normalizes a 1-based page request: page below 1 becomes 1, a
// non-positive size becomes def, and size is capped at maxSize when maxSize
// is positive. It returns the normalized values and the row offset.
func Page(page, size, def, maxSize int) (p, s, offset int) {
	p = max(page, 1)
	s = size
	if s <= 0 {
		s = def
	}
	if maxSize > 0 && s > maxSize {
		s = maxSize
	}
	return p, s, (p - 1) * s
}

// TotalPages is the number of pages of size needed for total rows.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
