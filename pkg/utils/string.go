// Package utils provides common utility functions.
package utils

import "strings"

const bom = "\uFEFF"

// TrimWhitespace removes leading and trailing whitespace.
func TrimWhitespace(str string) string {
	return strings.TrimSpace(str)
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// StripBOM removes a leading UTF-8 byte order mark.
func StripBOM(str string) string {
	return strings.TrimPrefix(str, bom)
}

// HeaderKey folds a header cell for case-insensitive matching: byte order
// mark stripped, whitespace collapsed, lowercased.
func HeaderKey(str string) string {
	return strings.ToLower(NormalizeWhitespace(StripBOM(str)))
}

// TruncateString truncates string to max length in runes.
func TruncateString(str string, maxLength int) string {
	runes := []rune(str)
	if len(runes) <= maxLength {
		return str
	}

	return string(runes[:maxLength]) + "..."
}
