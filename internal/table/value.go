// Package table provides the in-memory tabular value the pipeline stages pass along.
package table

import (
	"strconv"
	"strings"
)

// Kind identifies what a Value holds.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindNumber
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a single immutable cell.
type Value struct {
	text string
	num  float64
	kind Kind
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Number returns a numeric value with no source text.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// NumberText returns a numeric value that remembers the text it was parsed from.
func NumberText(f float64, text string) Value {
	return Value{kind: KindNumber, num: f, text: text}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Kind returns the value kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Float returns the numeric value and whether the value is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}

	return v.num, true
}

// Text renders the value for output. Numbers keep their source text when
// they have one; nulls render empty.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		if v.text != "" {
			return v.text
		}

		return FormatFloat(v.num)
	case KindString:
		return v.text
	default:
		return ""
	}
}

// Key returns the canonical comparison text: numbers use their shortest
// formatting so 1, 1.0 and 1e0 compare equal, strings are trimmed.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		return FormatFloat(v.num)
	case KindString:
		return strings.TrimSpace(v.text)
	default:
		return ""
	}
}

// FormatFloat formats f with the fewest digits that round-trip.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
