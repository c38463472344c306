package model

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/invoice-pdf/internal/decimal"
)

// ScalarKind tags the detected type of a spreadsheet cell value.
type ScalarKind int

const (
	ScalarText ScalarKind = iota
	ScalarInt
	ScalarFloat
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	default:
		return "text"
	}
}

// Scalar is a spreadsheet cell value. Cells arrive from the sheet as text;
// numeric-looking text is tagged as int or float but the raw form is kept
// so display output matches what the file contained.
type Scalar struct {
	Kind ScalarKind
	raw  string
}

// NewScalar classifies a raw cell value.
func NewScalar(raw string) Scalar {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return Scalar{Kind: ScalarInt, raw: trimmed}
		}
		if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return Scalar{Kind: ScalarFloat, raw: trimmed}
		}
	}
	return Scalar{Kind: ScalarText, raw: raw}
}

// TextScalar returns a scalar that is always treated as text.
func TextScalar(s string) Scalar {
	return Scalar{Kind: ScalarText, raw: s}
}

// String returns the display form of the value.
func (s Scalar) String() string {
	return s.raw
}

// IsNumeric reports whether the value carries an int or float form.
func (s Scalar) IsNumeric() bool {
	return s.Kind == ScalarInt || s.Kind == ScalarFloat
}

// Decimal coerces the value to a decimal. Text that does not parse as a
// number is an error; the caller decides whether that fails the record.
func (s Scalar) Decimal() (decimal.Decimal, error) {
	return money.FromString(strings.TrimSpace(s.raw))
}
