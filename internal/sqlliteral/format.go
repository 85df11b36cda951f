package sqlliteral

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/dbsmedya/goexport/internal/sqlutil"
)

// DateTimeLayout renders timestamps as yyyy.MM.dd HH:mm:ss.fff.
const DateTimeLayout = "2006.01.02 15:04:05.000"

// Floats inside [floatPlainMin, floatPlainMax) are written without an exponent.
const (
	floatPlainMin = 1e-4
	floatPlainMax = 1e15
)

// Literal returns the SQL literal for v.
func (v Value) Literal() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindText:
		if IsWide(v.s) {
			return "N" + sqlutil.QuoteString(v.s)
		}
		return sqlutil.QuoteString(v.s)
	case KindDateTime:
		return "'" + v.t.Format(DateTimeLayout) + "'"
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindDecimal:
		return v.s
	case KindFloat:
		return formatFloat(v.f, v.f32)
	case KindGUID:
		return "'" + v.g.String() + "'"
	case KindBinary:
		return "0x" + hex.EncodeToString(v.raw)
	}
	return "NULL"
}

// IsWide reports whether s holds a character above code point 255 and so
// needs an N'...' literal.
func IsWide(s string) bool {
	for _, r := range s {
		if r > 255 {
			return true
		}
	}
	return false
}

// formatFloat writes the shortest representation that round-trips, using a
// '.' separator regardless of locale. Very small and very large magnitudes
// use E notation so the literal stays a float rather than an overflowing
// numeric.
func formatFloat(f float64, single bool) string {
	bits := 64
	if single {
		bits = 32
	}

	abs := math.Abs(f)
	if f == 0 || (abs >= floatPlainMin && abs < floatPlainMax) {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}
	return strconv.FormatFloat(f, 'E', -1, bits)
}

// Format classifies v and returns its literal.
func Format(v any) (string, error) {
	val, err := Classify(v)
	if err != nil {
		return "", err
	}
	return val.Literal(), nil
}

// Tuple renders a row as "(v1, v2, ..., vN)".
func Tuple(values []any) (string, error) {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range values {
		lit, err := Format(v)
		if err != nil {
			return "", &ColumnError{Index: i, Err: err}
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(lit)
	}
	sb.WriteByte(')')
	return sb.String(), nil
}

// ColumnError wraps a serialization failure with the offending column position.
type ColumnError struct {
	Index int
	Name  string
	Err   error
}

func (e *ColumnError) Error() string {
	col := e.Name
	if col == "" {
		col = "#" + strconv.Itoa(e.Index+1)
	}
	return "column " + col + ": " + e.Err.Error()
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}
