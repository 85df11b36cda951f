// Package sqlliteral renders column values as T-SQL literals.
//
// Values are first classified into a closed set of kinds. Anything outside
// that set is rejected with an *UnsupportedTypeError instead of being
// guessed at, so a script is never written with a silently mangled value.
package sqlliteral

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the category a column value falls into for literal rendering.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindText
	KindDateTime
	KindInteger
	KindDecimal
	KindFloat
	KindGUID
	KindBinary
)

var kindNames = map[Kind]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindText:     "text",
	KindDateTime: "datetime",
	KindInteger:  "integer",
	KindDecimal:  "decimal",
	KindFloat:    "float",
	KindGUID:     "guid",
	KindBinary:   "binary",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Decimal is fixed-point numeric text as produced by the database,
// e.g. "1234.5600". It is emitted unchanged.
type Decimal string

// ErrUnsupportedType is matched by every *UnsupportedTypeError.
var ErrUnsupportedType = errors.New("unsupported value type")

// UnsupportedTypeError reports a value that has no literal form.
type UnsupportedTypeError struct {
	Type   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unexpected type: %s (%s)", e.Type, e.Reason)
	}
	return "unexpected type: " + e.Type
}

// Is makes errors.Is(err, ErrUnsupportedType) work.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// Value is a classified column value.
type Value struct {
	Kind Kind

	b   bool
	s   string
	t   time.Time
	i   int64
	f   float64
	f32 bool
	g   uuid.UUID
	raw []byte
}

// Null is the classified SQL NULL.
var Null = Value{Kind: KindNull}

// Classify maps a Go value onto its Kind.
func Classify(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null, nil
	case bool:
		return Value{Kind: KindBool, b: x}, nil
	case string:
		return Value{Kind: KindText, s: x}, nil
	case time.Time:
		return Value{Kind: KindDateTime, t: x}, nil
	case int16:
		return Value{Kind: KindInteger, i: int64(x)}, nil
	case int32:
		return Value{Kind: KindInteger, i: int64(x)}, nil
	case int64:
		return Value{Kind: KindInteger, i: x}, nil
	case int:
		return Value{Kind: KindInteger, i: int64(x)}, nil
	case uint8:
		return Value{Kind: KindInteger, i: int64(x)}, nil
	case Decimal:
		d := strings.TrimSpace(string(x))
		if !isDecimalText(d) {
			return Value{}, &UnsupportedTypeError{Type: "sqlliteral.Decimal", Reason: fmt.Sprintf("not a number: %q", string(x))}
		}
		return Value{Kind: KindDecimal, s: d}, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Value{}, &UnsupportedTypeError{Type: "float64", Reason: "non-finite value"}
		}
		return Value{Kind: KindFloat, f: x}, nil
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return Value{}, &UnsupportedTypeError{Type: "float32", Reason: "non-finite value"}
		}
		return Value{Kind: KindFloat, f: float64(x), f32: true}, nil
	case uuid.UUID:
		return Value{Kind: KindGUID, g: x}, nil
	case []byte:
		return Value{Kind: KindBinary, raw: x}, nil
	default:
		return Value{}, &UnsupportedTypeError{Type: fmt.Sprintf("%T", v)}
	}
}

// isDecimalText accepts an optional sign, digits and at most one '.'.
func isDecimalText(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
