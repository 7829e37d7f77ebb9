package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the inferred type of a cell
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	default:
		return "string"
	}
}

// Value is a dynamically typed CSV cell
type Value struct {
	Kind   Kind
	Raw    string
	Number float64
	Bool   bool
}

var decimalLiteral = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// numbers outside the exactly representable integer range stay strings
const maxExactFloat = 1 << 53

// Infer types a raw cell: booleans, decimal literals and empty cells are
// recognised, everything else is kept as text.
func Infer(raw string) Value {
	switch raw {
	case "":
		return Value{Kind: KindNull}
	case "true", "TRUE":
		return Value{Kind: KindBool, Raw: raw, Bool: true}
	case "false", "FALSE":
		return Value{Kind: KindBool, Raw: raw, Bool: false}
	}

	if decimalLiteral.MatchString(raw) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil && f > -maxExactFloat && f < maxExactFloat {
			return Value{Kind: KindNumber, Raw: raw, Number: f}
		}
	}

	return Value{Kind: KindString, Raw: raw}
}

// Text returns a string value without inference
func Text(s string) Value {
	return Value{Kind: KindString, Raw: s}
}

// IsNull reports whether the cell was empty
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Interface returns the value as nil, bool, float64 or string
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number
	default:
		return v.Raw
	}
}

// String renders the value as display text
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return FormatNumber(v.Number)
	default:
		return v.Raw
	}
}

// FormatNumber renders a float the way a browser stringifies numbers:
// shortest round-trip digits, plain notation between 1e-6 and 1e21 and
// exponent notation (1e-7, 1e+21) outside it.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + string(sign) + digits
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
