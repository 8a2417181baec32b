package document

import (
	"math"
	"strconv"
	"strings"
)

type numberKind uint8

const (
	intNumber numberKind = iota
	uintNumber
	floatNumber
	literalNumber
)

// Number is an opaque JSON number. Depending on how it was built it is backed
// by an int64, a uint64, a finite float64 or the literal text read from a
// JSON document. The zero value is the integer 0.
type Number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
	lit  string
}

// IntNumber returns a Number holding i.
func IntNumber(i int64) Number { return Number{kind: intNumber, i: i} }

// UintNumber returns a Number holding u.
func UintNumber(u uint64) Number { return Number{kind: uintNumber, u: u} }

// FloatNumber returns a Number holding f. JSON has no representation for NaN
// or infinities, so ok is false for them.
func FloatNumber(f float64) (n Number, ok bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, false
	}
	return Number{kind: floatNumber, f: f}, true
}

// ParseNumber keeps lit as a number literal. lit must be a valid JSON number;
// it may still lack a float64 view when it overflows float64.
func ParseNumber(lit string) (Number, error) {
	lit = strings.TrimSpace(lit)
	if !isNumberLiteral(lit) {
		return Number{}, &SyntaxError{msg: "invalid number literal " + strconv.Quote(lit)}
	}
	return Number{kind: literalNumber, lit: strings.Clone(lit)}, nil
}

// isNumberLiteral checks lit against the JSON number grammar. Magnitude is
// not checked: literals beyond float64 range are valid JSON.
func isNumberLiteral(lit string) bool {
	i := 0
	digits := func() int {
		start := i
		for i < len(lit) && lit[i] >= '0' && lit[i] <= '9' {
			i++
		}
		return i - start
	}
	if i < len(lit) && lit[i] == '-' {
		i++
	}
	switch {
	case i < len(lit) && lit[i] == '0':
		i++
	case digits() == 0:
		return false
	}
	if i < len(lit) && lit[i] == '.' {
		i++
		if digits() == 0 {
			return false
		}
	}
	if i < len(lit) && (lit[i] == 'e' || lit[i] == 'E') {
		i++
		if i < len(lit) && (lit[i] == '+' || lit[i] == '-') {
			i++
		}
		if digits() == 0 {
			return false
		}
	}
	return i == len(lit)
}

// Float64 returns the number as a float64. Integers are converted, possibly
// rounding. ok is false when no finite float64 represents the number.
func (n Number) Float64() (float64, bool) {
	switch n.kind {
	case intNumber:
		return float64(n.i), true
	case uintNumber:
		return float64(n.u), true
	case floatNumber:
		return n.f, true
	}
	f, err := strconv.ParseFloat(n.lit, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int64 returns the number as an int64 when it is an integer in range.
func (n Number) Int64() (int64, bool) {
	switch n.kind {
	case intNumber:
		return n.i, true
	case uintNumber:
		if n.u > math.MaxInt64 {
			return 0, false
		}
		return int64(n.u), true
	case floatNumber:
		return 0, false
	}
	i, err := strconv.ParseInt(n.lit, 10, 64)
	return i, err == nil
}

// Uint64 returns the number as a uint64 when it is a non-negative integer in
// range.
func (n Number) Uint64() (uint64, bool) {
	switch n.kind {
	case intNumber:
		if n.i < 0 {
			return 0, false
		}
		return uint64(n.i), true
	case uintNumber:
		return n.u, true
	case floatNumber:
		return 0, false
	}
	u, err := strconv.ParseUint(n.lit, 10, 64)
	return u, err == nil
}

// String returns the JSON text of the number.
func (n Number) String() string {
	switch n.kind {
	case intNumber:
		return strconv.FormatInt(n.i, 10)
	case uintNumber:
		return strconv.FormatUint(n.u, 10)
	case floatNumber:
		return formatFloat(n.f)
	}
	return n.lit
}

// formatFloat uses the shortest decimal form, switching to exponent notation
// for very small or very large magnitudes the same way encoding/json does.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}

// Equal reports whether n and o hold the same representation and value.
// Literals compare by text.
func (n Number) Equal(o Number) bool {
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case intNumber:
		return n.i == o.i
	case uintNumber:
		return n.u == o.u
	case floatNumber:
		return n.f == o.f
	}
	return n.lit == o.lit
}
