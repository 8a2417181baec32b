package document

import (
	"math"
	"testing"
)

func TestNumberViews(t *testing.T) {
	type views struct {
		f      float64
		fOK    bool
		i      int64
		iOK    bool
		u      uint64
		uOK    bool
		String string
	}
	lit := func(s string) Number {
		n, err := ParseNumber(s)
		if err != nil {
			t.Fatalf("ParseNumber(%q): %v", s, err)
		}
		return n
	}
	flt := func(f float64) Number {
		n, ok := FloatNumber(f)
		if !ok {
			t.Fatalf("FloatNumber(%v) rejected", f)
		}
		return n
	}
	cases := []struct {
		name string
		n    Number
		want views
	}{
		{"zero value", Number{}, views{0, true, 0, true, 0, true, "0"}},
		{"negative int", IntNumber(-5), views{-5, true, -5, true, 0, false, "-5"}},
		{"max uint", UintNumber(math.MaxUint64), views{math.MaxUint64, true, 0, false, math.MaxUint64, true, "18446744073709551615"}},
		{"float", flt(1.5), views{1.5, true, 0, false, 0, false, "1.5"}},
		{"whole float", flt(15), views{15, true, 0, false, 0, false, "15"}},
		{"literal int", lit("-5"), views{-5, true, -5, true, 0, false, "-5"}},
		{"literal max uint", lit("18446744073709551615"), views{math.MaxUint64, true, 0, false, math.MaxUint64, true, "18446744073709551615"}},
		{"literal fraction", lit("0.25"), views{0.25, true, 0, false, 0, false, "0.25"}},
		{"literal overflow", lit("1e400"), views{0, false, 0, false, 0, false, "1e400"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, fOK := tc.n.Float64()
			i, iOK := tc.n.Int64()
			u, uOK := tc.n.Uint64()
			got := views{f, fOK, i, iOK, u, uOK, tc.n.String()}
			if got != tc.want {
				t.Fatalf("views mismatch: want=%+v got=%+v", tc.want, got)
			}
		})
	}
}

func TestFloatNumberRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, ok := FloatNumber(f); ok {
			t.Fatalf("FloatNumber(%v) accepted", f)
		}
	}
}

func TestParseNumberRejectsInvalid(t *testing.T) {
	for _, s := range []string{"", "-", "01", "1.", ".5", "+1", "0x10", "NaN", "1e", `"1"`, "true"} {
		if _, err := ParseNumber(s); err == nil {
			t.Fatalf("ParseNumber(%q) accepted", s)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		0.1:      "0.1",
		-2.5:     "-2.5",
		1e20:     "100000000000000000000",
		1e21:     "1e+21",
		1e-7:     "1e-7",
		0.000001: "0.000001",
		145432:   "145432",
	}
	for f, want := range cases {
		if got := formatFloat(f); got != want {
			t.Fatalf("formatFloat(%v) = %q, want %q", f, got, want)
		}
	}
}

func TestNumberEqual(t *testing.T) {
	five, _ := FloatNumber(5)
	if IntNumber(5).Equal(five) {
		t.Fatalf("int and float representations should differ")
	}
	if !IntNumber(5).Equal(IntNumber(5)) {
		t.Fatalf("equal ints compared unequal")
	}
	a, _ := ParseNumber("1.0")
	b, _ := ParseNumber("1")
	if a.Equal(b) {
		t.Fatalf("literals compare by text")
	}
}
