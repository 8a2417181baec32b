package amqp

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFieldTableSetKeepsPosition(t *testing.T) {
	tbl := NewFieldTable()
	tbl.Set("x", LongInt(1))
	tbl.Set("y", LongInt(2))
	tbl.Set("x", LongString("again"))

	if diff := cmp.Diff([]string{"x", "y"}, tbl.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if v, ok := tbl.Get("x"); !ok || !Equal(v, LongString("again")) {
		t.Fatalf("replaced value missing: %#v %v", v, ok)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", tbl.Len())
	}
}

func TestNilFieldTableReads(t *testing.T) {
	var tbl *FieldTable
	if tbl.Len() != 0 || tbl.Keys() != nil {
		t.Fatalf("nil table should be empty")
	}
	if _, ok := tbl.Get("k"); ok {
		t.Fatalf("nil table should have no entries")
	}
	for range tbl.All() {
		t.Fatalf("nil table should not iterate")
	}
	if !tbl.Equal(NewFieldTable()) {
		t.Fatalf("nil table should equal an empty table")
	}
}

func TestFieldTableEqualIsOrderSensitive(t *testing.T) {
	a := NewFieldTable()
	a.Set("x", Boolean(true))
	a.Set("y", Void{})
	b := NewFieldTable()
	b.Set("y", Void{})
	b.Set("x", Boolean(true))
	if a.Equal(b) {
		t.Fatalf("tables with different key order compared equal")
	}
}

func TestEqual(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same int", LongInt(1), LongInt(1), true},
		{"different width", LongInt(1), LongLongInt(1), false},
		{"nan double", Double(nan), Double(nan), true},
		{"nan float", Float(float32(nan)), Float(float32(nan)), true},
		{"signed zero", Double(0), Double(math.Copysign(0, -1)), false},
		{"short vs long string", ShortString("a"), LongString("a"), false},
		{"nil is void", nil, Void{}, true},
		{"void is not nil", Void{}, nil, false},
		{"decimal", DecimalValue{2, 5}, DecimalValue{2, 5}, true},
		{"arrays", FieldArray{LongInt(1)}, FieldArray{LongInt(1)}, true},
		{"array length", FieldArray{LongInt(1)}, FieldArray{}, false},
		{"bytes", ByteArray{1}, ByteArray{1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%#v, %#v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

type tagName struct{}

func (tagName) Boolean(Boolean) (string, error)               { return "boolean", nil }
func (tagName) ShortShortInt(ShortShortInt) (string, error)   { return "short-short-int", nil }
func (tagName) ShortShortUInt(ShortShortUInt) (string, error) { return "short-short-uint", nil }
func (tagName) ShortInt(ShortInt) (string, error)             { return "short-int", nil }
func (tagName) ShortUInt(ShortUInt) (string, error)           { return "short-uint", nil }
func (tagName) LongInt(LongInt) (string, error)               { return "long-int", nil }
func (tagName) LongUInt(LongUInt) (string, error)             { return "long-uint", nil }
func (tagName) LongLongInt(LongLongInt) (string, error)       { return "long-long-int", nil }
func (tagName) Float(Float) (string, error)                   { return "float", nil }
func (tagName) Double(Double) (string, error)                 { return "double", nil }
func (tagName) Decimal(DecimalValue) (string, error)          { return "decimal", nil }
func (tagName) LongString(LongString) (string, error)         { return "long-string", nil }
func (tagName) ShortString(ShortString) (string, error)       { return "short-string", nil }
func (tagName) Timestamp(Timestamp) (string, error)           { return "timestamp", nil }
func (tagName) FieldArray(FieldArray) (string, error)         { return "field-array", nil }
func (tagName) FieldTable(*FieldTable) (string, error)        { return "field-table", nil }
func (tagName) ByteArray(ByteArray) (string, error)           { return "byte-array", nil }
func (tagName) Void() (string, error)                         { return "void", nil }

func TestAcceptDispatch(t *testing.T) {
	cases := map[string]Value{
		"boolean":          Boolean(true),
		"short-short-int":  ShortShortInt(1),
		"short-short-uint": ShortShortUInt(1),
		"short-int":        ShortInt(1),
		"short-uint":       ShortUInt(1),
		"long-int":         LongInt(1),
		"long-uint":        LongUInt(1),
		"long-long-int":    LongLongInt(1),
		"float":            Float(1),
		"double":           Double(1),
		"decimal":          DecimalValue{},
		"long-string":      LongString(""),
		"short-string":     ShortString(""),
		"timestamp":        Timestamp(0),
		"field-array":      FieldArray{},
		"field-table":      NewFieldTable(),
		"byte-array":       ByteArray{},
		"void":             nil,
	}
	for want, v := range cases {
		got, err := Accept[string](v, tagName{})
		if err != nil {
			t.Fatalf("Accept(%#v): %v", v, err)
		}
		if got != want {
			t.Fatalf("Accept(%#v) = %q, want %q", v, got, want)
		}
	}
}
