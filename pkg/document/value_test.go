package document

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestObjectSetKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("x", IntNumber(1))
	o.Set("y", IntNumber(2))
	o.Set("x", String("again"))
	if diff := cmp.Diff([]string{"x", "y"}, o.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if v, _ := o.Get("x"); !Equal(v, String("again")) {
		t.Fatalf("replaced value missing: %s", Text(v))
	}
}

func TestObjectEqual(t *testing.T) {
	a := NewObject()
	a.Set("x", Bool(true))
	a.Set("y", Null{})
	b := NewObject()
	b.Set("y", Null{})
	b.Set("x", Bool(true))
	if a.Equal(b) {
		t.Fatalf("objects with different member order compared equal")
	}
	var nilObj *Object
	if !nilObj.Equal(NewObject()) {
		t.Fatalf("nil object should equal an empty object")
	}
	if diff := cmp.Diff(a, a); diff != "" {
		t.Fatalf("object should equal itself:\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	one, _ := FloatNumber(1)
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil is null", nil, Null{}, true},
		{"null is not false", Null{}, Bool(false), false},
		{"strings", String("a"), String("a"), true},
		{"number kinds", IntNumber(1), one, false},
		{"arrays", Array{IntNumber(1)}, Array{IntNumber(1)}, true},
		{"array order", Array{IntNumber(1), IntNumber(2)}, Array{IntNumber(2), IntNumber(1)}, false},
		{"string vs number", String("1"), IntNumber(1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%s, %s) = %v, want %v", Text(tc.a), Text(tc.b), got, tc.want)
			}
		})
	}
}
