package document

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseKeepsMemberOrder(t *testing.T) {
	v, err := Parse([]byte(`{"z":1,"a":[true,null,"s"],"m":{"y":2,"x":3}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("want *Object, got %T", v)
	}
	if diff := cmp.Diff([]string{"z", "a", "m"}, obj.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	m, _ := obj.Get("m")
	if diff := cmp.Diff([]string{"y", "x"}, m.(*Object).Keys()); diff != "" {
		t.Fatalf("nested key order mismatch (-want +got):\n%s", diff)
	}
	a, _ := obj.Get("a")
	if !Equal(a, Array{Bool(true), Null{}, String("s")}) {
		t.Fatalf("array mismatch: %s", Text(a))
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	v, err := Parse([]byte(`{"k":1,"j":2,"k":3}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Text(v); got != `{"k":3,"j":2}` {
		t.Fatalf("unexpected text: %s", got)
	}
}

func TestParseScalars(t *testing.T) {
	three, _ := ParseNumber("3")
	cases := map[string]Value{
		`true`:         Bool(true),
		` false `:      Bool(false),
		`null`:         Null{},
		`"hé\n"`:       String("hé\n"),
		`3`:            three,
		`[]`:           Array{},
		"{}":           NewObject(),
		`"with \"q\""`: String(`with "q"`),
		`"日本"`:         String("日本"),
	}
	for in, want := range cases {
		got, err := Parse([]byte(in))
		if err != nil {
			t.Fatalf("Parse(%s): %v", in, err)
		}
		if !Equal(got, want) {
			t.Fatalf("Parse(%s) = %s, want %s", in, Text(got), Text(want))
		}
	}
}

func TestParseRejects(t *testing.T) {
	cases := []string{
		`1 2`,
		`1,`,
		`,1`,
		`{"a":1}}`,
		`[1,]`,
		`{"a":1,}`,
		`{"a":}`,
		`{1:2}`,
		`[1}`,
		`]`,
		`-`,
		`tru`,
		`{"a" 1}`,
		`{"a":1 "b":2}`,
		`[1 2]`,
		`{"a"::1}`,
		`[1,,2]`,
		`{,"a":1}`,
		`[,1]`,
		`[1:2]`,
		`{"a",1}`,
		`{"a":[1 2]}`,
	}
	for _, in := range cases {
		if v, err := Parse([]byte(in)); err == nil {
			t.Fatalf("Parse(%s) accepted as %s", in, Text(v))
		}
	}
}

func TestParseRejectsBadEncoding(t *testing.T) {
	cases := map[string]string{
		"invalid UTF-8 in string": "{\"k\":\"a\xffb\"}",
		"truncated rune":          "\"\xe6\x97\"",
		"NUL after value":         "1\x002",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("want *SyntaxError, got %v", err)
			}
		})
	}
	_, err := Parse([]byte("[\"ok\", \"\xff\"]"))
	if err == nil || !strings.Contains(err.Error(), "invalid UTF-8 at offset 8") {
		t.Fatalf("error should name the offending offset, got %v", err)
	}
}

func TestParseAcceptsWhitespaceAroundSeparators(t *testing.T) {
	v, err := Parse([]byte(" {\n\t\"a\" :\r 1 ,\n \"b\" : [ 1 , 2 ] } "))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Text(v); got != `{"a":1,"b":[1,2]}` {
		t.Fatalf("unexpected text: %s", got)
	}
}

func TestParseTruncated(t *testing.T) {
	for _, in := range []string{``, `[1`, `{"a":`, `{"a":1`} {
		if _, err := Parse([]byte(in)); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Fatalf("Parse(%q): want io.ErrUnexpectedEOF, got %v", in, err)
		}
	}
}

func TestParseNestingLimit(t *testing.T) {
	ok := strings.Repeat("[", 10) + strings.Repeat("]", 10)
	if _, err := Parse([]byte(ok)); err != nil {
		t.Fatalf("shallow nesting rejected: %v", err)
	}
	deep := strings.Repeat("[", MaxDepth+1) + strings.Repeat("]", MaxDepth+1)
	_, err := Parse([]byte(deep))
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("want *SyntaxError, got %v", err)
	}
}

func TestMarshal(t *testing.T) {
	obj := NewObject()
	obj.Set("s", String("a\"b<"))
	obj.Set("n", IntNumber(-1))
	obj.Set("u", UintNumber(18446744073709551615))
	f, _ := FloatNumber(0.5)
	obj.Set("arr", Array{f, Null{}, Bool(false), nil})
	obj.Set("empty", NewObject())

	b, err := Marshal(obj)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"s":"a\"b<","n":-1,"u":18446744073709551615,"arr":[0.5,null,false,null],"empty":{}}`
	if string(b) != want {
		t.Fatalf("Marshal mismatch:\nwant %s\ngot  %s", want, b)
	}

	back, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Text(back); got != want {
		t.Fatalf("reparse mismatch:\nwant %s\ngot  %s", want, got)
	}
}

func TestMarshalIndent(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Array{IntNumber(1)})
	b, err := MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	want := "{\n  \"a\": [\n    1\n  ]\n}"
	if string(b) != want {
		t.Fatalf("MarshalIndent mismatch:\nwant %q\ngot  %q", want, b)
	}
}

func TestDecodeReader(t *testing.T) {
	v, err := Decode(strings.NewReader("  {\"k\": [1.5e3]}\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := Text(v); got != `{"k":[1.5e3]}` {
		t.Fatalf("unexpected text: %s", got)
	}
}
