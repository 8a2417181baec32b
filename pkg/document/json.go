package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

// MaxDepth bounds array and object nesting when reading JSON text.
const MaxDepth = 1000

// SyntaxError describes JSON text that does not form a single valid value.
type SyntaxError struct {
	msg string
	err error
}

func (e *SyntaxError) Error() string { return "document: " + e.msg }

func (e *SyntaxError) Unwrap() error { return e.err }

// Parse reads exactly one JSON value from data. Object member order is kept;
// when a key repeats, the last value wins at the position of the first.
func Parse(data []byte) (Value, error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return nil, &SyntaxError{msg: fmt.Sprintf("invalid NUL byte at offset %d", i)}
	}
	if !utf8.Valid(data) {
		return nil, &SyntaxError{msg: fmt.Sprintf("invalid UTF-8 at offset %d", invalidUTF8(data))}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	r := &tokenReader{dec: dec, data: data}

	tok, sep, err := r.next()
	if err != nil {
		return nil, err
	}
	if err := expectSep(sep, ""); err != nil {
		return nil, err
	}
	v, err := r.value(tok, 0)
	if err != nil {
		return nil, err
	}
	tok, sep, err = r.next()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		if err != nil {
			return nil, err
		}
		return nil, &SyntaxError{msg: fmt.Sprintf("unexpected %v after top-level value", tok)}
	}
	if err := expectSep(sep, ""); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode reads r to EOF and parses it like Parse. Trailing non-whitespace is
// an error.
func Decode(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func invalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(data)
}

// tokenReader reports, along with each token, the ',' and ':' separators
// the decoder skipped before it. The decoder does not check them itself.
type tokenReader struct {
	dec  *json.Decoder
	data []byte
}

// next returns the following token and the separators in front of it. At the
// end of input it returns io.ErrUnexpectedEOF, still with the separators.
func (r *tokenReader) next() (json.Token, string, error) {
	start := r.dec.InputOffset()
	tok, err := r.dec.Token()
	end := min(r.dec.InputOffset(), int64(len(r.data)))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", &SyntaxError{msg: err.Error(), err: err}
	}
	var sep []byte
	for i := start; i < end; i++ {
		c := r.data[i]
		if c == ',' || c == ':' {
			sep = append(sep, c)
		} else if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
	}
	if err != nil {
		return nil, string(sep), io.ErrUnexpectedEOF
	}
	return tok, string(sep), nil
}

func expectSep(got, want string) error {
	if got == want {
		return nil
	}
	if want == "" {
		return &SyntaxError{msg: fmt.Sprintf("unexpected %q", got)}
	}
	if got == "" {
		return &SyntaxError{msg: fmt.Sprintf("missing %q", want)}
	}
	return &SyntaxError{msg: fmt.Sprintf("expected %q, got %q", want, got)}
}

func (r *tokenReader) value(tok json.Token, depth int) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxDepth {
			return nil, &SyntaxError{msg: fmt.Sprintf("nesting exceeds %d levels", MaxDepth)}
		}
		switch t {
		case '[':
			return r.array(depth + 1)
		case '{':
			return r.object(depth + 1)
		}
		return nil, &SyntaxError{msg: fmt.Sprintf("unexpected %q", rune(t))}
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	case string:
		return String(t), nil
	case json.Number:
		return ParseNumber(string(t))
	}
	return nil, &SyntaxError{msg: fmt.Sprintf("unexpected token %T", tok)}
}

func (r *tokenReader) array(depth int) (Value, error) {
	arr := Array{}
	for {
		tok, sep, err := r.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			if err := expectSep(sep, ""); err != nil {
				return nil, err
			}
			return arr, nil
		}
		want := ","
		if len(arr) == 0 {
			want = ""
		}
		if err := expectSep(sep, want); err != nil {
			return nil, err
		}
		v, err := r.value(tok, depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func (r *tokenReader) object(depth int) (Value, error) {
	obj := NewObject()
	for n := 0; ; n++ {
		tok, sep, err := r.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			if err := expectSep(sep, ""); err != nil {
				return nil, err
			}
			return obj, nil
		}
		want := ","
		if n == 0 {
			want = ""
		}
		if err := expectSep(sep, want); err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &SyntaxError{msg: fmt.Sprintf("object key must be a string, got %v", tok)}
		}
		tok, sep, err = r.next()
		if err != nil {
			return nil, err
		}
		if err := expectSep(sep, ":"); err != nil {
			return nil, err
		}
		v, err := r.value(tok, depth)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
}

// Marshal returns the compact JSON text of v.
func Marshal(v Value) ([]byte, error) {
	w := &textWriter{}
	if _, err := Accept[struct{}](v, w); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// MarshalIndent is like Marshal but starts each nested element on a new line
// beginning with prefix followed by one copy of indent per nesting level.
func MarshalIndent(v Value, prefix, indent string) ([]byte, error) {
	w := &textWriter{prefix: prefix, indent: indent, pretty: true}
	if _, err := Accept[struct{}](v, w); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

type textWriter struct {
	buf    bytes.Buffer
	pretty bool
	prefix string
	indent string
	level  int
}

func (w *textWriter) newline() {
	if !w.pretty {
		return
	}
	w.buf.WriteByte('\n')
	w.buf.WriteString(w.prefix)
	for i := 0; i < w.level; i++ {
		w.buf.WriteString(w.indent)
	}
}

func (w *textWriter) Bool(v Bool) (struct{}, error) {
	if v {
		w.buf.WriteString("true")
	} else {
		w.buf.WriteString("false")
	}
	return struct{}{}, nil
}

func (w *textWriter) Null() (struct{}, error) {
	w.buf.WriteString("null")
	return struct{}{}, nil
}

func (w *textWriter) Number(v Number) (struct{}, error) {
	w.buf.WriteString(v.String())
	return struct{}{}, nil
}

func (w *textWriter) String(v String) (struct{}, error) {
	return struct{}{}, w.quote(string(v))
}

func (w *textWriter) Array(v Array) (struct{}, error) {
	w.buf.WriteByte('[')
	if len(v) == 0 {
		w.buf.WriteByte(']')
		return struct{}{}, nil
	}
	w.level++
	for i, e := range v {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline()
		if _, err := Accept[struct{}](e, w); err != nil {
			return struct{}{}, err
		}
	}
	w.level--
	w.newline()
	w.buf.WriteByte(']')
	return struct{}{}, nil
}

func (w *textWriter) Object(v *Object) (struct{}, error) {
	w.buf.WriteByte('{')
	if v.Len() == 0 {
		w.buf.WriteByte('}')
		return struct{}{}, nil
	}
	w.level++
	first := true
	for k, e := range v.All() {
		if !first {
			w.buf.WriteByte(',')
		}
		first = false
		w.newline()
		if err := w.quote(k); err != nil {
			return struct{}{}, err
		}
		w.buf.WriteByte(':')
		if w.pretty {
			w.buf.WriteByte(' ')
		}
		if _, err := Accept[struct{}](e, w); err != nil {
			return struct{}{}, err
		}
	}
	w.level--
	w.newline()
	w.buf.WriteByte('}')
	return struct{}{}, nil
}

func (w *textWriter) quote(s string) error {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

// Text returns the compact JSON text of v, or a description of the error
// when v cannot be written.
func Text(v Value) string {
	b, err := Marshal(v)
	if err != nil {
		return "!(" + strings.TrimPrefix(err.Error(), "document: ") + ")"
	}
	return string(b)
}
