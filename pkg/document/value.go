// Package document implements the JSON data model with insertion-ordered
// objects and opaque numbers, plus reading and writing JSON text.
package document

import (
	"iter"
	"slices"
)

// Value is a JSON value. Only the types in this package implement it: Bool,
// Null, Number, String, Array and *Object.
type Value interface {
	accept(d dispatcher)
}

type (
	Bool   bool
	Null   struct{}
	String string
	Array  []Value
)

// Visitor handles each Value variant. A nil Value is visited as Null.
type Visitor[T any] interface {
	Bool(Bool) (T, error)
	Null() (T, error)
	Number(Number) (T, error)
	String(String) (T, error)
	Array(Array) (T, error)
	Object(*Object) (T, error)
}

// Accept calls the visitor method matching the concrete type of value.
func Accept[T any](value Value, v Visitor[T]) (T, error) {
	if value == nil {
		return v.Null()
	}
	d := &dispatch[T]{v: v}
	value.accept(d)
	return d.res, d.err
}

type dispatcher interface {
	visitBool(Bool)
	visitNull()
	visitNumber(Number)
	visitString(String)
	visitArray(Array)
	visitObject(*Object)
}

type dispatch[T any] struct {
	v   Visitor[T]
	res T
	err error
}

func (d *dispatch[T]) visitBool(x Bool)      { d.res, d.err = d.v.Bool(x) }
func (d *dispatch[T]) visitNull()            { d.res, d.err = d.v.Null() }
func (d *dispatch[T]) visitNumber(x Number)  { d.res, d.err = d.v.Number(x) }
func (d *dispatch[T]) visitString(x String)  { d.res, d.err = d.v.String(x) }
func (d *dispatch[T]) visitArray(x Array)    { d.res, d.err = d.v.Array(x) }
func (d *dispatch[T]) visitObject(x *Object) { d.res, d.err = d.v.Object(x) }

func (x Bool) accept(d dispatcher)    { d.visitBool(x) }
func (Null) accept(d dispatcher)      { d.visitNull() }
func (x Number) accept(d dispatcher)  { d.visitNumber(x) }
func (x String) accept(d dispatcher)  { d.visitString(x) }
func (x Array) accept(d dispatcher)   { d.visitArray(x) }
func (x *Object) accept(d dispatcher) { d.visitObject(x) }

// Object is a JSON object that remembers insertion order. Keys are unique.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: map[string]Value{}}
}

// Set stores v under key, keeping the original position of an existing key.
func (o *Object) Set(key string, v Value) {
	if o.values == nil {
		o.values = map[string]Value{}
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// All iterates over members in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// Equal reports whether o and other have the same members in the same order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	i := 0
	for k, v := range o.All() {
		if other.keys[i] != k || !Equal(v, other.values[k]) {
			return false
		}
		i++
	}
	return true
}

// Equal reports whether a and b are structurally equal. Numbers compare with
// Number.Equal.
func Equal(a, b Value) bool {
	eq, _ := Accept[bool](a, equalVisitor{other: b})
	return eq
}

type equalVisitor struct{ other Value }

func (e equalVisitor) Bool(x Bool) (bool, error) {
	o, ok := e.other.(Bool)
	return ok && o == x, nil
}

func (e equalVisitor) Null() (bool, error) {
	if e.other == nil {
		return true, nil
	}
	_, ok := e.other.(Null)
	return ok, nil
}

func (e equalVisitor) Number(x Number) (bool, error) {
	o, ok := e.other.(Number)
	return ok && x.Equal(o), nil
}

func (e equalVisitor) String(x String) (bool, error) {
	o, ok := e.other.(String)
	return ok && o == x, nil
}

func (e equalVisitor) Array(x Array) (bool, error) {
	o, ok := e.other.(Array)
	if !ok || len(o) != len(x) {
		return false, nil
	}
	for i := range x {
		if !Equal(x[i], o[i]) {
			return false, nil
		}
	}
	return true, nil
}

func (e equalVisitor) Object(x *Object) (bool, error) {
	o, ok := e.other.(*Object)
	return ok && x.Equal(o), nil
}
