package amqp

import (
	"iter"
	"math"
	"slices"
)

// Value is an AMQP 0-9-1 field value as carried in field tables and field
// arrays. The set of variants is closed: only the types declared in this
// file implement Value. Use Accept with a Visitor to dispatch on the
// concrete variant.
type Value interface {
	accept(d dispatcher)
}

type (
	Boolean        bool
	ShortShortInt  int8
	ShortShortUInt uint8
	ShortInt       int16
	ShortUInt      uint16
	LongInt        int32
	LongUInt       uint32
	LongLongInt    int64
	Float          float32
	Double         float64
	LongString     string
	ShortString    string
	// Timestamp is a POSIX time in seconds.
	Timestamp  uint64
	FieldArray []Value
	ByteArray  []byte
	// Void marks the absence of a value.
	Void struct{}
)

// DecimalValue is the AMQP decimal: Value scaled down by 10^Scale.
type DecimalValue struct {
	Scale uint8
	Value uint32
}

// Visitor handles each Value variant. A nil Value is visited as Void.
type Visitor[T any] interface {
	Boolean(Boolean) (T, error)
	ShortShortInt(ShortShortInt) (T, error)
	ShortShortUInt(ShortShortUInt) (T, error)
	ShortInt(ShortInt) (T, error)
	ShortUInt(ShortUInt) (T, error)
	LongInt(LongInt) (T, error)
	LongUInt(LongUInt) (T, error)
	LongLongInt(LongLongInt) (T, error)
	Float(Float) (T, error)
	Double(Double) (T, error)
	Decimal(DecimalValue) (T, error)
	LongString(LongString) (T, error)
	ShortString(ShortString) (T, error)
	Timestamp(Timestamp) (T, error)
	FieldArray(FieldArray) (T, error)
	FieldTable(*FieldTable) (T, error)
	ByteArray(ByteArray) (T, error)
	Void() (T, error)
}

// Accept calls the visitor method matching the concrete type of value.
//
// This is a function rather than a method because Go methods cannot carry
// their own type parameters.
func Accept[T any](value Value, v Visitor[T]) (T, error) {
	if value == nil {
		return v.Void()
	}
	d := &dispatch[T]{v: v}
	value.accept(d)
	return d.res, d.err
}

// dispatcher is the non-generic bridge between a variant's accept method and
// a typed Visitor. Adding a variant means adding a method here, which in turn
// breaks every Visitor implementation until it handles the new variant.
type dispatcher interface {
	visitBoolean(Boolean)
	visitShortShortInt(ShortShortInt)
	visitShortShortUInt(ShortShortUInt)
	visitShortInt(ShortInt)
	visitShortUInt(ShortUInt)
	visitLongInt(LongInt)
	visitLongUInt(LongUInt)
	visitLongLongInt(LongLongInt)
	visitFloat(Float)
	visitDouble(Double)
	visitDecimal(DecimalValue)
	visitLongString(LongString)
	visitShortString(ShortString)
	visitTimestamp(Timestamp)
	visitFieldArray(FieldArray)
	visitFieldTable(*FieldTable)
	visitByteArray(ByteArray)
	visitVoid()
}

type dispatch[T any] struct {
	v   Visitor[T]
	res T
	err error
}

func (d *dispatch[T]) visitBoolean(x Boolean)               { d.res, d.err = d.v.Boolean(x) }
func (d *dispatch[T]) visitShortShortInt(x ShortShortInt)   { d.res, d.err = d.v.ShortShortInt(x) }
func (d *dispatch[T]) visitShortShortUInt(x ShortShortUInt) { d.res, d.err = d.v.ShortShortUInt(x) }
func (d *dispatch[T]) visitShortInt(x ShortInt)             { d.res, d.err = d.v.ShortInt(x) }
func (d *dispatch[T]) visitShortUInt(x ShortUInt)           { d.res, d.err = d.v.ShortUInt(x) }
func (d *dispatch[T]) visitLongInt(x LongInt)               { d.res, d.err = d.v.LongInt(x) }
func (d *dispatch[T]) visitLongUInt(x LongUInt)             { d.res, d.err = d.v.LongUInt(x) }
func (d *dispatch[T]) visitLongLongInt(x LongLongInt)       { d.res, d.err = d.v.LongLongInt(x) }
func (d *dispatch[T]) visitFloat(x Float)                   { d.res, d.err = d.v.Float(x) }
func (d *dispatch[T]) visitDouble(x Double)                 { d.res, d.err = d.v.Double(x) }
func (d *dispatch[T]) visitDecimal(x DecimalValue)          { d.res, d.err = d.v.Decimal(x) }
func (d *dispatch[T]) visitLongString(x LongString)         { d.res, d.err = d.v.LongString(x) }
func (d *dispatch[T]) visitShortString(x ShortString)       { d.res, d.err = d.v.ShortString(x) }
func (d *dispatch[T]) visitTimestamp(x Timestamp)           { d.res, d.err = d.v.Timestamp(x) }
func (d *dispatch[T]) visitFieldArray(x FieldArray)         { d.res, d.err = d.v.FieldArray(x) }
func (d *dispatch[T]) visitFieldTable(x *FieldTable)        { d.res, d.err = d.v.FieldTable(x) }
func (d *dispatch[T]) visitByteArray(x ByteArray)           { d.res, d.err = d.v.ByteArray(x) }
func (d *dispatch[T]) visitVoid()                           { d.res, d.err = d.v.Void() }

func (x Boolean) accept(d dispatcher)        { d.visitBoolean(x) }
func (x ShortShortInt) accept(d dispatcher)  { d.visitShortShortInt(x) }
func (x ShortShortUInt) accept(d dispatcher) { d.visitShortShortUInt(x) }
func (x ShortInt) accept(d dispatcher)       { d.visitShortInt(x) }
func (x ShortUInt) accept(d dispatcher)      { d.visitShortUInt(x) }
func (x LongInt) accept(d dispatcher)        { d.visitLongInt(x) }
func (x LongUInt) accept(d dispatcher)       { d.visitLongUInt(x) }
func (x LongLongInt) accept(d dispatcher)    { d.visitLongLongInt(x) }
func (x Float) accept(d dispatcher)          { d.visitFloat(x) }
func (x Double) accept(d dispatcher)         { d.visitDouble(x) }
func (x DecimalValue) accept(d dispatcher)   { d.visitDecimal(x) }
func (x LongString) accept(d dispatcher)     { d.visitLongString(x) }
func (x ShortString) accept(d dispatcher)    { d.visitShortString(x) }
func (x Timestamp) accept(d dispatcher)      { d.visitTimestamp(x) }
func (x FieldArray) accept(d dispatcher)     { d.visitFieldArray(x) }
func (x *FieldTable) accept(d dispatcher)    { d.visitFieldTable(x) }
func (x ByteArray) accept(d dispatcher)      { d.visitByteArray(x) }
func (Void) accept(d dispatcher)             { d.visitVoid() }

// FieldTable is an ordered mapping from short-string keys to values. Keys
// are unique; iteration follows insertion order. A nil *FieldTable behaves
// as an empty table for reads.
type FieldTable struct {
	keys   []string
	values map[string]Value
}

// NewFieldTable returns an empty table.
func NewFieldTable() *FieldTable {
	return &FieldTable{values: map[string]Value{}}
}

// Set stores v under key. Setting an existing key replaces its value and
// keeps its original position.
func (t *FieldTable) Set(key string, v Value) {
	if t.values == nil {
		t.values = map[string]Value{}
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

// Get returns the value stored under key.
func (t *FieldTable) Get(key string) (Value, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Len returns the number of entries.
func (t *FieldTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns a copy of the keys in iteration order.
func (t *FieldTable) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// All iterates over the entries in insertion order.
func (t *FieldTable) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.values[k]) {
				return
			}
		}
	}
}

// Equal reports whether t and o hold equal entries in the same order.
func (t *FieldTable) Equal(o *FieldTable) bool {
	if t.Len() != o.Len() {
		return false
	}
	if t.Len() == 0 {
		return true
	}
	for i, k := range t.keys {
		if o.keys[i] != k {
			return false
		}
		if !Equal(t.values[k], o.values[k]) {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are the same variant holding the same
// payload. Floating-point payloads are compared bit for bit so that a NaN
// equals itself.
func Equal(a, b Value) bool {
	eq, _ := Accept[bool](a, equalVisitor{other: b})
	return eq
}

type equalVisitor struct{ other Value }

func (e equalVisitor) Boolean(x Boolean) (bool, error) {
	o, ok := e.other.(Boolean)
	return ok && o == x, nil
}

func (e equalVisitor) ShortShortInt(x ShortShortInt) (bool, error) {
	o, ok := e.other.(ShortShortInt)
	return ok && o == x, nil
}

func (e equalVisitor) ShortShortUInt(x ShortShortUInt) (bool, error) {
	o, ok := e.other.(ShortShortUInt)
	return ok && o == x, nil
}

func (e equalVisitor) ShortInt(x ShortInt) (bool, error) {
	o, ok := e.other.(ShortInt)
	return ok && o == x, nil
}

func (e equalVisitor) ShortUInt(x ShortUInt) (bool, error) {
	o, ok := e.other.(ShortUInt)
	return ok && o == x, nil
}

func (e equalVisitor) LongInt(x LongInt) (bool, error) {
	o, ok := e.other.(LongInt)
	return ok && o == x, nil
}

func (e equalVisitor) LongUInt(x LongUInt) (bool, error) {
	o, ok := e.other.(LongUInt)
	return ok && o == x, nil
}

func (e equalVisitor) LongLongInt(x LongLongInt) (bool, error) {
	o, ok := e.other.(LongLongInt)
	return ok && o == x, nil
}

func (e equalVisitor) Float(x Float) (bool, error) {
	o, ok := e.other.(Float)
	return ok && math.Float32bits(float32(o)) == math.Float32bits(float32(x)), nil
}

func (e equalVisitor) Double(x Double) (bool, error) {
	o, ok := e.other.(Double)
	return ok && math.Float64bits(float64(o)) == math.Float64bits(float64(x)), nil
}

func (e equalVisitor) Decimal(x DecimalValue) (bool, error) {
	o, ok := e.other.(DecimalValue)
	return ok && o == x, nil
}

func (e equalVisitor) LongString(x LongString) (bool, error) {
	o, ok := e.other.(LongString)
	return ok && o == x, nil
}

func (e equalVisitor) ShortString(x ShortString) (bool, error) {
	o, ok := e.other.(ShortString)
	return ok && o == x, nil
}

func (e equalVisitor) Timestamp(x Timestamp) (bool, error) {
	o, ok := e.other.(Timestamp)
	return ok && o == x, nil
}

func (e equalVisitor) FieldArray(x FieldArray) (bool, error) {
	o, ok := e.other.(FieldArray)
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

func (e equalVisitor) FieldTable(x *FieldTable) (bool, error) {
	o, ok := e.other.(*FieldTable)
	return ok && x.Equal(o), nil
}

func (e equalVisitor) ByteArray(x ByteArray) (bool, error) {
	o, ok := e.other.(ByteArray)
	return ok && slices.Equal(o, x), nil
}

func (e equalVisitor) Void() (bool, error) {
	if e.other == nil {
		return true, nil
	}
	_, ok := e.other.(Void)
	return ok, nil
}
