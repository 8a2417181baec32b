package amqp

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"time"

	amqp091 "github.com/rabbitmq/amqp091-go"
)

// ToTable converts t into the representation used by amqp091-go for
// headers and method arguments. amqp091-go has no unsigned 16/32-bit field
// types, so ShortUInt and LongUInt are widened to int32 and int64. Short
// strings become plain strings and timestamps become time.Time.
func ToTable(t *FieldTable) (amqp091.Table, error) {
	if t == nil {
		return nil, nil
	}
	v, err := Accept[any](t, goValue{})
	if err != nil {
		return nil, err
	}
	return v.(amqp091.Table), nil
}

// FromTable converts an amqp091-go table into a FieldTable. Go maps have no
// order, so keys are inserted in sorted order. Decimal values are unsigned
// here, so a negative amqp091.Decimal is rejected.
func FromTable(t amqp091.Table) (*FieldTable, error) {
	return fromTable(t, 0)
}

type goValue struct{ depth int }

func (goValue) Boolean(v Boolean) (any, error)               { return bool(v), nil }
func (goValue) ShortShortInt(v ShortShortInt) (any, error)   { return int8(v), nil }
func (goValue) ShortShortUInt(v ShortShortUInt) (any, error) { return byte(v), nil }
func (goValue) ShortInt(v ShortInt) (any, error)             { return int16(v), nil }
func (goValue) ShortUInt(v ShortUInt) (any, error)           { return int32(v), nil }
func (goValue) LongInt(v LongInt) (any, error)               { return int32(v), nil }
func (goValue) LongUInt(v LongUInt) (any, error)             { return int64(v), nil }
func (goValue) LongLongInt(v LongLongInt) (any, error)       { return int64(v), nil }
func (goValue) Float(v Float) (any, error)                   { return float32(v), nil }
func (goValue) Double(v Double) (any, error)                 { return float64(v), nil }
func (goValue) LongString(v LongString) (any, error)         { return string(v), nil }
func (goValue) ShortString(v ShortString) (any, error)       { return string(v), nil }
func (goValue) ByteArray(v ByteArray) (any, error)           { return bytes.Clone(v), nil }
func (goValue) Void() (any, error)                           { return nil, nil }

func (goValue) Decimal(v DecimalValue) (any, error) {
	if v.Value > math.MaxInt32 {
		return nil, fmt.Errorf("%w: decimal value %d does not fit int32", ErrFieldType, v.Value)
	}
	return amqp091.Decimal{Scale: v.Scale, Value: int32(v.Value)}, nil
}

func (goValue) Timestamp(v Timestamp) (any, error) {
	if v > math.MaxInt64 {
		return nil, fmt.Errorf("%w: timestamp %d out of range", ErrFieldType, uint64(v))
	}
	return time.Unix(int64(v), 0), nil
}

func (g goValue) FieldArray(v FieldArray) (any, error) {
	if g.depth >= MaxNestingDepth {
		return nil, ErrNestingTooDeep
	}
	out := make([]any, 0, len(v))
	for i, e := range v {
		gv, err := Accept[any](e, goValue{depth: g.depth + 1})
		if err != nil {
			return nil, fmt.Errorf("field array [%d]: %w", i, err)
		}
		out = append(out, gv)
	}
	return out, nil
}

func (g goValue) FieldTable(v *FieldTable) (any, error) {
	if g.depth >= MaxNestingDepth {
		return nil, ErrNestingTooDeep
	}
	out := make(amqp091.Table, v.Len())
	for k, e := range v.All() {
		gv, err := Accept[any](e, goValue{depth: g.depth + 1})
		if err != nil {
			return nil, fmt.Errorf("field table %q: %w", k, err)
		}
		out[k] = gv
	}
	return out, nil
}

func fromTable(t map[string]any, depth int) (*FieldTable, error) {
	if depth >= MaxNestingDepth {
		return nil, ErrNestingTooDeep
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := NewFieldTable()
	for _, k := range keys {
		v, err := fromGo(t[k], depth+1)
		if err != nil {
			return nil, fmt.Errorf("field table %q: %w", k, err)
		}
		out.Set(k, v)
	}
	return out, nil
}

func fromGo(v any, depth int) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Void{}, nil
	case bool:
		return Boolean(v), nil
	case int8:
		return ShortShortInt(v), nil
	case byte:
		return ShortShortUInt(v), nil
	case int16:
		return ShortInt(v), nil
	case uint16:
		return ShortUInt(v), nil
	case int32:
		return LongInt(v), nil
	case uint32:
		return LongUInt(v), nil
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return LongInt(v), nil
		}
		return LongLongInt(v), nil
	case int64:
		return LongLongInt(v), nil
	case float32:
		return Float(v), nil
	case float64:
		return Double(v), nil
	case amqp091.Decimal:
		if v.Value < 0 {
			return nil, fmt.Errorf("%w: negative decimal value %d", ErrFieldType, v.Value)
		}
		return DecimalValue{Scale: v.Scale, Value: uint32(v.Value)}, nil
	case string:
		return LongString(v), nil
	case []byte:
		return ByteArray(bytes.Clone(v)), nil
	case time.Time:
		if v.Unix() < 0 {
			return nil, fmt.Errorf("%w: timestamp %s before epoch", ErrFieldType, v)
		}
		return Timestamp(v.Unix()), nil
	case []any:
		if depth >= MaxNestingDepth {
			return nil, ErrNestingTooDeep
		}
		out := make(FieldArray, 0, len(v))
		for i, e := range v {
			fv, err := fromGo(e, depth+1)
			if err != nil {
				return nil, fmt.Errorf("field array [%d]: %w", i, err)
			}
			out = append(out, fv)
		}
		return out, nil
	case amqp091.Table:
		return fromTable(v, depth)
	case map[string]any:
		return fromTable(v, depth)
	}
	return nil, fmt.Errorf("%w: %T", ErrFieldType, v)
}
