// Package amqpjson converts between AMQP field values and JSON values.
//
// The mapping is lossy. Every AMQP integer width becomes a plain JSON
// number. In the other direction, every JSON number that has a float64 view
// becomes a Double, integers included. Decimals and non-finite floats have no
// JSON form and fail. Composite values convert depth first and stop at the
// first failing element; no partial result is returned.
//
// The functions keep no state and are safe for concurrent use.
package amqpjson

import (
	"github.com/ericogr/amqp-json/pkg/amqp"
	"github.com/ericogr/amqp-json/pkg/document"
)

// ToJSON converts an AMQP value to a JSON value. A nil value converts like
// amqp.Void.
func ToJSON(v amqp.Value) (document.Value, error) {
	return amqp.Accept[document.Value](v, toJSON{})
}

type toJSON struct{}

func (toJSON) Boolean(v amqp.Boolean) (document.Value, error) {
	return document.Bool(v), nil
}

func (toJSON) ShortShortInt(v amqp.ShortShortInt) (document.Value, error) {
	return document.IntNumber(int64(v)), nil
}

func (toJSON) ShortShortUInt(v amqp.ShortShortUInt) (document.Value, error) {
	return document.UintNumber(uint64(v)), nil
}

func (toJSON) ShortInt(v amqp.ShortInt) (document.Value, error) {
	return document.IntNumber(int64(v)), nil
}

func (toJSON) ShortUInt(v amqp.ShortUInt) (document.Value, error) {
	return document.UintNumber(uint64(v)), nil
}

func (toJSON) LongInt(v amqp.LongInt) (document.Value, error) {
	return document.IntNumber(int64(v)), nil
}

func (toJSON) LongUInt(v amqp.LongUInt) (document.Value, error) {
	return document.UintNumber(uint64(v)), nil
}

func (toJSON) LongLongInt(v amqp.LongLongInt) (document.Value, error) {
	return document.IntNumber(int64(v)), nil
}

func (toJSON) Timestamp(v amqp.Timestamp) (document.Value, error) {
	return document.UintNumber(uint64(v)), nil
}

func (toJSON) Float(v amqp.Float) (document.Value, error) {
	n, ok := document.FloatNumber(float64(v))
	if !ok {
		return nil, ToJSONError{Kind: InvalidFloat, Float: float32(v)}
	}
	return n, nil
}

func (toJSON) Double(v amqp.Double) (document.Value, error) {
	n, ok := document.FloatNumber(float64(v))
	if !ok {
		return nil, ToJSONError{Kind: InvalidDouble, Double: float64(v)}
	}
	return n, nil
}

func (toJSON) Decimal(amqp.DecimalValue) (document.Value, error) {
	return nil, ErrUnimplemented
}

func (toJSON) LongString(v amqp.LongString) (document.Value, error) {
	return document.String(v), nil
}

func (toJSON) ShortString(v amqp.ShortString) (document.Value, error) {
	return document.String(v), nil
}

func (c toJSON) FieldArray(v amqp.FieldArray) (document.Value, error) {
	out := make(document.Array, 0, len(v))
	for _, e := range v {
		j, err := amqp.Accept[document.Value](e, c)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func (c toJSON) FieldTable(v *amqp.FieldTable) (document.Value, error) {
	out := document.NewObject()
	for k, e := range v.All() {
		j, err := amqp.Accept[document.Value](e, c)
		if err != nil {
			return nil, err
		}
		out.Set(k, j)
	}
	return out, nil
}

func (toJSON) ByteArray(v amqp.ByteArray) (document.Value, error) {
	out := make(document.Array, len(v))
	for i, b := range v {
		out[i] = document.UintNumber(uint64(b))
	}
	return out, nil
}

func (toJSON) Void() (document.Value, error) {
	return document.Null{}, nil
}
