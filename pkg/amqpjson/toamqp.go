package amqpjson

import (
	"github.com/ericogr/amqp-json/pkg/amqp"
	"github.com/ericogr/amqp-json/pkg/document"
)

// ToAMQP converts a JSON value to an AMQP value. A nil value converts like
// document.Null.
//
// Numbers are routed by the first view they offer, in this order: float64
// (Double), int64 (LongLongInt), uint64 (Timestamp). Since integers also have
// a float64 view, the JSON number 5 becomes Double(5).
func ToAMQP(v document.Value) (amqp.Value, error) {
	return document.Accept[amqp.Value](v, toAMQP{})
}

type toAMQP struct{}

func (toAMQP) Bool(v document.Bool) (amqp.Value, error) {
	return amqp.Boolean(v), nil
}

func (toAMQP) Null() (amqp.Value, error) {
	return amqp.Void{}, nil
}

func (toAMQP) Number(n document.Number) (amqp.Value, error) {
	if f, ok := n.Float64(); ok {
		return amqp.Double(f), nil
	}
	if i, ok := n.Int64(); ok {
		return amqp.LongLongInt(i), nil
	}
	// the closest unsigned 64-bit field type is the timestamp
	if u, ok := n.Uint64(); ok {
		return amqp.Timestamp(u), nil
	}
	return nil, ErrNumber
}

func (toAMQP) String(v document.String) (amqp.Value, error) {
	return amqp.LongString(v), nil
}

func (c toAMQP) Array(v document.Array) (amqp.Value, error) {
	out := make(amqp.FieldArray, 0, len(v))
	for _, e := range v {
		a, err := document.Accept[amqp.Value](e, c)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (c toAMQP) Object(v *document.Object) (amqp.Value, error) {
	out := amqp.NewFieldTable()
	for k, e := range v.All() {
		a, err := document.Accept[amqp.Value](e, c)
		if err != nil {
			return nil, err
		}
		out.Set(k, a)
	}
	return out, nil
}
