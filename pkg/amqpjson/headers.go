package amqpjson

import (
	"errors"
	"fmt"

	"github.com/ericogr/amqp-json/pkg/amqp"
	"github.com/ericogr/amqp-json/pkg/document"
	amqp091 "github.com/rabbitmq/amqp091-go"
)

// ErrNotObject is returned when a table is requested from a JSON value that
// is not an object.
var ErrNotObject = errors.New("amqpjson: JSON value is not an object")

// TableToJSON converts a field table to a JSON object.
func TableToJSON(t *amqp.FieldTable) (*document.Object, error) {
	v, err := ToJSON(t)
	if err != nil {
		return nil, err
	}
	return v.(*document.Object), nil
}

// JSONToTable converts a JSON object to a field table.
func JSONToTable(v document.Value) (*amqp.FieldTable, error) {
	obj, ok := v.(*document.Object)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, kindOf(v))
	}
	t, err := ToAMQP(obj)
	if err != nil {
		return nil, err
	}
	return t.(*amqp.FieldTable), nil
}

// HeadersToJSON converts amqp091-go message headers (for example
// Delivery.Headers) to a JSON object.
func HeadersToJSON(h amqp091.Table) (*document.Object, error) {
	t, err := amqp.FromTable(h)
	if err != nil {
		return nil, err
	}
	return TableToJSON(t)
}

// JSONToHeaders converts a JSON object to amqp091-go message headers.
func JSONToHeaders(v document.Value) (amqp091.Table, error) {
	t, err := JSONToTable(v)
	if err != nil {
		return nil, err
	}
	return amqp.ToTable(t)
}

func kindOf(v document.Value) string {
	k, _ := document.Accept[string](v, kindName{})
	return k
}

type kindName struct{}

func (kindName) Bool(document.Bool) (string, error)      { return "boolean", nil }
func (kindName) Null() (string, error)                   { return "null", nil }
func (kindName) Number(document.Number) (string, error)  { return "number", nil }
func (kindName) String(document.String) (string, error)  { return "string", nil }
func (kindName) Array(document.Array) (string, error)    { return "array", nil }
func (kindName) Object(*document.Object) (string, error) { return "object", nil }
