package amqpjson

import (
	"fmt"
	"math"
)

// ToJSONErrorKind identifies why an AMQP value has no JSON form.
type ToJSONErrorKind int

const (
	// InvalidFloat: a Float that is NaN or infinite.
	InvalidFloat ToJSONErrorKind = iota + 1
	// InvalidDouble: a Double that is NaN or infinite.
	InvalidDouble
	// Unimplemented: a variant without a JSON counterpart (decimals).
	Unimplemented
)

func (k ToJSONErrorKind) String() string {
	switch k {
	case InvalidFloat:
		return "InvalidFloat"
	case InvalidDouble:
		return "InvalidDouble"
	case Unimplemented:
		return "Unimplemented"
	}
	return fmt.Sprintf("ToJSONErrorKind(%d)", int(k))
}

// ToJSONError is returned by ToJSON. Float carries the offending value for
// InvalidFloat and Double for InvalidDouble. The type is a plain value: copy
// it freely and compare it with Equal or errors.Is.
type ToJSONError struct {
	Kind   ToJSONErrorKind
	Float  float32
	Double float64
}

// ErrUnimplemented matches, through errors.Is, the error returned for
// decimal values.
var ErrUnimplemented = ToJSONError{Kind: Unimplemented}

func (e ToJSONError) Error() string {
	switch e.Kind {
	case InvalidFloat:
		return fmt.Sprintf("Invalid float: %v", e.Float)
	case InvalidDouble:
		return fmt.Sprintf("Invalid float: %v", e.Double)
	case Unimplemented:
		return "Conversion not implemented"
	}
	return e.Kind.String()
}

// Equal compares kinds and payloads. Payloads compare bit for bit, so an
// error carrying NaN equals another carrying the same NaN.
func (e ToJSONError) Equal(o ToJSONError) bool {
	return e.Kind == o.Kind &&
		math.Float32bits(e.Float) == math.Float32bits(o.Float) &&
		math.Float64bits(e.Double) == math.Float64bits(o.Double)
}

func (e ToJSONError) Is(target error) bool {
	switch t := target.(type) {
	case ToJSONError:
		return e.Equal(t)
	case *ToJSONError:
		return t != nil && e.Equal(*t)
	}
	return false
}

// ToAMQPErrorKind identifies why a JSON value has no AMQP form.
type ToAMQPErrorKind int

const (
	// NumberError: a number with none of the float64, int64 or uint64 views.
	NumberError ToAMQPErrorKind = iota + 1
)

func (k ToAMQPErrorKind) String() string {
	if k == NumberError {
		return "NumberError"
	}
	return fmt.Sprintf("ToAMQPErrorKind(%d)", int(k))
}

// ToAMQPError is returned by ToAMQP.
type ToAMQPError struct {
	Kind ToAMQPErrorKind
}

// ErrNumber matches, through errors.Is, the error returned for numbers that
// fit no AMQP numeric type.
var ErrNumber = ToAMQPError{Kind: NumberError}

func (e ToAMQPError) Error() string {
	if e.Kind == NumberError {
		return "Error converting number to an AMQPValue"
	}
	return e.Kind.String()
}

func (e ToAMQPError) Equal(o ToAMQPError) bool { return e.Kind == o.Kind }

func (e ToAMQPError) Is(target error) bool {
	switch t := target.(type) {
	case ToAMQPError:
		return e.Equal(t)
	case *ToAMQPError:
		return t != nil && e.Equal(*t)
	}
	return false
}
