package amqp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Field value type tags, following the RabbitMQ errata of AMQP 0-9-1.
const (
	tagBoolean        = 't'
	tagShortShortInt  = 'b'
	tagShortShortUInt = 'B'
	tagShortInt       = 's'
	tagShortUInt      = 'u'
	tagLongInt        = 'I'
	tagLongUInt       = 'i'
	tagLongLongInt    = 'l'
	tagFloat          = 'f'
	tagDouble         = 'd'
	tagDecimal        = 'D'
	tagLongString     = 'S'
	tagTimestamp      = 'T'
	tagFieldArray     = 'A'
	tagFieldTable     = 'F'
	tagByteArray      = 'x'
	tagVoid           = 'V'
)

// MaxNestingDepth bounds how deeply field arrays and tables may nest when
// encoding or decoding.
const MaxNestingDepth = 64

var (
	ErrMalformed          = errors.New("amqp: malformed field data")
	ErrFieldType          = errors.New("amqp: unsupported field type")
	ErrNestingTooDeep     = errors.New("amqp: field nesting too deep")
	ErrShortStringTooLong = errors.New("amqp: short string longer than 255 bytes")
)

// WriteFieldTable encodes t as a length-prefixed field table.
func WriteFieldTable(t *FieldTable) ([]byte, error) {
	w := &fieldWriter{}
	if err := w.table(t); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// WriteFieldArray encodes a as a length-prefixed field array.
func WriteFieldArray(a FieldArray) ([]byte, error) {
	w := &fieldWriter{}
	if err := w.array(a); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// WriteValue encodes v as a type tag followed by its payload.
func WriteValue(v Value) ([]byte, error) {
	w := &fieldWriter{}
	if _, err := Accept[struct{}](v, w); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

// ReadFieldTable decodes a length-prefixed field table from the start of b and
// returns it with the number of bytes consumed. Duplicate keys keep the last
// value seen.
func ReadFieldTable(b []byte) (*FieldTable, int, error) {
	d := &decoder{b: b}
	t, err := d.table(0)
	if err != nil {
		logger.Debug().Err(err).Int("len", len(b)).Msg("field table rejected")
		return nil, 0, err
	}
	return t, d.pos, nil
}

// ReadFieldArray decodes a length-prefixed field array from the start of b.
func ReadFieldArray(b []byte) (FieldArray, int, error) {
	d := &decoder{b: b}
	a, err := d.array(0)
	if err != nil {
		logger.Debug().Err(err).Int("len", len(b)).Msg("field array rejected")
		return nil, 0, err
	}
	return a, d.pos, nil
}

// ReadValue decodes one tagged field value from the start of b.
func ReadValue(b []byte) (Value, int, error) {
	d := &decoder{b: b}
	v, err := d.value(0)
	if err != nil {
		logger.Debug().Err(err).Int("len", len(b)).Msg("field value rejected")
		return nil, 0, err
	}
	return v, d.pos, nil
}

func (d *decoder) table(depth int) (*FieldTable, error) {
	if depth > MaxNestingDepth {
		return nil, ErrNestingTooDeep
	}
	body, err := d.longBytes()
	if err != nil {
		return nil, fmt.Errorf("field table: %w", err)
	}
	sub := &decoder{b: body}
	t := NewFieldTable()
	for sub.pos < len(sub.b) {
		key, err := sub.shortStr()
		if err != nil {
			return nil, fmt.Errorf("field table key: %w", err)
		}
		v, err := sub.value(depth)
		if err != nil {
			return nil, fmt.Errorf("field table %q: %w", key, err)
		}
		t.Set(key, v)
	}
	return t, nil
}

func (d *decoder) array(depth int) (FieldArray, error) {
	if depth > MaxNestingDepth {
		return nil, ErrNestingTooDeep
	}
	body, err := d.longBytes()
	if err != nil {
		return nil, fmt.Errorf("field array: %w", err)
	}
	sub := &decoder{b: body}
	a := FieldArray{}
	for sub.pos < len(sub.b) {
		v, err := sub.value(depth)
		if err != nil {
			return nil, fmt.Errorf("field array [%d]: %w", len(a), err)
		}
		a = append(a, v)
	}
	return a, nil
}

func (d *decoder) value(depth int) (Value, error) {
	tag, err := d.octet()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagBoolean:
		b, err := d.octet()
		return Boolean(b != 0), err
	case tagShortShortInt:
		b, err := d.octet()
		return ShortShortInt(int8(b)), err
	case tagShortShortUInt:
		b, err := d.octet()
		return ShortShortUInt(b), err
	case tagShortInt:
		v, err := d.short()
		return ShortInt(int16(v)), err
	case tagShortUInt:
		v, err := d.short()
		return ShortUInt(v), err
	case tagLongInt:
		v, err := d.long()
		return LongInt(int32(v)), err
	case tagLongUInt:
		v, err := d.long()
		return LongUInt(v), err
	case tagLongLongInt:
		v, err := d.longLong()
		return LongLongInt(int64(v)), err
	case tagFloat:
		v, err := d.long()
		return Float(math.Float32frombits(v)), err
	case tagDouble:
		v, err := d.longLong()
		return Double(math.Float64frombits(v)), err
	case tagDecimal:
		scale, err := d.octet()
		if err != nil {
			return nil, err
		}
		v, err := d.long()
		return DecimalValue{Scale: scale, Value: v}, err
	case tagLongString:
		p, err := d.longBytes()
		return LongString(p), err
	case tagTimestamp:
		v, err := d.longLong()
		return Timestamp(v), err
	case tagFieldArray:
		return d.array(depth + 1)
	case tagFieldTable:
		return d.table(depth + 1)
	case tagByteArray:
		p, err := d.longBytes()
		return ByteArray(bytes.Clone(p)), err
	case tagVoid:
		return Void{}, nil
	}
	return nil, fmt.Errorf("%w: tag %q at offset %d", ErrFieldType, tag, d.pos-1)
}

// fieldWriter encodes values with their type tags. Short strings are
// written as long strings ('S'), which is what RabbitMQ and amqp091-go
// expect inside tables.
type fieldWriter struct {
	buf   bytes.Buffer
	depth int
}

func (w *fieldWriter) tagged(tag byte, payload []byte) (struct{}, error) {
	w.buf.WriteByte(tag)
	w.buf.Write(payload)
	return struct{}{}, nil
}

func (w *fieldWriter) Boolean(v Boolean) (struct{}, error) {
	var b byte
	if v {
		b = 1
	}
	return w.tagged(tagBoolean, []byte{b})
}

func (w *fieldWriter) ShortShortInt(v ShortShortInt) (struct{}, error) {
	return w.tagged(tagShortShortInt, []byte{byte(v)})
}

func (w *fieldWriter) ShortShortUInt(v ShortShortUInt) (struct{}, error) {
	return w.tagged(tagShortShortUInt, []byte{byte(v)})
}

func (w *fieldWriter) ShortInt(v ShortInt) (struct{}, error) {
	return w.tagged(tagShortInt, encodeShort(uint16(v)))
}

func (w *fieldWriter) ShortUInt(v ShortUInt) (struct{}, error) {
	return w.tagged(tagShortUInt, encodeShort(uint16(v)))
}

func (w *fieldWriter) LongInt(v LongInt) (struct{}, error) {
	return w.tagged(tagLongInt, encodeLong(uint32(v)))
}

func (w *fieldWriter) LongUInt(v LongUInt) (struct{}, error) {
	return w.tagged(tagLongUInt, encodeLong(uint32(v)))
}

func (w *fieldWriter) LongLongInt(v LongLongInt) (struct{}, error) {
	return w.tagged(tagLongLongInt, encodeLongLong(uint64(v)))
}

func (w *fieldWriter) Float(v Float) (struct{}, error) {
	return w.tagged(tagFloat, encodeLong(math.Float32bits(float32(v))))
}

func (w *fieldWriter) Double(v Double) (struct{}, error) {
	return w.tagged(tagDouble, encodeLongLong(math.Float64bits(float64(v))))
}

func (w *fieldWriter) Decimal(v DecimalValue) (struct{}, error) {
	return w.tagged(tagDecimal, append([]byte{v.Scale}, encodeLong(v.Value)...))
}

func (w *fieldWriter) LongString(v LongString) (struct{}, error) {
	return w.tagged(tagLongString, encodeLongStr(string(v)))
}

func (w *fieldWriter) ShortString(v ShortString) (struct{}, error) {
	return w.tagged(tagLongString, encodeLongStr(string(v)))
}

func (w *fieldWriter) Timestamp(v Timestamp) (struct{}, error) {
	return w.tagged(tagTimestamp, encodeLongLong(uint64(v)))
}

func (w *fieldWriter) FieldArray(v FieldArray) (struct{}, error) {
	w.buf.WriteByte(tagFieldArray)
	w.depth++
	defer func() { w.depth-- }()
	return struct{}{}, w.array(v)
}

func (w *fieldWriter) FieldTable(v *FieldTable) (struct{}, error) {
	w.buf.WriteByte(tagFieldTable)
	w.depth++
	defer func() { w.depth-- }()
	return struct{}{}, w.table(v)
}

func (w *fieldWriter) ByteArray(v ByteArray) (struct{}, error) {
	return w.tagged(tagByteArray, encodeLongStr(string(v)))
}

func (w *fieldWriter) Void() (struct{}, error) {
	return w.tagged(tagVoid, nil)
}

// array writes a length-prefixed sequence of tagged values.
func (w *fieldWriter) array(a FieldArray) error {
	if w.depth > MaxNestingDepth {
		return ErrNestingTooDeep
	}
	sub := &fieldWriter{depth: w.depth}
	for i, v := range a {
		if _, err := Accept[struct{}](v, sub); err != nil {
			return fmt.Errorf("field array [%d]: %w", i, err)
		}
	}
	w.lengthPrefixed(sub.buf.Bytes())
	return nil
}

// table writes a length-prefixed sequence of shortstr keys and tagged values.
func (w *fieldWriter) table(t *FieldTable) error {
	if w.depth > MaxNestingDepth {
		return ErrNestingTooDeep
	}
	sub := &fieldWriter{depth: w.depth}
	for k, v := range t.All() {
		key, err := encodeShortStr(k)
		if err != nil {
			return fmt.Errorf("field table key: %w", err)
		}
		sub.buf.Write(key)
		if _, err := Accept[struct{}](v, sub); err != nil {
			return fmt.Errorf("field table %q: %w", k, err)
		}
	}
	w.lengthPrefixed(sub.buf.Bytes())
	return nil
}

func (w *fieldWriter) lengthPrefixed(body []byte) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(body)))
	w.buf.Write(l[:])
	w.buf.Write(body)
}
