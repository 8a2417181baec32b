package amqp

import (
	"encoding/binary"
	"fmt"
)

// Big-endian primitives as laid out on the wire.
func encodeShort(v uint16) []byte    { return binary.BigEndian.AppendUint16(nil, v) }
func encodeLong(v uint32) []byte     { return binary.BigEndian.AppendUint32(nil, v) }
func encodeLongLong(v uint64) []byte { return binary.BigEndian.AppendUint64(nil, v) }

// encodeLongStr prefixes s with its 32-bit length.
func encodeLongStr(s string) []byte {
	return append(binary.BigEndian.AppendUint32(make([]byte, 0, 4+len(s)), uint32(len(s))), s...)
}

// shortstr: 1-byte length + bytes. Strings that do not fit are rejected
// rather than truncated.
func encodeShortStr(s string) ([]byte, error) {
	if len(s) > 255 {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortStringTooLong, len(s))
	}
	b := make([]byte, 1+len(s))
	b[0] = byte(len(s))
	copy(b[1:], s)
	return b, nil
}

// decoder walks a byte slice, failing with ErrMalformed when a read would
// run past the end.
type decoder struct {
	b   []byte
	pos int
}

func (d *decoder) need(n int) error {
	if n < 0 || d.pos+n > len(d.b) {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrMalformed, n, d.pos, len(d.b)-d.pos)
	}
	return nil
}

func (d *decoder) next(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	p := d.b[d.pos : d.pos+n]
	d.pos += n
	return p, nil
}

func (d *decoder) octet() (byte, error) {
	p, err := d.next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (d *decoder) short() (uint16, error) {
	p, err := d.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (d *decoder) long() (uint32, error) {
	p, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (d *decoder) longLong() (uint64, error) {
	p, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

func (d *decoder) shortStr() (string, error) {
	l, err := d.octet()
	if err != nil {
		return "", err
	}
	p, err := d.next(int(l))
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// longBytes reads a 4-byte length prefix and returns the bytes that follow.
// The result aliases the input.
func (d *decoder) longBytes() ([]byte, error) {
	l, err := d.long()
	if err != nil {
		return nil, err
	}
	if uint64(l) > uint64(len(d.b)-d.pos) {
		return nil, fmt.Errorf("%w: length %d at offset %d exceeds remaining %d bytes", ErrMalformed, l, d.pos, len(d.b)-d.pos)
	}
	return d.next(int(l))
}
