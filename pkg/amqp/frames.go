package amqp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

const (
	frameHeader    = 2
	frameHeartbeat = 8
	frameEnd       = 0xCE
)

// logger receives debug events for rejected frames and field data. It is a
// no-op until SetLogger is called.
var logger zerolog.Logger = zerolog.Nop()

// SetLogger sets the logger used by the codec, for example
// `zerolog.New(os.Stderr).With().Timestamp().Logger()`.
func SetLogger(l zerolog.Logger) { logger = l }

const (
	MaxFrameSize = 1 << 20 // 1MB

	ClassBasic = 60
)

var (
	// ErrUnexpectedFrame is returned when a frame of another type arrives
	// where a content header was expected.
	ErrUnexpectedFrame = errors.New("amqp: unexpected frame type")
	ErrFrameTooLarge   = errors.New("amqp: frame exceeds size limit")
	ErrFrameEnd        = errors.New("amqp: missing frame-end octet")
)

// Frame is one unit on the connection: type, channel and payload. The
// frame-end octet is added and checked by WriteFrame and ReadFrame.
type Frame struct {
	Type    uint8
	Channel uint16
	Payload []byte
}

// ReadFrame reads the 7-byte frame header, the payload it announces and the
// trailing frame-end octet. Payloads above MaxFrameSize are refused before
// anything is allocated.
func ReadFrame(r io.Reader) (Frame, error) {
	var hdr [7]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Frame{}, err
	}
	f := Frame{Type: hdr[0], Channel: binary.BigEndian.Uint16(hdr[1:3])}
	size := binary.BigEndian.Uint32(hdr[3:7])
	if size > MaxFrameSize {
		return Frame{}, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, size, MaxFrameSize)
	}
	// payload and frame-end in one read
	buf := make([]byte, int(size)+1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Frame{}, err
	}
	if end := buf[size]; end != frameEnd {
		return Frame{}, fmt.Errorf("%w: got 0x%02x", ErrFrameEnd, end)
	}
	f.Payload = buf[:size:size]
	return f, nil
}

// WriteFrame writes f with a single Write call, so frames from concurrent
// writers sharing a locked writer never interleave.
func WriteFrame(w io.Writer, f Frame) error {
	if len(f.Payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(f.Payload), MaxFrameSize)
	}
	buf := make([]byte, 0, 7+len(f.Payload)+1)
	buf = append(buf, f.Type)
	buf = binary.BigEndian.AppendUint16(buf, f.Channel)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(f.Payload)))
	buf = append(buf, f.Payload...)
	buf = append(buf, frameEnd)
	_, err := w.Write(buf)
	return err
}

// ReadContentHeader reads frames from r until a content header frame arrives,
// skipping heartbeats, and parses it. Any other frame type is an error.
func ReadContentHeader(r io.Reader) (uint16, ContentHeader, error) {
	for {
		f, err := ReadFrame(r)
		if err != nil {
			return 0, ContentHeader{}, err
		}
		switch f.Type {
		case frameHeartbeat:
			continue
		case frameHeader:
			h, err := ParseContentHeader(f.Payload)
			if err != nil {
				return 0, ContentHeader{}, err
			}
			logger.Debug().Uint16("chan", f.Channel).Uint64("body_size", h.BodySize).Int("headers", h.Properties.Headers.Len()).Msg("content header")
			return f.Channel, h, nil
		default:
			return 0, ContentHeader{}, fmt.Errorf("%w: %d", ErrUnexpectedFrame, f.Type)
		}
	}
}

// WriteContentHeader encodes h and writes it as a content header frame on
// channel.
func WriteContentHeader(w io.Writer, channel uint16, h ContentHeader) error {
	payload, err := h.Encode()
	if err != nil {
		return err
	}
	return WriteFrame(w, Frame{Type: frameHeader, Channel: channel, Payload: payload})
}
