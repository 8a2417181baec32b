package amqp

import (
	"bytes"
	"fmt"
	"time"
)

// BasicProperties represents the content header properties of the basic
// class. Headers is nil when the property is absent.
type BasicProperties struct {
	ContentType     string
	ContentEncoding string
	Headers         *FieldTable
	DeliveryMode    uint8
	Priority        uint8
	CorrelationId   string
	ReplyTo         string
	Expiration      string
	MessageId       string
	Timestamp       time.Time
	Type            string
	UserId          string
	AppId           string
	ClusterId       string
}

// ContentHeader is the payload of a content header frame.
type ContentHeader struct {
	ClassID    uint16
	Weight     uint16
	BodySize   uint64
	Properties BasicProperties
}

// property flag bits, most significant first
const (
	flagContentType     = 1 << 15
	flagContentEncoding = 1 << 14
	flagHeaders         = 1 << 13
	flagDeliveryMode    = 1 << 12
	flagPriority        = 1 << 11
	flagCorrelationId   = 1 << 10
	flagReplyTo         = 1 << 9
	flagExpiration      = 1 << 8
	flagMessageId       = 1 << 7
	flagTimestamp       = 1 << 6
	flagType            = 1 << 5
	flagUserId          = 1 << 4
	flagAppId           = 1 << 3
	flagClusterId       = 1 << 2
)

// ParseContentHeader parses a content header frame payload: class-id,
// weight, body-size, property flags and the properties they announce.
func ParseContentHeader(payload []byte) (ContentHeader, error) {
	d := &decoder{b: payload}
	var h ContentHeader
	var err error
	if h.ClassID, err = d.short(); err != nil {
		return ContentHeader{}, fmt.Errorf("content header: %w", err)
	}
	if h.Weight, err = d.short(); err != nil {
		return ContentHeader{}, fmt.Errorf("content header: %w", err)
	}
	if h.BodySize, err = d.longLong(); err != nil {
		return ContentHeader{}, fmt.Errorf("content header: %w", err)
	}
	flags, err := d.short()
	if err != nil {
		return ContentHeader{}, fmt.Errorf("content header flags: %w", err)
	}
	// continuation flag words carry no basic properties but must be consumed
	for fw := flags; fw&1 == 1; {
		if fw, err = d.short(); err != nil {
			return ContentHeader{}, fmt.Errorf("content header flags: %w", err)
		}
	}
	if err := h.Properties.decode(d, flags); err != nil {
		return ContentHeader{}, fmt.Errorf("content header properties: %w", err)
	}
	return h, nil
}

func (p *BasicProperties) decode(d *decoder, flags uint16) error {
	shortStrs := []struct {
		flag uint16
		dst  *string
	}{
		{flagContentType, &p.ContentType},
		{flagContentEncoding, &p.ContentEncoding},
	}
	for _, s := range shortStrs {
		if flags&s.flag == 0 {
			continue
		}
		v, err := d.shortStr()
		if err != nil {
			return err
		}
		*s.dst = v
	}
	var err error
	if flags&flagHeaders != 0 {
		if p.Headers, err = d.table(0); err != nil {
			return fmt.Errorf("headers: %w", err)
		}
	}
	if flags&flagDeliveryMode != 0 {
		if p.DeliveryMode, err = d.octet(); err != nil {
			return err
		}
	}
	if flags&flagPriority != 0 {
		if p.Priority, err = d.octet(); err != nil {
			return err
		}
	}
	shortStrs = []struct {
		flag uint16
		dst  *string
	}{
		{flagCorrelationId, &p.CorrelationId},
		{flagReplyTo, &p.ReplyTo},
		{flagExpiration, &p.Expiration},
		{flagMessageId, &p.MessageId},
	}
	for _, s := range shortStrs {
		if flags&s.flag == 0 {
			continue
		}
		if *s.dst, err = d.shortStr(); err != nil {
			return err
		}
	}
	if flags&flagTimestamp != 0 {
		ts, err := d.longLong()
		if err != nil {
			return err
		}
		p.Timestamp = time.Unix(int64(ts), 0)
	}
	shortStrs = []struct {
		flag uint16
		dst  *string
	}{
		{flagType, &p.Type},
		{flagUserId, &p.UserId},
		{flagAppId, &p.AppId},
		{flagClusterId, &p.ClusterId},
	}
	for _, s := range shortStrs {
		if flags&s.flag == 0 {
			continue
		}
		if *s.dst, err = d.shortStr(); err != nil {
			return err
		}
	}
	return nil
}

// Encode builds the content header frame payload. Empty string properties,
// zero octets, a zero Timestamp and a nil Headers table are omitted.
func (h ContentHeader) Encode() ([]byte, error) {
	p := h.Properties
	var flags uint16
	var props bytes.Buffer

	shortStr := func(flag uint16, s string) error {
		if s == "" {
			return nil
		}
		b, err := encodeShortStr(s)
		if err != nil {
			return err
		}
		flags |= flag
		props.Write(b)
		return nil
	}

	if err := shortStr(flagContentType, p.ContentType); err != nil {
		return nil, fmt.Errorf("content-type: %w", err)
	}
	if err := shortStr(flagContentEncoding, p.ContentEncoding); err != nil {
		return nil, fmt.Errorf("content-encoding: %w", err)
	}
	if p.Headers != nil {
		tbl, err := WriteFieldTable(p.Headers)
		if err != nil {
			return nil, fmt.Errorf("headers: %w", err)
		}
		flags |= flagHeaders
		props.Write(tbl)
	}
	if p.DeliveryMode != 0 {
		flags |= flagDeliveryMode
		props.WriteByte(p.DeliveryMode)
	}
	if p.Priority != 0 {
		flags |= flagPriority
		props.WriteByte(p.Priority)
	}
	for _, s := range []struct {
		name  string
		flag  uint16
		value string
	}{
		{"correlation-id", flagCorrelationId, p.CorrelationId},
		{"reply-to", flagReplyTo, p.ReplyTo},
		{"expiration", flagExpiration, p.Expiration},
		{"message-id", flagMessageId, p.MessageId},
	} {
		if err := shortStr(s.flag, s.value); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	if !p.Timestamp.IsZero() {
		flags |= flagTimestamp
		props.Write(encodeLongLong(uint64(p.Timestamp.Unix())))
	}
	for _, s := range []struct {
		name  string
		flag  uint16
		value string
	}{
		{"type", flagType, p.Type},
		{"user-id", flagUserId, p.UserId},
		{"app-id", flagAppId, p.AppId},
		{"cluster-id", flagClusterId, p.ClusterId},
	} {
		if err := shortStr(s.flag, s.value); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}

	// class-id (short), weight (short), body-size (longlong), property-flags (short)
	var buf bytes.Buffer
	buf.Write(encodeShort(h.ClassID))
	buf.Write(encodeShort(h.Weight))
	buf.Write(encodeLongLong(h.BodySize))
	buf.Write(encodeShort(flags))
	buf.Write(props.Bytes())
	return buf.Bytes(), nil
}
