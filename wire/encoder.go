package wire

// Encoder is the write-side mirror of Decoder: a cursor over a caller-
// provided output buffer, sized in advance by a packet type's Validate
// pre-pass (see v311.go/v5.go). Put* methods never grow buf; a buffer too
// small for a write yields ErrUnexpectedLength rather than a panic. Unused
// bytes left at the end of a larger buffer are not reported.
type Encoder struct {
	buf []byte
	off int
}

// NewEncoder wraps buf in an Encoder starting at offset 0.
func NewEncoder(buf []byte) *Encoder {
	return &Encoder{buf: buf}
}

// Off reports how many bytes have been written so far.
func (e *Encoder) Off() int { return e.off }

func (e *Encoder) room(n int) error {
	if len(e.buf)-e.off < n {
		return wrap(ErrUnexpectedLength, "output buffer too small")
	}
	return nil
}

// PutU8 writes one byte.
func (e *Encoder) PutU8(v byte) error {
	if err := e.room(1); err != nil {
		return err
	}
	e.buf[e.off] = v
	e.off++
	return nil
}

// PutU16 writes a big-endian uint16.
func (e *Encoder) PutU16(v uint16) error {
	if err := e.room(2); err != nil {
		return err
	}
	e.buf[e.off] = byte(v >> 8)
	e.buf[e.off+1] = byte(v)
	e.off += 2
	return nil
}

// PutU32 writes a big-endian uint32.
func (e *Encoder) PutU32(v uint32) error {
	if err := e.room(4); err != nil {
		return err
	}
	b := e.buf[e.off:]
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
	e.off += 4
	return nil
}

// PutUvar writes the canonical Variable Byte Integer encoding of v.
func (e *Encoder) PutUvar(v uint32) error {
	enc, n, err := Encode(v)
	if err != nil {
		return err
	}
	if err := e.room(n); err != nil {
		return err
	}
	copy(e.buf[e.off:], enc[:n])
	e.off += n
	return nil
}

// PutBool writes 1 or 0.
func (e *Encoder) PutBool(v bool) error {
	if v {
		return e.PutU8(1)
	}
	return e.PutU8(0)
}

// PutByteString writes a 16-bit length prefix followed by b. b may be a
// binary payload (PUBLISH payload, will payload, password) or a UTF-8
// string already routed through PutUTF8String; either way the 16-bit
// prefix cannot represent a length over 65535, so that's checked here
// rather than left to silently truncate via uint16(len(b)).
func (e *Encoder) PutByteString(b []byte) error {
	if len(b) > maxMQTTStringLen {
		return wrap(ErrInvalidStringLength, "string exceeds 65535 bytes")
	}
	if err := e.PutU16(uint16(len(b))); err != nil {
		return err
	}
	if err := e.room(len(b)); err != nil {
		return err
	}
	copy(e.buf[e.off:], b)
	e.off += len(b)
	return nil
}

// PutUTF8String writes s as a length-prefixed byte string.
func (e *Encoder) PutUTF8String(s string) error {
	return e.PutByteString([]byte(s))
}

// PutPacketID writes a non-zero packet identifier. Encoders that allow a
// zero ID (QoS 0 PUBLISH) skip calling this entirely rather than pass 0.
func (e *Encoder) PutPacketID(id uint16) error {
	if id == 0 {
		return wrap(ErrInvalidPacketID, "packet id 0")
	}
	return e.PutU16(id)
}
