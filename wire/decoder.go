package wire

// Decoder is a cursor over a byte slice borrowed from the caller. Every
// Split* method advances the cursor and returns a view into the original
// slice — never a copy — so a decoded message's lifetime is tied to the
// buffer passed to NewDecoder, per spec §3 "Ownership". Decoder is not
// safe for concurrent use by multiple goroutines; distinct Decoders over
// disjoint buffers are (spec §5).
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder wraps buf in a Decoder starting at offset 0.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Len reports the number of unconsumed bytes.
func (d *Decoder) Len() int { return len(d.buf) - d.off }

// Bytes returns the unconsumed remainder without advancing the cursor.
func (d *Decoder) Bytes() []byte { return d.buf[d.off:] }

func (d *Decoder) need(n int) error {
	if d.Len() < n {
		return wrap(ErrPacketLengthMismatch, "short read")
	}
	return nil
}

// SplitU8 consumes one byte.
func (d *Decoder) SplitU8() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.buf[d.off]
	d.off++
	return b, nil
}

// SplitU16 consumes a big-endian uint16.
func (d *Decoder) SplitU16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := uint16(d.buf[d.off])<<8 | uint16(d.buf[d.off+1])
	d.off += 2
	return v, nil
}

// SplitU32 consumes a big-endian uint32.
func (d *Decoder) SplitU32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	b := d.buf[d.off:]
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	d.off += 4
	return v, nil
}

// SplitUvar consumes a Variable Byte Integer. Within a bounded packet body,
// running out of bytes mid-integer is a framing error, not a signal to wait
// for more data, so ErrIncompleteBuffer from the C1 primitive is rewritten
// to ErrPacketLengthMismatch here — the distinction spec §4.4 draws between
// the outer streaming boundary (ParseHeader/Streaming) and an inner bounded
// decoder.
func (d *Decoder) SplitUvar() (uint32, error) {
	v, n, err := DecodeUvar(d.buf[d.off:])
	if err != nil {
		if Is(err, ErrIncompleteBuffer) {
			return 0, wrap(ErrPacketLengthMismatch, "truncated variable byte integer")
		}
		return 0, err
	}
	d.off += n
	return v, nil
}

// SplitBool consumes one byte and requires it to be exactly 0 or 1.
func (d *Decoder) SplitBool() (bool, error) {
	b, err := d.SplitU8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, newErrf(KindInvalidBool, ReasonMalformedPacket, "mqttwire: boolean byte %#02x not 0 or 1", b)
	}
}

// SplitByteString consumes a 16-bit length prefix followed by that many
// opaque bytes, returning a sub-slice of the Decoder's buffer.
func (d *Decoder) SplitByteString() ([]byte, error) {
	n, err := d.SplitU16()
	if err != nil {
		return nil, err
	}
	return d.splitN(int(n))
}

// SplitByteStringLen behaves like SplitByteString but requires the decoded
// length to equal expected, for a binary field whose size is a protocol
// constant rather than caller-chosen. No packet decoder in this package
// calls it; variable-length fields such as v5 correlation data are read
// with SplitByteString.
func (d *Decoder) SplitByteStringLen(expected int) ([]byte, error) {
	n, err := d.SplitU16()
	if err != nil {
		return nil, err
	}
	if int(n) != expected {
		return nil, newErrf(KindPacketLengthMismatch, ReasonMalformedPacket, "mqttwire: expected byte string of length %d, got %d", expected, n)
	}
	return d.splitN(int(n))
}

func (d *Decoder) splitN(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

// SplitUTF8String consumes a length-prefixed string and validates it with
// ValidateUTF8String. The returned Go string aliases the Decoder's buffer
// via unsafeString rather than copying — see unsafe.go.
func (d *Decoder) SplitUTF8String() (string, error) {
	b, err := d.SplitByteString()
	if err != nil {
		return "", err
	}
	if err := ValidateUTF8String(b); err != nil {
		return "", err
	}
	return unsafeString(b), nil
}

// SplitPacketID consumes a 16-bit packet identifier and requires it to be
// non-zero (zero is the distinguished "absent" marker, never transmitted).
func (d *Decoder) SplitPacketID() (uint16, error) {
	id, err := d.SplitU16()
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, wrap(ErrInvalidPacketID, "packet id 0")
	}
	return id, nil
}

// SplitOff carves off the next n bytes into a new Decoder and advances past
// them, without validating their contents.
func (d *Decoder) SplitOff(n int) (*Decoder, error) {
	b, err := d.splitN(n)
	if err != nil {
		return nil, err
	}
	return NewDecoder(b), nil
}

// SplitOffRest carves off every remaining byte into a new Decoder.
func (d *Decoder) SplitOffRest() *Decoder {
	b := d.buf[d.off:]
	d.off = len(d.buf)
	return NewDecoder(b)
}

// Finalize requires every byte of the Decoder's buffer to have been
// consumed. Decoders whose body has a fixed set of fields (CONNECT,
// CONNACK, packet-id-only, zero-length, v5 acks and DISCONNECT/AUTH) call
// it at the end, except where the v5 acks and DISCONNECT/AUTH return early
// because the body is already exhausted; decoders that read to the end of
// the body (PUBLISH payload, SUBSCRIBE/UNSUBSCRIBE lists, SUBACK/UNSUBACK
// codes) leave no bytes behind and do not call it.
func (d *Decoder) Finalize() error {
	if d.Len() != 0 {
		return newErrf(KindPacketLengthMismatch, ReasonMalformedPacket, "mqttwire: %d trailing byte(s) after decode", d.Len())
	}
	return nil
}
