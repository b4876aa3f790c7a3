package wire

import "unsafe"

// unsafeString reinterprets b as a string without copying, the same
// technique github.com/soypat/natiu-mqtt uses (its unsafe.go) to keep its
// MQTT codec allocation-free. The returned string is valid only as long as
// b's backing array is not mutated or collected — exactly the borrowed-
// buffer lifetime spec §3 "Ownership" already requires of every decoded
// field, so this does not introduce any new aliasing hazard beyond what the
// caller has already signed up for by passing a buffer into a Decoder.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
