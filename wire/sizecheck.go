package wire

import "math/bits"

// maxAddressableSize bounds the total on-wire size (1 fixed-header byte +
// uvar length + remaining length) this platform can hold in a single
// buffer. On 32- and 64-bit targets this is far above any legal MQTT packet
// (remaining length itself is capped at 0x0FFFFFFF) and the check below
// never trips; on a 16-bit target it is the actual int range, per spec §3's
// "on 16-bit targets this sum may overflow" requirement.
var maxAddressableSize = func() uint64 {
	if bits.UintSize <= 16 {
		return 1<<16 - 1
	}
	return 1<<32 - 1
}()

// checkedTotalSize adds up the components of an encoded packet's total
// on-wire size and reports ErrPacketTooLarge if the platform's address
// space cannot hold it. Infallible in practice on 32-/64-bit builds.
func checkedTotalSize(headerByte, uvarLen, remainingLen uint64) (uint64, error) {
	total := headerByte + uvarLen + remainingLen
	if total > maxAddressableSize {
		return 0, ErrPacketTooLarge
	}
	return total, nil
}
