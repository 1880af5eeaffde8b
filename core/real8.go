package core

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Real8 decodes an 8-byte GDSII real: sign bit, 7-bit excess-64 base-16
// exponent, 56-bit fractional mantissa. All-zero bytes decode to exactly 0.
func Real8(b []byte) (float64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("real8 requires 8 bytes, got %d", len(b))
	}
	bits := binary.BigEndian.Uint64(b)
	if bits == 0 {
		return 0, nil
	}
	sign := 1.0
	if bits&(1<<63) != 0 {
		sign = -1.0
	}
	exponent := int((bits>>56)&0x7F) - 64
	mantissa := float64(bits&0x00FFFFFFFFFFFFFF) / float64(uint64(1)<<56)
	return sign * mantissa * math.Pow(16, float64(exponent)), nil
}

// Real8Bytes encodes v into the 8-byte GDSII real format. Zero encodes to
// eight zero bytes. The 56-bit mantissa cannot hold a full IEEE double, so
// the result may lose the lowest few bits of precision.
func Real8Bytes(v float64) [8]byte {
	var out [8]byte
	if v == 0 {
		return out
	}

	var sign uint64
	if v < 0 {
		sign = 1 << 63
		v = -v
	}

	// Normalize so the mantissa lives in [1/16, 1).
	exponent := int(math.Floor(math.Log2(v)/4)) + 1
	mantissa := v / math.Pow(16, float64(exponent))
	for mantissa >= 1 {
		mantissa /= 16
		exponent++
	}
	for mantissa < 1.0/16 && mantissa > 0 {
		mantissa *= 16
		exponent--
	}

	// The biased exponent must fit 7 bits. Magnitudes below the format's
	// range flush to zero; magnitudes above it saturate to the largest
	// representable value with the requested sign.
	if exponent < -64 {
		return out
	}
	if exponent > 63 {
		binary.BigEndian.PutUint64(out[:], sign|uint64(127)<<56|0x00FFFFFFFFFFFFFF)
		return out
	}

	bits := sign | uint64(exponent+64)<<56 | uint64(mantissa*float64(uint64(1)<<56))
	binary.BigEndian.PutUint64(out[:], bits)
	return out
}
