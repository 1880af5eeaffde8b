package core

import (
	"fmt"
	"io"
)

// ReadUnsigned decodes a little-endian base-128 varint from r. Each byte
// contributes its low seven bits; a set high bit means more bytes follow.
func ReadUnsigned(r io.ByteReader) (uint64, error) {
	var value uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("reading varint: %w", err)
		}
		if shift >= 64 {
			return 0, fmt.Errorf("varint exceeds 64 bits")
		}
		// The tenth byte holds only the 64th bit; anything above it
		// would be shifted out silently.
		if shift == 63 && b&0x7E != 0 {
			return 0, fmt.Errorf("varint exceeds 64 bits")
		}
		value |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, nil
		}
		shift += 7
	}
}

// WriteUnsigned encodes v as a little-endian base-128 varint.
func WriteUnsigned(w io.Writer, v uint64) error {
	_, err := w.Write(AppendUnsigned(nil, v))
	return err
}

// AppendUnsigned appends the varint encoding of v to dst and returns the
// extended slice.
func AppendUnsigned(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// ReadSigned decodes a zigzag-encoded signed integer from r.
func ReadSigned(r io.ByteReader) (int64, error) {
	u, err := ReadUnsigned(r)
	if err != nil {
		return 0, err
	}
	return Unzigzag(u), nil
}

// WriteSigned zigzag-encodes v and writes it as an unsigned varint.
func WriteSigned(w io.Writer, v int64) error {
	return WriteUnsigned(w, Zigzag(v))
}

// Zigzag maps a signed integer onto an unsigned one so that values of
// small magnitude stay small: 0→0, -1→1, 1→2, -2→3, ...
func Zigzag(v int64) uint64 {
	if v < 0 {
		return uint64(-(v+1))*2 + 1
	}
	return uint64(v) * 2
}

// Unzigzag inverts Zigzag.
func Unzigzag(u uint64) int64 {
	if u&1 != 0 {
		return -int64(u/2) - 1
	}
	return int64(u / 2)
}
