package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrUnknownRealType reports an OASIS real whose scheme byte is outside
// the eight defined encodings.
var ErrUnknownRealType = errors.New("unknown real type")

// Reader is the byte-stream access the OASIS decoders need.
type Reader interface {
	io.Reader
	io.ByteReader
}

// ReadReal decodes an OASIS real. The leading scheme byte selects one of
// eight representations; all are accepted on read.
func ReadReal(r Reader) (float64, error) {
	scheme, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("reading real type: %w", err)
	}
	switch scheme {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	case 2: // unsigned mantissa * 10^exponent
		mantissa, err := ReadUnsigned(r)
		if err != nil {
			return 0, err
		}
		exponent, err := ReadSigned(r)
		if err != nil {
			return 0, err
		}
		return float64(mantissa) * math.Pow(10, float64(exponent)), nil
	case 3: // signed mantissa * 10^exponent
		mantissa, err := ReadSigned(r)
		if err != nil {
			return 0, err
		}
		exponent, err := ReadSigned(r)
		if err != nil {
			return 0, err
		}
		return float64(mantissa) * math.Pow(10, float64(exponent)), nil
	case 4: // unsigned rational * 10^exponent
		mantissa, err := ReadUnsigned(r)
		if err != nil {
			return 0, err
		}
		denominator, err := ReadUnsigned(r)
		if err != nil {
			return 0, err
		}
		exponent, err := ReadSigned(r)
		if err != nil {
			return 0, err
		}
		if denominator == 0 {
			return 0, fmt.Errorf("rational real with zero denominator")
		}
		return float64(mantissa) / float64(denominator) * math.Pow(10, float64(exponent)), nil
	case 5: // signed rational * 10^exponent
		mantissa, err := ReadSigned(r)
		if err != nil {
			return 0, err
		}
		denominator, err := ReadUnsigned(r)
		if err != nil {
			return 0, err
		}
		exponent, err := ReadSigned(r)
		if err != nil {
			return 0, err
		}
		if denominator == 0 {
			return 0, fmt.Errorf("rational real with zero denominator")
		}
		return float64(mantissa) / float64(denominator) * math.Pow(10, float64(exponent)), nil
	case 6: // IEEE float32, little-endian
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("reading float32 real: %w", err)
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))), nil
	case 7: // IEEE float64, little-endian
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("reading float64 real: %w", err)
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownRealType, scheme)
	}
}

// WriteReal encodes v using the float64 scheme. The reader handles all
// eight schemes, but writing only the widest keeps round trips exact.
func WriteReal(w io.Writer, v float64) error {
	var buf [9]byte
	buf[0] = 7
	binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}
