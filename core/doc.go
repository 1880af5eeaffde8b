// Package core provides the low-level numeric encodings shared by the
// GDSII and OASIS codecs.
//
// # GDSII reals
//
// GDSII stores floating-point values in an 8-byte excess-64 base-16
// format rather than IEEE 754: one sign bit, a 7-bit exponent biased by
// 64, and a 56-bit fractional mantissa. [Real8] decodes that format and
// [Real8Bytes] encodes it. The mantissa carries fewer bits than an IEEE
// double, so round trips are exact only to roughly 16 decimal digits of
// base-16-normalized precision.
//
// # OASIS integers
//
// OASIS encodes unsigned integers as little-endian base-128 varints:
// each byte contributes its low seven bits, and a set high bit means
// another byte follows. Signed integers are mapped onto unsigned ones
// with zigzag encoding so that small magnitudes stay short on the wire.
// See [ReadUnsigned], [WriteUnsigned], [ReadSigned], [WriteSigned],
// [Zigzag] and [Unzigzag].
//
// # OASIS reals
//
// OASIS reals begin with a one-byte scheme tag selecting one of eight
// representations (exact zero, exact one, decimal mantissa forms,
// rationals, IEEE float32 and float64). [ReadReal] accepts all eight;
// [WriteReal] always emits the float64 scheme, trading a few bytes for
// exact round trips.
package core
