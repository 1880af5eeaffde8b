// Package oasis reads and writes OASIS layout files.
//
// OASIS is a token stream: after a fixed 13-byte magic prefix, each
// record starts with a one-byte id followed by record-specific fields
// encoded with the varint, zigzag and multi-scheme real encodings from
// the core package. The package models a file as a [File] holding a
// [NameTable] (reference-number to string dictionaries) and an ordered
// list of [Cell] values, each with its geometric elements.
//
// The reader accepts all eight real-number schemes and every repetition
// variant; the writer always emits float64 reals and never emits
// repetitions or modal-compressed fields, keeping the write path simple
// at the cost of larger output. Coordinate-mode records (XYABSOLUTE,
// XYRELATIVE) are accepted on read but carry no state; all coordinates
// are treated as absolute.
package oasis
