// Package gdsii reads and writes GDSII stream-format layout files.
//
// GDSII is a flat sequence of length-tagged records, each carrying a
// 2-byte big-endian length, a record-type byte, a data-type byte, and a
// payload. The package exposes the file as a [Library] of [Structure]
// values, each holding an ordered list of geometric elements (Boundary,
// Path, StructRef, ArrayRef, Text, Node, Box).
//
// # Reading
//
// [ReadFile] and [Read] materialize a whole library in memory. For
// files too large for that, [Scanner] walks the same byte stream one
// structure at a time, holding only the structure currently being
// visited.
//
// # Writing
//
// [Library.Write] and [Library.WriteFile] emit records in the order the
// format mandates: header, library preamble, optional tables, then each
// structure with its elements, then the end-of-library marker.
//
// Unknown record types are skipped on read using their declared length;
// truncated records and unknown data-type tags are format errors.
package gdsii
