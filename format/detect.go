// Package format provides layout file format detection for the laykit
// library, by magic bytes or by filename extension.
package format

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported layout format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// GDSII indicates the GDSII stream format.
	GDSII
	// OASIS indicates the OASIS format.
	OASIS
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case GDSII:
		return "GDSII"
	case OASIS:
		return "OASIS"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case GDSII:
		return ".gds"
	case OASIS:
		return ".oas"
	default:
		return ""
	}
}

var oasisMagic = []byte("%SEMI-OASIS\r\n")

// ByExtension determines the format from a filename extension.
func ByExtension(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gds", ".gds2", ".gdsii", ".sf", ".strm":
		return GDSII
	case ".oas", ".oasis":
		return OASIS
	default:
		return Unknown
	}
}

// Detect determines the format from the leading bytes of a stream.
// OASIS is identified by its 13-byte magic prefix. GDSII is identified
// by its first record: a HEADER with payload length 6, data type 2, and
// a plausible version number.
func Detect(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	if len(data) >= len(oasisMagic) && bytes.Equal(data[:len(oasisMagic)], oasisMagic) {
		return OASIS
	}

	length := uint16(data[0])<<8 | uint16(data[1])
	if length == 6 && data[2] == 0x00 && data[3] == 0x02 {
		if len(data) < 6 {
			// Structure looks right but the version is unreadable.
			return GDSII
		}
		version := uint16(data[4])<<8 | uint16(data[5])
		if version > 0 && version < 10000 {
			return GDSII
		}
	}

	return Unknown
}

// DetectReader reads up to 16 bytes from r and detects the format,
// advancing the reader by the bytes read.
func DetectReader(r io.Reader) (Format, error) {
	buf := make([]byte, 16)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, fmt.Errorf("reading magic bytes: %w", err)
	}
	return Detect(buf[:n]), nil
}

// DetectFile detects the format of the file at path.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return DetectReader(f)
}
