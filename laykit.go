// Package laykit reads, writes and inter-converts the GDSII and OASIS
// IC-layout interchange formats.
//
// Basic usage:
//
//	layout, err := laykit.Open("chip.gds")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(layout.Format, layout.CellCount(), "cells")
//
// Converting between formats:
//
//	oas := layout.ToOASIS()
//	err = oas.WriteFile("chip.oas")
//
// For large GDSII files, the gdsii.Scanner visits structures one at a
// time without loading the whole file. The lower-level gdsii, oasis,
// convert, format and validate packages are also available directly.
package laykit

import (
	"bytes"
	"fmt"
	"os"

	"github.com/tsawler/laykit/convert"
	"github.com/tsawler/laykit/format"
	"github.com/tsawler/laykit/gdsii"
	"github.com/tsawler/laykit/oasis"
)

// Layout is a parsed layout file of either format. Exactly one of GDSII
// and OASIS is non-nil, matching Format.
type Layout struct {
	Format format.Format
	GDSII  *gdsii.Library
	OASIS  *oasis.File
}

// Open detects the format of the file at path by magic bytes and parses
// it with the matching codec.
func Open(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromBytes(data)
}

// FromBytes detects the format of data and parses it.
func FromBytes(data []byte) (*Layout, error) {
	switch f := format.Detect(data); f {
	case format.GDSII:
		lib, err := gdsii.Read(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Layout{Format: f, GDSII: lib}, nil
	case format.OASIS:
		file, err := oasis.Read(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Layout{Format: f, OASIS: file}, nil
	default:
		return nil, fmt.Errorf("unrecognized layout format")
	}
}

// CellCount returns the number of structures or cells.
func (l *Layout) CellCount() int {
	if l.GDSII != nil {
		return len(l.GDSII.Structures)
	}
	if l.OASIS != nil {
		return len(l.OASIS.Cells)
	}
	return 0
}

// ElementCount returns the total number of elements across all cells.
func (l *Layout) ElementCount() int {
	count := 0
	if l.GDSII != nil {
		for _, s := range l.GDSII.Structures {
			count += len(s.Elements)
		}
	}
	if l.OASIS != nil {
		for _, c := range l.OASIS.Cells {
			count += len(c.Elements)
		}
	}
	return count
}

// ToGDSII returns the layout as a GDSII library, converting when the
// source is OASIS. Conversion is lossy for element kinds the target
// format cannot express.
func (l *Layout) ToGDSII() *gdsii.Library {
	if l.GDSII != nil {
		return l.GDSII
	}
	if l.OASIS != nil {
		return convert.OASISToGDSII(l.OASIS)
	}
	return nil
}

// ToOASIS returns the layout as an OASIS file, converting when the
// source is GDSII. Conversion is lossy for element kinds the target
// format cannot express.
func (l *Layout) ToOASIS() *oasis.File {
	if l.OASIS != nil {
		return l.OASIS
	}
	if l.GDSII != nil {
		return convert.GDSIIToOASIS(l.GDSII)
	}
	return nil
}
