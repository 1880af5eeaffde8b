package gdsii

import (
	"fmt"
	"io"
	"os"
)

// readRecord decodes the record at *cursor and advances past it. The
// data-type tag is validated here; record types are the caller's concern.
func readRecord(data []byte, cursor *int) (record, error) {
	if *cursor+4 > len(data) {
		return record{}, fmt.Errorf("truncated record header at offset %d", *cursor)
	}
	length := int(uint16(data[*cursor])<<8 | uint16(data[*cursor+1]))
	rec := record{typ: data[*cursor+2], dtype: data[*cursor+3]}
	if rec.dtype > dtASCII {
		return record{}, fmt.Errorf("unknown data type %d in record %#02x at offset %d", rec.dtype, rec.typ, *cursor)
	}
	*cursor += 4
	payload := length - 4
	if payload < 0 {
		payload = 0
	}
	if *cursor+payload > len(data) {
		return record{}, fmt.Errorf("record %#02x at offset %d declares %d payload bytes, only %d remain",
			rec.typ, *cursor-4, payload, len(data)-*cursor)
	}
	rec.data = data[*cursor : *cursor+payload]
	*cursor += payload
	return rec, nil
}

// ReadFile parses the GDSII file at path into a Library.
func ReadFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a complete GDSII stream into a Library. Parsing stops at
// the ENDLIB record; unknown record types are skipped by their declared
// length.
func Read(r io.Reader) (*Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}

	lib := &Library{}
	var cur *Structure
	var accum elemAccum

	cursor := 0
	for cursor < len(data) {
		rec, err := readRecord(data, &cursor)
		if err != nil {
			return nil, err
		}

		if kind, ok := beginKind(rec.typ); ok {
			accum.begin(kind)
			continue
		}

		switch rec.typ {
		case recHeader:
			v, err := decodeInt16(rec.data)
			if err != nil {
				return nil, err
			}
			lib.Version = uint16(v)
		case recBgnLib:
			if lib.ModTime, lib.AccessTime, err = decodeTimes(rec.data); err != nil {
				return nil, err
			}
		case recLibName:
			if lib.Name, err = decodeString(rec.data); err != nil {
				return nil, err
			}
		case recUnits:
			if lib.UserUnit, lib.DatabaseUnit, err = decodeUnits(rec.data); err != nil {
				return nil, err
			}
		case recRefLibs:
			s, err := decodeString(rec.data)
			if err != nil {
				return nil, err
			}
			lib.RefLibs = append(lib.RefLibs, s)
		case recFonts:
			for off := 0; off+fontSlotSize <= len(rec.data); off += fontSlotSize {
				font, err := decodeString(rec.data[off : off+fontSlotSize])
				if err != nil {
					return nil, err
				}
				lib.Fonts = append(lib.Fonts, font)
			}
		case recGenerations:
			g, err := decodeInt16(rec.data)
			if err != nil {
				return nil, err
			}
			lib.Generations = &g
		case recAttrTable:
			if lib.AttrTable, err = decodeString(rec.data); err != nil {
				return nil, err
			}
		case recBgnStr:
			created, modified, err := decodeTimes(rec.data)
			if err != nil {
				return nil, err
			}
			cur = &Structure{Created: created, Modified: modified}
		case recStrName:
			if cur != nil {
				if cur.Name, err = decodeString(rec.data); err != nil {
					return nil, err
				}
			}
		case recStrClass:
			if cur != nil {
				class, err := decodeInt16(rec.data)
				if err != nil {
					return nil, err
				}
				cur.Class = &class
			}
		case recEndStr:
			if cur != nil {
				lib.Structures = append(lib.Structures, cur)
				cur = nil
			}
		case recEndEl:
			if cur != nil && accum.open {
				cur.Elements = append(cur.Elements, accum.finalize())
			}
		case recEndLib:
			return lib, nil
		default:
			if accum.open {
				if _, err := accum.field(rec); err != nil {
					return nil, err
				}
			}
			// Unknown top-level records are skipped.
		}
	}

	return lib, nil
}
