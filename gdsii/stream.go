package gdsii

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Scanner walks a GDSII stream one structure at a time without loading
// the whole file. Peak memory is bounded by the largest single structure
// rather than the file size. The pass is strictly forward: payloads the
// scanner does not need are skipped by seeking.
type Scanner struct {
	r       io.ReadSeeker
	header  Library // preamble fields only, Structures stays nil
	pending bool    // positioned just past a BGNSTR record
	times   [2]Timestamp
	done    bool
}

// NewScanner reads the library preamble (header, timestamps, name,
// units) and positions the scanner at the first structure.
func NewScanner(r io.ReadSeeker) (*Scanner, error) {
	s := &Scanner{r: r}
	if err := s.scanToStructure(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenScanner opens path and returns a scanner over it. Closing the
// returned file is the caller's responsibility once scanning ends.
func OpenScanner(path string) (*Scanner, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	s, err := NewScanner(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return s, f, nil
}

// Library returns the preamble fields. Structures is always nil; the
// scanner never materializes more than one structure.
func (s *Scanner) Library() Library { return s.header }

// next reads one record header and returns its type, data type and
// payload length.
func (s *Scanner) nextHeader() (typ, dtype byte, payload int, err error) {
	var hdr [4]byte
	if _, err := io.ReadFull(s.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, 0, 0, io.EOF
		}
		return 0, 0, 0, fmt.Errorf("truncated record header: %w", err)
	}
	length := int(uint16(hdr[0])<<8 | uint16(hdr[1]))
	typ, dtype = hdr[2], hdr[3]
	if dtype > dtASCII {
		return 0, 0, 0, fmt.Errorf("unknown data type %d in record %#02x", dtype, typ)
	}
	payload = length - 4
	if payload < 0 {
		payload = 0
	}
	return typ, dtype, payload, nil
}

func (s *Scanner) readPayload(typ byte, n int) ([]byte, error) {
	data := make([]byte, n)
	if _, err := io.ReadFull(s.r, data); err != nil {
		return nil, fmt.Errorf("record %#02x: truncated payload: %w", typ, err)
	}
	return data, nil
}

func (s *Scanner) skipPayload(n int) error {
	if n == 0 {
		return nil
	}
	_, err := s.r.Seek(int64(n), io.SeekCurrent)
	return err
}

// scanToStructure advances to the next BGNSTR record, filling preamble
// fields along the way and seeking over everything else. It leaves the
// scanner either pending on a structure or done.
func (s *Scanner) scanToStructure() error {
	for {
		typ, _, payload, err := s.nextHeader()
		if err != nil {
			if err == io.EOF {
				s.done = true
				return nil
			}
			return err
		}

		switch typ {
		case recHeader:
			data, err := s.readPayload(typ, payload)
			if err != nil {
				return err
			}
			v, err := decodeInt16(data)
			if err != nil {
				return err
			}
			s.header.Version = uint16(v)
		case recBgnLib:
			data, err := s.readPayload(typ, payload)
			if err != nil {
				return err
			}
			if s.header.ModTime, s.header.AccessTime, err = decodeTimes(data); err != nil {
				return err
			}
		case recLibName:
			data, err := s.readPayload(typ, payload)
			if err != nil {
				return err
			}
			if s.header.Name, err = decodeString(data); err != nil {
				return err
			}
		case recUnits:
			data, err := s.readPayload(typ, payload)
			if err != nil {
				return err
			}
			if s.header.UserUnit, s.header.DatabaseUnit, err = decodeUnits(data); err != nil {
				return err
			}
		case recBgnStr:
			data, err := s.readPayload(typ, payload)
			if err != nil {
				return err
			}
			if s.times[0], s.times[1], err = decodeTimes(data); err != nil {
				return err
			}
			s.pending = true
			return nil
		case recEndLib:
			s.done = true
			return nil
		default:
			if err := s.skipPayload(payload); err != nil {
				return err
			}
		}
	}
}

// Next parses and returns the next structure in file order, or (nil, nil)
// once the end of the library is reached.
func (s *Scanner) Next() (*Structure, error) {
	if s.done || !s.pending {
		return nil, nil
	}
	s.pending = false

	str := &Structure{Created: s.times[0], Modified: s.times[1]}
	var accum elemAccum

	for {
		typ, dtype, payload, err := s.nextHeader()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("stream ended inside structure %q", str.Name)
			}
			return nil, err
		}

		if kind, ok := beginKind(typ); ok {
			if err := s.skipPayload(payload); err != nil {
				return nil, err
			}
			accum.begin(kind)
			continue
		}

		switch typ {
		case recStrName:
			data, err := s.readPayload(typ, payload)
			if err != nil {
				return nil, err
			}
			if str.Name, err = decodeString(data); err != nil {
				return nil, err
			}
		case recStrClass:
			data, err := s.readPayload(typ, payload)
			if err != nil {
				return nil, err
			}
			class, err := decodeInt16(data)
			if err != nil {
				return nil, err
			}
			str.Class = &class
		case recEndEl:
			if accum.open {
				str.Elements = append(str.Elements, accum.finalize())
			}
			if err := s.skipPayload(payload); err != nil {
				return nil, err
			}
		case recEndStr:
			if err := s.skipPayload(payload); err != nil {
				return nil, err
			}
			if err := s.scanToStructure(); err != nil {
				return nil, err
			}
			return str, nil
		default:
			if accum.open {
				data, err := s.readPayload(typ, payload)
				if err != nil {
					return nil, err
				}
				if _, err := accum.field(record{typ: typ, dtype: dtype, data: data}); err != nil {
					return nil, err
				}
			} else if err := s.skipPayload(payload); err != nil {
				return nil, err
			}
		}
	}
}
