package oasis

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/laykit/core"
	"github.com/tsawler/laykit/model"
)

// Element info-byte flags. Shape records use repFlag; placements add
// the transform flags.
const (
	infoMag    = 0x01
	infoAngle  = 0x02
	infoMirror = 0x04
	infoRep    = 0x08
	repFlag    = 0x04
)

// ReadFile parses the OASIS file at path.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a complete OASIS stream. It verifies the magic prefix,
// then dispatches on record ids until the END record.
func Read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic) {
		return nil, fmt.Errorf("invalid OASIS magic")
	}

	cur := bytes.NewReader(data[len(magic):])
	file := NewFile()
	file.Version = ""
	file.Unit = 0

	for {
		id, err := cur.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch id {
		case tokPad:
			// no-op
		case tokStart:
			if file.Version, err = readString(cur); err != nil {
				return nil, err
			}
			if file.Unit, err = core.ReadReal(cur); err != nil {
				return nil, err
			}
			flag, err := cur.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("reading offset flag: %w", err)
			}
			file.OffsetFlag = flag != 0
		case tokEnd:
			// An optional validation signature may follow; it is
			// discarded, and a missing one is not an error.
			_, _ = core.ReadUnsigned(cur)
			return file, nil
		case tokCellName:
			if err := readNameEntry(cur, file.Names.CellNames); err != nil {
				return nil, err
			}
		case tokTextString:
			if err := readNameEntry(cur, file.Names.TextStrings); err != nil {
				return nil, err
			}
		case tokPropName:
			if err := readNameEntry(cur, file.Names.PropNames); err != nil {
				return nil, err
			}
		case tokPropString:
			if err := readNameEntry(cur, file.Names.PropStrings); err != nil {
				return nil, err
			}
		case tokLayerName:
			name, err := readString(cur)
			if err != nil {
				return nil, err
			}
			layers, err := readInterval(cur)
			if err != nil {
				return nil, err
			}
			if _, err := readInterval(cur); err != nil { // datatype interval
				return nil, err
			}
			if len(layers) > 0 {
				if _, exists := file.Names.LayerNames[layers[0]]; !exists {
					file.Names.LayerNames[layers[0]] = name
				}
			}
		case tokCell:
			cell, err := readCell(cur, file.Names)
			if err != nil {
				return nil, err
			}
			file.Cells = append(file.Cells, cell)
		case tokXYAbsolute, tokXYRelative:
			// Coordinate-mode records carry no payload and no state here.
		default:
			// Unknown top-level records are ignored.
		}
	}

	return file, nil
}

func readString(r core.Reader) (string, error) {
	n, err := core.ReadUnsigned(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("reading %d-byte string: %w", n, err)
	}
	return string(buf), nil
}

// readNameEntry reads one string/reference pair into a name dictionary.
func readNameEntry(r core.Reader, table map[uint32]string) error {
	name, err := readString(r)
	if err != nil {
		return err
	}
	ref, err := core.ReadUnsigned(r)
	if err != nil {
		return err
	}
	table[uint32(ref)] = name
	return nil
}

// readInterval reads a layer-interval: a single value, an inclusive
// range, or an explicit list.
func readInterval(r core.Reader) ([]uint32, error) {
	kind, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch kind {
	case 0:
		v, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		return []uint32{uint32(v)}, nil
	case 1:
		start, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		end, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		var values []uint32
		for v := start; v <= end; v++ {
			values = append(values, uint32(v))
		}
		return values, nil
	case 2:
		count, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		values := make([]uint32, 0, count)
		for i := uint64(0); i < count; i++ {
			v, err := core.ReadUnsigned(r)
			if err != nil {
				return nil, err
			}
			values = append(values, uint32(v))
		}
		return values, nil
	default:
		return nil, fmt.Errorf("invalid interval type %d", kind)
	}
}

// readCell reads a CELL record and its elements. The cell name is an
// inline string when the leading varint has its low bit set, otherwise
// a back-reference; a reference with no table entry is a hard error.
func readCell(r *bytes.Reader, names NameTable) (*Cell, error) {
	lead, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}

	var name string
	if lead&1 == 0 {
		ref := uint32(lead >> 1)
		var ok bool
		if name, ok = names.CellNames[ref]; !ok {
			return nil, fmt.Errorf("cell name reference %d not found", ref)
		}
	} else {
		if name, err = readString(r); err != nil {
			return nil, err
		}
	}

	cell := &Cell{Name: name}

	// Single-token lookahead: peek the next id and rewind when it does
	// not belong to this cell.
	for {
		id, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var el Element
		switch id {
		case tokEnd, tokCell:
			if err := r.UnreadByte(); err != nil {
				return nil, err
			}
			return cell, nil
		case tokXYAbsolute, tokXYRelative:
			continue
		case tokRectangle:
			el, err = readRectangle(r)
		case tokPolygon:
			el, err = readPolygon(r)
		case tokPath:
			el, err = readPath(r)
		case tokTrapezoid:
			el, err = readTrapezoid(r)
		case tokCTrapezoid:
			el, err = readCTrapezoid(r)
		case tokCircle:
			el, err = readCircle(r)
		case tokText:
			el, err = readText(r)
		case tokPlacement:
			el, err = readPlacement(r, names)
		default:
			// Unknown record: treat it as the end of this cell rather
			// than mis-parse its payload.
			if err := r.UnreadByte(); err != nil {
				return nil, err
			}
			return cell, nil
		}
		if err != nil {
			return nil, err
		}
		cell.Elements = append(cell.Elements, el)
	}

	return cell, nil
}

// readShapeHeader reads the info byte, layer and datatype common to the
// rectangle, polygon and path records.
func readShapeHeader(r core.Reader) (info byte, layer, datatype uint32, err error) {
	if info, err = r.ReadByte(); err != nil {
		return 0, 0, 0, err
	}
	l, err := core.ReadUnsigned(r)
	if err != nil {
		return 0, 0, 0, err
	}
	d, err := core.ReadUnsigned(r)
	if err != nil {
		return 0, 0, 0, err
	}
	return info, uint32(l), uint32(d), nil
}

func readAnchor(r core.Reader) (x, y int64, err error) {
	if x, err = core.ReadSigned(r); err != nil {
		return 0, 0, err
	}
	if y, err = core.ReadSigned(r); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func readDeltas(r core.Reader) ([]model.Delta, error) {
	count, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	points := make([]model.Delta, 0, count)
	for i := uint64(0); i < count; i++ {
		x, y, err := readAnchor(r)
		if err != nil {
			return nil, err
		}
		points = append(points, model.Delta{X: x, Y: y})
	}
	return points, nil
}

// readRepetition decodes a repetition: reuse-previous, regular matrix,
// explicit displacement list, or single-axis grid.
func readRepetition(r core.Reader) (Repetition, error) {
	kind, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch kind {
	case 0:
		return ReusePrevious{}, nil
	case 1:
		xc, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		yc, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		xs, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		ys, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		return &Matrix{XCount: uint32(xc), YCount: uint32(yc), XSpace: xs, YSpace: ys}, nil
	case 2:
		count, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		d := &Displacements{
			X: make([]int64, 0, count),
			Y: make([]int64, 0, count),
		}
		for i := uint64(0); i < count; i++ {
			x, y, err := readAnchor(r)
			if err != nil {
				return nil, err
			}
			d.X = append(d.X, x)
			d.Y = append(d.Y, y)
		}
		return d, nil
	case 3:
		dir, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		count, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		space, err := core.ReadUnsigned(r)
		if err != nil {
			return nil, err
		}
		return &Grid{Count: uint32(count), Space: space, Vertical: dir != 0}, nil
	default:
		return nil, fmt.Errorf("invalid repetition type %d", kind)
	}
}

func maybeRepetition(r core.Reader, info byte, flag byte) (Repetition, error) {
	if info&flag == 0 {
		return nil, nil
	}
	return readRepetition(r)
}

func readRectangle(r core.Reader) (*Rectangle, error) {
	info, layer, datatype, err := readShapeHeader(r)
	if err != nil {
		return nil, err
	}
	width, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	height, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	x, y, err := readAnchor(r)
	if err != nil {
		return nil, err
	}
	rep, err := maybeRepetition(r, info, repFlag)
	if err != nil {
		return nil, err
	}
	return &Rectangle{
		Layer: layer, Datatype: datatype,
		X: x, Y: y, Width: width, Height: height, Repetition: rep,
	}, nil
}

func readPolygon(r core.Reader) (*Polygon, error) {
	info, layer, datatype, err := readShapeHeader(r)
	if err != nil {
		return nil, err
	}
	points, err := readDeltas(r)
	if err != nil {
		return nil, err
	}
	x, y, err := readAnchor(r)
	if err != nil {
		return nil, err
	}
	rep, err := maybeRepetition(r, info, repFlag)
	if err != nil {
		return nil, err
	}
	return &Polygon{
		Layer: layer, Datatype: datatype,
		X: x, Y: y, Points: points, Repetition: rep,
	}, nil
}

func readPath(r core.Reader) (*Path, error) {
	info, layer, datatype, err := readShapeHeader(r)
	if err != nil {
		return nil, err
	}
	halfWidth, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}

	var ext ExtensionScheme
	kind, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch kind {
	case 1:
		ext.Type = ExtHalfWidth
	case 2:
		ext.Type = ExtExplicit
		if ext.Start, ext.End, err = readAnchor(r); err != nil {
			return nil, err
		}
	default:
		ext.Type = ExtFlush
	}

	points, err := readDeltas(r)
	if err != nil {
		return nil, err
	}
	x, y, err := readAnchor(r)
	if err != nil {
		return nil, err
	}
	rep, err := maybeRepetition(r, info, repFlag)
	if err != nil {
		return nil, err
	}
	return &Path{
		Layer: layer, Datatype: datatype,
		X: x, Y: y, HalfWidth: halfWidth, Extension: ext,
		Points: points, Repetition: rep,
	}, nil
}

func readTrapezoid(r core.Reader) (*Trapezoid, error) {
	layer, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	datatype, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	orientation, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	width, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	height, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	deltaA, err := core.ReadSigned(r)
	if err != nil {
		return nil, err
	}
	deltaB, err := core.ReadSigned(r)
	if err != nil {
		return nil, err
	}
	x, y, err := readAnchor(r)
	if err != nil {
		return nil, err
	}
	return &Trapezoid{
		Layer: uint32(layer), Datatype: uint32(datatype),
		X: x, Y: y, Width: width, Height: height,
		DeltaA: deltaA, DeltaB: deltaB, Vertical: orientation != 0,
	}, nil
}

func readCTrapezoid(r core.Reader) (*CTrapezoid, error) {
	layer, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	datatype, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	trapType, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	width, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	height, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	x, y, err := readAnchor(r)
	if err != nil {
		return nil, err
	}
	return &CTrapezoid{
		Layer: uint32(layer), Datatype: uint32(datatype),
		X: x, Y: y, TrapType: trapType, Width: width, Height: height,
	}, nil
}

func readCircle(r core.Reader) (*Circle, error) {
	layer, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	datatype, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	radius, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	x, y, err := readAnchor(r)
	if err != nil {
		return nil, err
	}
	return &Circle{
		Layer: uint32(layer), Datatype: uint32(datatype),
		X: x, Y: y, Radius: radius,
	}, nil
}

func readText(r core.Reader) (*Text, error) {
	layer, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	textType, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	s, err := readString(r)
	if err != nil {
		return nil, err
	}
	x, y, err := readAnchor(r)
	if err != nil {
		return nil, err
	}
	return &Text{
		Layer: uint32(layer), TextType: uint32(textType),
		X: x, Y: y, String: s,
	}, nil
}

func readPlacement(r core.Reader, names NameTable) (*Placement, error) {
	info, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	lead, err := core.ReadUnsigned(r)
	if err != nil {
		return nil, err
	}
	var name string
	if lead&1 == 0 {
		ref := uint32(lead >> 1)
		var ok bool
		if name, ok = names.CellNames[ref]; !ok {
			return nil, fmt.Errorf("placement cell reference %d not found", ref)
		}
	} else {
		if name, err = readString(r); err != nil {
			return nil, err
		}
	}

	p := &Placement{CellName: name, Mirror: info&infoMirror != 0}
	if p.X, p.Y, err = readAnchor(r); err != nil {
		return nil, err
	}
	if info&infoMag != 0 {
		mag, err := core.ReadReal(r)
		if err != nil {
			return nil, err
		}
		p.Magnification = &mag
	}
	if info&infoAngle != 0 {
		angle, err := core.ReadReal(r)
		if err != nil {
			return nil, err
		}
		p.Angle = &angle
	}
	if p.Repetition, err = maybeRepetition(r, info, infoRep); err != nil {
		return nil, err
	}
	return p, nil
}
