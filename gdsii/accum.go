package gdsii

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/laykit/core"
	"github.com/tsawler/laykit/model"
)

// record is one decoded GDSII record: type tag, data-type tag, payload.
type record struct {
	typ   byte
	dtype byte
	data  []byte
}

func decodeInt16(data []byte) (int16, error) {
	if len(data) < 2 {
		return 0, fmt.Errorf("record payload too short for int16: %d bytes", len(data))
	}
	return int16(uint16(data[0])<<8 | uint16(data[1])), nil
}

func decodeInt32(data []byte) (int32, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("record payload too short for int32: %d bytes", len(data))
	}
	return int32(uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])), nil
}

// decodeString trims at the first NUL (GDSII pads odd-length strings)
// and falls back to a Latin-1 reinterpretation for the occasional file
// written with a non-UTF-8 tool.
func decodeString(data []byte) (string, error) {
	for i, b := range data {
		if b == 0 {
			data = data[:i]
			break
		}
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding string record: %w", err)
	}
	return string(decoded), nil
}

func decodeXY(data []byte) ([]model.Point, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("XY payload length %d is not a multiple of 8", len(data))
	}
	points := make([]model.Point, 0, len(data)/8)
	for i := 0; i < len(data); i += 8 {
		x, _ := decodeInt32(data[i:])
		y, _ := decodeInt32(data[i+4:])
		points = append(points, model.Point{X: x, Y: y})
	}
	return points, nil
}

func decodeTimestamp(data []byte) Timestamp {
	f := func(i int) uint16 { return uint16(data[i])<<8 | uint16(data[i+1]) }
	return Timestamp{
		Year:   f(0),
		Month:  f(2),
		Day:    f(4),
		Hour:   f(6),
		Minute: f(8),
		Second: f(10),
	}
}

// decodeTimes unpacks the 24-byte timestamp pair carried by BGNLIB and
// BGNSTR records.
func decodeTimes(data []byte) (Timestamp, Timestamp, error) {
	if len(data) < 24 {
		return Timestamp{}, Timestamp{}, fmt.Errorf("timestamp payload too short: %d bytes", len(data))
	}
	return decodeTimestamp(data), decodeTimestamp(data[12:]), nil
}

func decodeUnits(data []byte) (float64, float64, error) {
	if len(data) < 16 {
		return 0, 0, fmt.Errorf("UNITS payload too short: %d bytes", len(data))
	}
	user, err := core.Real8(data[0:8])
	if err != nil {
		return 0, 0, err
	}
	db, err := core.Real8(data[8:16])
	if err != nil {
		return 0, 0, err
	}
	return user, db, nil
}

// elemAccum collects field records for the element currently open. The
// element's kind is fixed by its begin record, never inferred afterwards
// from which fields happen to be present.
type elemAccum struct {
	open bool
	kind ElementKind

	layer        int16
	datatype     int16
	pathType     int16
	textType     int16
	nodeType     int16
	boxType      int16
	elflags      *int16
	presentation *int16
	propAttr     *int16
	width        *int32
	plex         *int32
	beginExt     *int32
	endExt       *int32
	xy           []model.Point
	sname        string
	text         string
	strans       *STrans
	cols         uint16
	rows         uint16
	props        []Property
}

func (a *elemAccum) begin(kind ElementKind) {
	*a = elemAccum{open: true, kind: kind}
}

func (a *elemAccum) transform() *STrans {
	if a.strans == nil {
		a.strans = &STrans{}
	}
	return a.strans
}

// field consumes one element-level record. It reports whether the record
// type belongs to an element at all; unknown types are the caller's to
// skip.
func (a *elemAccum) field(rec record) (bool, error) {
	var err error
	switch rec.typ {
	case recLayer:
		a.layer, err = decodeInt16(rec.data)
	case recDatatype:
		a.datatype, err = decodeInt16(rec.data)
	case recPathType:
		a.pathType, err = decodeInt16(rec.data)
	case recTextType:
		a.textType, err = decodeInt16(rec.data)
	case recNodeType:
		a.nodeType, err = decodeInt16(rec.data)
	case recBoxType:
		a.boxType, err = decodeInt16(rec.data)
	case recWidth:
		var w int32
		if w, err = decodeInt32(rec.data); err == nil {
			a.width = &w
		}
	case recXY:
		a.xy, err = decodeXY(rec.data)
	case recSName:
		a.sname, err = decodeString(rec.data)
	case recString:
		a.text, err = decodeString(rec.data)
	case recColRow:
		if len(rec.data) < 4 {
			return true, fmt.Errorf("COLROW payload too short: %d bytes", len(rec.data))
		}
		cols, _ := decodeInt16(rec.data)
		rows, _ := decodeInt16(rec.data[2:])
		a.cols, a.rows = uint16(cols), uint16(rows)
	case recSTrans:
		var flags int16
		if flags, err = decodeInt16(rec.data); err == nil {
			st := a.transform()
			st.Reflection = flags&stransReflection != 0
			st.AbsoluteMag = flags&stransAbsMag != 0
			st.AbsoluteAngle = flags&stransAbsAngle != 0
		}
	case recMag:
		var v float64
		if v, err = core.Real8(rec.data); err == nil {
			a.transform().Magnification = &v
		}
	case recAngle:
		var v float64
		if v, err = core.Real8(rec.data); err == nil {
			a.transform().Angle = &v
		}
	case recPresentation:
		var p int16
		if p, err = decodeInt16(rec.data); err == nil {
			a.presentation = &p
		}
	case recElFlags:
		var f int16
		if f, err = decodeInt16(rec.data); err == nil {
			a.elflags = &f
		}
	case recPlex:
		var p int32
		if p, err = decodeInt32(rec.data); err == nil {
			a.plex = &p
		}
	case recBgnExtn:
		var e int32
		if e, err = decodeInt32(rec.data); err == nil {
			a.beginExt = &e
		}
	case recEndExtn:
		var e int32
		if e, err = decodeInt32(rec.data); err == nil {
			a.endExt = &e
		}
	case recPropAttr:
		var attr int16
		if attr, err = decodeInt16(rec.data); err == nil {
			a.propAttr = &attr
		}
	case recPropValue:
		// A value is only meaningful when its attribute number came first.
		if a.propAttr != nil {
			var value string
			if value, err = decodeString(rec.data); err == nil {
				a.props = append(a.props, Property{Attribute: *a.propAttr, Value: value})
				a.propAttr = nil
			}
		}
	default:
		return false, nil
	}
	return true, err
}

func (a *elemAccum) anchor() model.Point {
	if len(a.xy) > 0 {
		return a.xy[0]
	}
	return model.Point{}
}

// finalize builds the element tagged at begin time and closes the
// accumulator.
func (a *elemAccum) finalize() Element {
	a.open = false
	switch a.kind {
	case KindBoundary:
		return &Boundary{
			Layer: a.layer, Datatype: a.datatype, XY: a.xy,
			ELFlags: a.elflags, Plex: a.plex, Properties: a.props,
		}
	case KindPath:
		return &Path{
			Layer: a.layer, Datatype: a.datatype, PathType: a.pathType,
			Width: a.width, BeginExt: a.beginExt, EndExt: a.endExt, XY: a.xy,
			ELFlags: a.elflags, Plex: a.plex, Properties: a.props,
		}
	case KindStructRef:
		return &StructRef{
			StructName: a.sname, XY: a.anchor(), Transform: a.strans,
			ELFlags: a.elflags, Plex: a.plex, Properties: a.props,
		}
	case KindArrayRef:
		return &ArrayRef{
			StructName: a.sname, Columns: a.cols, Rows: a.rows, XY: a.xy,
			Transform: a.strans, ELFlags: a.elflags, Plex: a.plex, Properties: a.props,
		}
	case KindText:
		return &Text{
			Layer: a.layer, TextType: a.textType, String: a.text, XY: a.anchor(),
			Presentation: a.presentation, Transform: a.strans, Width: a.width,
			ELFlags: a.elflags, Plex: a.plex, Properties: a.props,
		}
	case KindNode:
		return &Node{
			Layer: a.layer, NodeType: a.nodeType, XY: a.xy,
			ELFlags: a.elflags, Plex: a.plex, Properties: a.props,
		}
	default:
		return &Box{
			Layer: a.layer, BoxType: a.boxType, XY: a.xy,
			ELFlags: a.elflags, Plex: a.plex, Properties: a.props,
		}
	}
}

// beginKind maps an element begin record to its kind.
func beginKind(typ byte) (ElementKind, bool) {
	switch typ {
	case recBoundary:
		return KindBoundary, true
	case recPath:
		return KindPath, true
	case recSRef:
		return KindStructRef, true
	case recARef:
		return KindArrayRef, true
	case recText:
		return KindText, true
	case recNode:
		return KindNode, true
	case recBox:
		return KindBox, true
	default:
		return 0, false
	}
}
