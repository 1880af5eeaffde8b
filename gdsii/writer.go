package gdsii

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/laykit/core"
	"github.com/tsawler/laykit/model"
)

type recordWriter struct {
	w   io.Writer
	err error
}

// record emits one length-tagged record. After the first failure every
// call is a no-op and the error is reported once by the caller.
func (rw *recordWriter) record(typ, dtype byte, data []byte) {
	if rw.err != nil {
		return
	}
	length := uint16(4 + len(data))
	header := [4]byte{byte(length >> 8), byte(length), typ, dtype}
	if _, err := rw.w.Write(header[:]); err != nil {
		rw.err = err
		return
	}
	if len(data) > 0 {
		if _, err := rw.w.Write(data); err != nil {
			rw.err = err
		}
	}
}

func (rw *recordWriter) int16Record(typ byte, v int16) {
	rw.record(typ, dtInt2, []byte{byte(uint16(v) >> 8), byte(v)})
}

func (rw *recordWriter) int32Record(typ byte, v int32) {
	rw.record(typ, dtInt4, []byte{byte(uint32(v) >> 24), byte(uint32(v) >> 16), byte(uint32(v) >> 8), byte(v)})
}

// stringRecord NUL-pads odd-length strings so record lengths stay even.
func (rw *recordWriter) stringRecord(typ byte, s string) {
	data := []byte(s)
	if len(data)%2 != 0 {
		data = append(data, 0)
	}
	rw.record(typ, dtASCII, data)
}

func appendInt32(dst []byte, v int32) []byte {
	return append(dst, byte(uint32(v)>>24), byte(uint32(v)>>16), byte(uint32(v)>>8), byte(v))
}

func appendTimestamp(dst []byte, t Timestamp) []byte {
	for _, v := range [6]uint16{t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second} {
		dst = append(dst, byte(v>>8), byte(v))
	}
	return dst
}

func xyData(points []model.Point) []byte {
	data := make([]byte, 0, len(points)*8)
	for _, p := range points {
		data = appendInt32(data, p.X)
		data = appendInt32(data, p.Y)
	}
	return data
}

// WriteFile writes the library as a GDSII file at path.
func (lib *Library) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := lib.Write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// Write emits the library as a GDSII record stream.
func (lib *Library) Write(w io.Writer) error {
	rw := &recordWriter{w: w}

	rw.int16Record(recHeader, int16(lib.Version))

	times := appendTimestamp(nil, lib.ModTime)
	times = appendTimestamp(times, lib.AccessTime)
	rw.record(recBgnLib, dtInt2, times)

	rw.stringRecord(recLibName, lib.Name)

	units := core.Real8Bytes(lib.UserUnit)
	db := core.Real8Bytes(lib.DatabaseUnit)
	rw.record(recUnits, dtReal8, append(units[:], db[:]...))

	for _, reflib := range lib.RefLibs {
		rw.stringRecord(recRefLibs, reflib)
	}

	if len(lib.Fonts) > 0 {
		data := make([]byte, 0, len(lib.Fonts)*fontSlotSize)
		for _, font := range lib.Fonts {
			slot := make([]byte, fontSlotSize)
			copy(slot, font)
			data = append(data, slot...)
		}
		rw.record(recFonts, dtASCII, data)
	}

	if lib.Generations != nil {
		rw.int16Record(recGenerations, *lib.Generations)
	}
	if lib.AttrTable != "" {
		rw.stringRecord(recAttrTable, lib.AttrTable)
	}

	for _, s := range lib.Structures {
		writeStructure(rw, s)
	}

	rw.record(recEndLib, dtNoData, nil)

	if rw.err != nil {
		return fmt.Errorf("writing GDSII stream: %w", rw.err)
	}
	return nil
}

func writeStructure(rw *recordWriter, s *Structure) {
	times := appendTimestamp(nil, s.Created)
	times = appendTimestamp(times, s.Modified)
	rw.record(recBgnStr, dtInt2, times)

	rw.stringRecord(recStrName, s.Name)
	if s.Class != nil {
		rw.int16Record(recStrClass, *s.Class)
	}

	for _, el := range s.Elements {
		writeElement(rw, el)
	}

	rw.record(recEndStr, dtNoData, nil)
}

// writeCommon emits the ELFLAGS and PLEX records, which precede all
// other element content.
func writeCommon(rw *recordWriter, elflags *int16, plex *int32) {
	if elflags != nil {
		rw.int16Record(recElFlags, *elflags)
	}
	if plex != nil {
		rw.int32Record(recPlex, *plex)
	}
}

func writeProperties(rw *recordWriter, props []Property) {
	for _, p := range props {
		rw.int16Record(recPropAttr, p.Attribute)
		rw.stringRecord(recPropValue, p.Value)
	}
}

func writeTransform(rw *recordWriter, st *STrans) {
	if st == nil {
		return
	}
	var flags int16
	if st.Reflection {
		flags |= stransReflection
	}
	if st.AbsoluteMag {
		flags |= stransAbsMag
	}
	if st.AbsoluteAngle {
		flags |= stransAbsAngle
	}
	rw.int16Record(recSTrans, flags)
	if st.Magnification != nil {
		mag := core.Real8Bytes(*st.Magnification)
		rw.record(recMag, dtReal8, mag[:])
	}
	if st.Angle != nil {
		angle := core.Real8Bytes(*st.Angle)
		rw.record(recAngle, dtReal8, angle[:])
	}
}

func writeElement(rw *recordWriter, el Element) {
	switch e := el.(type) {
	case *Boundary:
		rw.record(recBoundary, dtNoData, nil)
		writeCommon(rw, e.ELFlags, e.Plex)
		rw.int16Record(recLayer, e.Layer)
		rw.int16Record(recDatatype, e.Datatype)
		rw.record(recXY, dtInt4, xyData(e.XY))
		writeProperties(rw, e.Properties)
	case *Path:
		rw.record(recPath, dtNoData, nil)
		writeCommon(rw, e.ELFlags, e.Plex)
		rw.int16Record(recLayer, e.Layer)
		rw.int16Record(recDatatype, e.Datatype)
		rw.int16Record(recPathType, e.PathType)
		if e.Width != nil {
			rw.int32Record(recWidth, *e.Width)
		}
		if e.BeginExt != nil {
			rw.int32Record(recBgnExtn, *e.BeginExt)
		}
		if e.EndExt != nil {
			rw.int32Record(recEndExtn, *e.EndExt)
		}
		rw.record(recXY, dtInt4, xyData(e.XY))
		writeProperties(rw, e.Properties)
	case *StructRef:
		rw.record(recSRef, dtNoData, nil)
		writeCommon(rw, e.ELFlags, e.Plex)
		rw.stringRecord(recSName, e.StructName)
		writeTransform(rw, e.Transform)
		rw.record(recXY, dtInt4, xyData([]model.Point{e.XY}))
		writeProperties(rw, e.Properties)
	case *ArrayRef:
		rw.record(recARef, dtNoData, nil)
		writeCommon(rw, e.ELFlags, e.Plex)
		rw.stringRecord(recSName, e.StructName)
		writeTransform(rw, e.Transform)
		colrow := []byte{byte(e.Columns >> 8), byte(e.Columns), byte(e.Rows >> 8), byte(e.Rows)}
		rw.record(recColRow, dtInt2, colrow)
		rw.record(recXY, dtInt4, xyData(e.XY))
		writeProperties(rw, e.Properties)
	case *Text:
		rw.record(recText, dtNoData, nil)
		writeCommon(rw, e.ELFlags, e.Plex)
		rw.int16Record(recLayer, e.Layer)
		rw.int16Record(recTextType, e.TextType)
		if e.Presentation != nil {
			rw.int16Record(recPresentation, *e.Presentation)
		}
		if e.Width != nil {
			rw.int32Record(recWidth, *e.Width)
		}
		writeTransform(rw, e.Transform)
		rw.record(recXY, dtInt4, xyData([]model.Point{e.XY}))
		rw.stringRecord(recString, e.String)
		writeProperties(rw, e.Properties)
	case *Node:
		rw.record(recNode, dtNoData, nil)
		writeCommon(rw, e.ELFlags, e.Plex)
		rw.int16Record(recLayer, e.Layer)
		rw.int16Record(recNodeType, e.NodeType)
		rw.record(recXY, dtInt4, xyData(e.XY))
		writeProperties(rw, e.Properties)
	case *Box:
		rw.record(recBox, dtNoData, nil)
		writeCommon(rw, e.ELFlags, e.Plex)
		rw.int16Record(recLayer, e.Layer)
		rw.int16Record(recBoxType, e.BoxType)
		rw.record(recXY, dtInt4, xyData(e.XY))
		writeProperties(rw, e.Properties)
	}
	rw.record(recEndEl, dtNoData, nil)
}
