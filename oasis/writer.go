package oasis

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tsawler/laykit/core"
)

// WriteFile writes the file as OASIS at path.
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	if err := f.Write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// Write emits the file as an OASIS token stream: magic, START, the name
// tables grouped by kind, each cell behind an explicit coordinate-mode
// record, then END with an empty validation placeholder.
func (f *File) Write(w io.Writer) error {
	tw := &tokenWriter{w: w}

	tw.bytes(magic)
	tw.byte(tokStart)
	tw.string(f.Version)
	tw.real(f.Unit)
	if f.OffsetFlag {
		tw.byte(1)
	} else {
		tw.byte(0)
	}

	writeNameTable(tw, tokCellName, f.Names.CellNames)
	writeNameTable(tw, tokTextString, f.Names.TextStrings)
	writeNameTable(tw, tokPropName, f.Names.PropNames)
	writeNameTable(tw, tokPropString, f.Names.PropStrings)

	for _, ref := range sortedRefs(f.Names.LayerNames) {
		tw.byte(tokLayerName)
		tw.string(f.Names.LayerNames[ref])
		// One single-value interval each for layer and datatype.
		tw.byte(0)
		tw.unsigned(uint64(ref))
		tw.byte(0)
		tw.unsigned(0)
	}

	for _, cell := range f.Cells {
		writeCell(tw, cell, f.Names)
	}

	tw.byte(tokEnd)
	tw.unsigned(0)

	if tw.err != nil {
		return fmt.Errorf("writing OASIS stream: %w", tw.err)
	}
	return nil
}

// tokenWriter wraps an io.Writer with sticky-error token emitters.
type tokenWriter struct {
	w   io.Writer
	err error
}

func (tw *tokenWriter) bytes(b []byte) {
	if tw.err != nil {
		return
	}
	_, tw.err = tw.w.Write(b)
}

func (tw *tokenWriter) byte(b byte) {
	tw.bytes([]byte{b})
}

func (tw *tokenWriter) unsigned(v uint64) {
	if tw.err != nil {
		return
	}
	tw.err = core.WriteUnsigned(tw.w, v)
}

func (tw *tokenWriter) signed(v int64) {
	if tw.err != nil {
		return
	}
	tw.err = core.WriteSigned(tw.w, v)
}

func (tw *tokenWriter) real(v float64) {
	if tw.err != nil {
		return
	}
	tw.err = core.WriteReal(tw.w, v)
}

func (tw *tokenWriter) string(s string) {
	tw.unsigned(uint64(len(s)))
	tw.bytes([]byte(s))
}

// sortedRefs returns a map's reference numbers in ascending order so
// output is deterministic.
func sortedRefs(table map[uint32]string) []uint32 {
	refs := make([]uint32, 0, len(table))
	for ref := range table {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}

func writeNameTable(tw *tokenWriter, id byte, table map[uint32]string) {
	for _, ref := range sortedRefs(table) {
		tw.byte(id)
		tw.string(table[ref])
		tw.unsigned(uint64(ref))
	}
}

func writeCell(tw *tokenWriter, cell *Cell, names NameTable) {
	tw.byte(tokXYAbsolute)
	tw.byte(tokCell)

	// Prefer a back-reference; the low bit marks an inline string.
	if ref, ok := names.CellRef(cell.Name); ok {
		tw.unsigned(uint64(ref) << 1)
	} else {
		tw.unsigned(1)
		tw.string(cell.Name)
	}

	for _, el := range cell.Elements {
		writeElement(tw, el, names)
	}
}

func writeElement(tw *tokenWriter, el Element, names NameTable) {
	switch e := el.(type) {
	case *Rectangle:
		tw.byte(tokRectangle)
		tw.byte(0)
		tw.unsigned(uint64(e.Layer))
		tw.unsigned(uint64(e.Datatype))
		tw.unsigned(e.Width)
		tw.unsigned(e.Height)
		tw.signed(e.X)
		tw.signed(e.Y)
	case *Polygon:
		tw.byte(tokPolygon)
		tw.byte(0)
		tw.unsigned(uint64(e.Layer))
		tw.unsigned(uint64(e.Datatype))
		tw.unsigned(uint64(len(e.Points)))
		for _, p := range e.Points {
			tw.signed(p.X)
			tw.signed(p.Y)
		}
		tw.signed(e.X)
		tw.signed(e.Y)
	case *Path:
		tw.byte(tokPath)
		tw.byte(0)
		tw.unsigned(uint64(e.Layer))
		tw.unsigned(uint64(e.Datatype))
		tw.unsigned(e.HalfWidth)
		switch e.Extension.Type {
		case ExtHalfWidth:
			tw.byte(1)
		case ExtExplicit:
			tw.byte(2)
			tw.signed(e.Extension.Start)
			tw.signed(e.Extension.End)
		default:
			tw.byte(0)
		}
		tw.unsigned(uint64(len(e.Points)))
		for _, p := range e.Points {
			tw.signed(p.X)
			tw.signed(p.Y)
		}
		tw.signed(e.X)
		tw.signed(e.Y)
	case *Trapezoid:
		tw.byte(tokTrapezoid)
		tw.unsigned(uint64(e.Layer))
		tw.unsigned(uint64(e.Datatype))
		if e.Vertical {
			tw.byte(1)
		} else {
			tw.byte(0)
		}
		tw.unsigned(e.Width)
		tw.unsigned(e.Height)
		tw.signed(e.DeltaA)
		tw.signed(e.DeltaB)
		tw.signed(e.X)
		tw.signed(e.Y)
	case *CTrapezoid:
		tw.byte(tokCTrapezoid)
		tw.unsigned(uint64(e.Layer))
		tw.unsigned(uint64(e.Datatype))
		tw.byte(e.TrapType)
		tw.unsigned(e.Width)
		tw.unsigned(e.Height)
		tw.signed(e.X)
		tw.signed(e.Y)
	case *Circle:
		tw.byte(tokCircle)
		tw.unsigned(uint64(e.Layer))
		tw.unsigned(uint64(e.Datatype))
		tw.unsigned(e.Radius)
		tw.signed(e.X)
		tw.signed(e.Y)
	case *Text:
		tw.byte(tokText)
		tw.unsigned(uint64(e.Layer))
		tw.unsigned(uint64(e.TextType))
		tw.string(e.String)
		tw.signed(e.X)
		tw.signed(e.Y)
	case *Placement:
		tw.byte(tokPlacement)
		var info byte
		if e.Magnification != nil {
			info |= infoMag
		}
		if e.Angle != nil {
			info |= infoAngle
		}
		if e.Mirror {
			info |= infoMirror
		}
		// Repetitions are dropped on write.
		tw.byte(info)
		if ref, ok := names.CellRef(e.CellName); ok {
			tw.unsigned(uint64(ref) << 1)
		} else {
			tw.unsigned(1)
			tw.string(e.CellName)
		}
		tw.signed(e.X)
		tw.signed(e.Y)
		if e.Magnification != nil {
			tw.real(*e.Magnification)
		}
		if e.Angle != nil {
			tw.real(*e.Angle)
		}
	}
}
