package convert

import (
	"github.com/tsawler/laykit/gdsii"
	"github.com/tsawler/laykit/model"
	"github.com/tsawler/laykit/oasis"
)

// DefaultLibraryName is the library name given to GDSII output when the
// caller does not supply one; OASIS files carry no library name to copy.
const DefaultLibraryName = "CONVERTED"

// GDSIIToOASIS converts a GDSII library to an OASIS file. Each structure
// becomes a cell of the same name, registered in the name table under a
// sequential reference number. ArrayRef, Node and Box elements have no
// OASIS counterpart and are dropped, as are element properties.
func GDSIIToOASIS(lib *gdsii.Library) *oasis.File {
	f := oasis.NewFile()
	f.Unit = lib.DatabaseUnit

	for i, s := range lib.Structures {
		f.Names.CellNames[uint32(i)] = s.Name

		cell := &oasis.Cell{Name: s.Name}
		for _, el := range s.Elements {
			if converted := gdsElementToOASIS(el); converted != nil {
				cell.Elements = append(cell.Elements, converted)
			}
		}
		f.Cells = append(f.Cells, cell)
	}
	return f
}

// OASISToGDSII converts an OASIS file to a GDSII library named
// DefaultLibraryName. Trapezoid, CTrapezoid and Circle elements have no
// GDSII counterpart and are dropped.
func OASISToGDSII(f *oasis.File) *gdsii.Library {
	return OASISToGDSIIWithName(f, DefaultLibraryName)
}

// OASISToGDSIIWithName is OASISToGDSII with an explicit library name.
func OASISToGDSIIWithName(f *oasis.File, name string) *gdsii.Library {
	lib := gdsii.NewLibrary(name)
	lib.UserUnit = 1e-6
	lib.DatabaseUnit = f.Unit

	for _, cell := range f.Cells {
		s := gdsii.NewStructure(cell.Name)
		for _, el := range cell.Elements {
			if converted := oasisElementToGDS(el); converted != nil {
				s.Elements = append(s.Elements, converted)
			}
		}
		lib.Structures = append(lib.Structures, s)
	}
	return lib
}

func gdsElementToOASIS(el gdsii.Element) oasis.Element {
	switch e := el.(type) {
	case *gdsii.Boundary:
		if len(e.XY) < 3 {
			return nil
		}
		if model.IsRectangle(e.XY) {
			b := model.Bounds(e.XY)
			return &oasis.Rectangle{
				Layer:    uint32(e.Layer),
				Datatype: uint32(e.Datatype),
				X:        int64(b.X),
				Y:        int64(b.Y),
				Width:    uint64(b.Width),
				Height:   uint64(b.Height),
			}
		}
		return &oasis.Polygon{
			Layer:    uint32(e.Layer),
			Datatype: uint32(e.Datatype),
			X:        int64(e.XY[0].X),
			Y:        int64(e.XY[0].Y),
			Points:   relativeTo(e.XY, e.XY[0]),
		}
	case *gdsii.Path:
		if len(e.XY) == 0 {
			return nil
		}
		var halfWidth uint64
		if e.Width != nil && *e.Width > 0 {
			halfWidth = uint64(*e.Width) / 2
		}
		// Begin/end extensions have no slot in the flush scheme and are
		// not carried across.
		return &oasis.Path{
			Layer:     uint32(e.Layer),
			Datatype:  uint32(e.Datatype),
			X:         int64(e.XY[0].X),
			Y:         int64(e.XY[0].Y),
			HalfWidth: halfWidth,
			Extension: oasis.ExtensionScheme{Type: oasis.ExtFlush},
			Points:    relativeTo(e.XY, e.XY[0]),
		}
	case *gdsii.Text:
		return &oasis.Text{
			Layer:    uint32(e.Layer),
			TextType: uint32(e.TextType),
			X:        int64(e.XY.X),
			Y:        int64(e.XY.Y),
			String:   e.String,
		}
	case *gdsii.StructRef:
		p := &oasis.Placement{
			CellName: e.StructName,
			X:        int64(e.XY.X),
			Y:        int64(e.XY.Y),
		}
		if e.Transform != nil {
			p.Mirror = e.Transform.Reflection
			p.Magnification = e.Transform.Magnification
			p.Angle = e.Transform.Angle
		}
		return p
	default:
		// ArrayRef, Node and Box have no OASIS representation.
		return nil
	}
}

func oasisElementToGDS(el oasis.Element) gdsii.Element {
	switch e := el.(type) {
	case *oasis.Rectangle:
		x, y := int32(e.X), int32(e.Y)
		w, h := int32(e.Width), int32(e.Height)
		return &gdsii.Boundary{
			Layer:    int16(e.Layer),
			Datatype: int16(e.Datatype),
			XY: []model.Point{
				{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}, {X: x, Y: y},
			},
		}
	case *oasis.Polygon:
		return &gdsii.Boundary{
			Layer:    int16(e.Layer),
			Datatype: int16(e.Datatype),
			XY:       absoluteFrom(e.Points, e.X, e.Y),
		}
	case *oasis.Path:
		width := int32(e.HalfWidth * 2)
		return &gdsii.Path{
			Layer:    int16(e.Layer),
			Datatype: int16(e.Datatype),
			PathType: 0,
			Width:    &width,
			XY:       absoluteFrom(e.Points, e.X, e.Y),
		}
	case *oasis.Text:
		return &gdsii.Text{
			Layer:    int16(e.Layer),
			TextType: int16(e.TextType),
			String:   e.String,
			XY:       model.Point{X: int32(e.X), Y: int32(e.Y)},
		}
	case *oasis.Placement:
		ref := &gdsii.StructRef{
			StructName: e.CellName,
			XY:         model.Point{X: int32(e.X), Y: int32(e.Y)},
		}
		// A transform record is only synthesized when the placement is
		// actually transformed.
		if e.Magnification != nil || e.Angle != nil || e.Mirror {
			ref.Transform = &gdsii.STrans{
				Reflection:    e.Mirror,
				Magnification: e.Magnification,
				Angle:         e.Angle,
			}
		}
		return ref
	default:
		// Trapezoid, CTrapezoid and Circle have no GDSII representation.
		return nil
	}
}

func relativeTo(points []model.Point, origin model.Point) []model.Delta {
	deltas := make([]model.Delta, 0, len(points))
	for _, p := range points {
		deltas = append(deltas, model.Delta{
			X: int64(p.X) - int64(origin.X),
			Y: int64(p.Y) - int64(origin.Y),
		})
	}
	return deltas
}

func absoluteFrom(deltas []model.Delta, x, y int64) []model.Point {
	points := make([]model.Point, 0, len(deltas))
	for _, d := range deltas {
		points = append(points, model.Point{
			X: int32(x + d.X),
			Y: int32(y + d.Y),
		})
	}
	return points
}
