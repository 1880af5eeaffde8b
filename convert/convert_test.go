package convert

import (
	"testing"

	"github.com/tsawler/laykit/gdsii"
	"github.com/tsawler/laykit/model"
	"github.com/tsawler/laykit/oasis"
)

func TestRectangularBoundaryBecomesRectangle(t *testing.T) {
	lib := gdsii.NewLibrary("LIB")
	s := gdsii.NewStructure("TOP")
	s.Elements = append(s.Elements, &gdsii.Boundary{
		Layer: 1,
		XY: []model.Point{
			{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}, {X: 0, Y: 0},
		},
	})
	lib.Structures = append(lib.Structures, s)

	f := GDSIIToOASIS(lib)
	if f.Unit != lib.DatabaseUnit {
		t.Errorf("unit = %g, want %g", f.Unit, lib.DatabaseUnit)
	}
	if f.Names.CellNames[0] != "TOP" {
		t.Errorf("cell names = %v", f.Names.CellNames)
	}
	if len(f.Cells) != 1 || len(f.Cells[0].Elements) != 1 {
		t.Fatalf("cells = %+v", f.Cells)
	}

	rect, ok := f.Cells[0].Elements[0].(*oasis.Rectangle)
	if !ok {
		t.Fatalf("element = %T, want *oasis.Rectangle", f.Cells[0].Elements[0])
	}
	if rect.X != 0 || rect.Y != 0 || rect.Width != 1000 || rect.Height != 1000 || rect.Layer != 1 {
		t.Errorf("rectangle = %+v", rect)
	}

	// And back: the rectangle reproduces the original closed boundary.
	back := OASISToGDSII(f)
	if back.Name != DefaultLibraryName {
		t.Errorf("library name = %q, want %q", back.Name, DefaultLibraryName)
	}
	if len(back.Structures) != 1 {
		t.Fatalf("structures = %+v", back.Structures)
	}
	b, ok := back.Structures[0].Elements[0].(*gdsii.Boundary)
	if !ok {
		t.Fatalf("element = %T, want *gdsii.Boundary", back.Structures[0].Elements[0])
	}
	want := []model.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}, {X: 0, Y: 0}}
	if len(b.XY) != 5 || b.Layer != 1 {
		t.Fatalf("boundary = %+v", b)
	}
	for i, p := range want {
		if b.XY[i] != p {
			t.Errorf("point %d = %v, want %v", i, b.XY[i], p)
		}
	}
}

func TestNonRectangularBoundaryBecomesPolygon(t *testing.T) {
	lib := gdsii.NewLibrary("LIB")
	s := gdsii.NewStructure("TRI")
	s.Elements = append(s.Elements, &gdsii.Boundary{
		Layer: 2,
		XY:    []model.Point{{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 60, Y: 90}},
	})
	lib.Structures = append(lib.Structures, s)

	f := GDSIIToOASIS(lib)
	poly, ok := f.Cells[0].Elements[0].(*oasis.Polygon)
	if !ok {
		t.Fatalf("element = %T, want *oasis.Polygon", f.Cells[0].Elements[0])
	}
	if poly.X != 10 || poly.Y != 10 {
		t.Errorf("anchor = (%d, %d), want (10, 10)", poly.X, poly.Y)
	}
	wantDeltas := []model.Delta{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 50, Y: 80}}
	for i, d := range wantDeltas {
		if poly.Points[i] != d {
			t.Errorf("delta %d = %v, want %v", i, poly.Points[i], d)
		}
	}

	back := OASISToGDSII(f)
	b := back.Structures[0].Elements[0].(*gdsii.Boundary)
	wantPoints := []model.Point{{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 60, Y: 90}}
	for i, p := range wantPoints {
		if b.XY[i] != p {
			t.Errorf("point %d = %v, want %v", i, b.XY[i], p)
		}
	}
}

func TestDegenerateBoundaryDropped(t *testing.T) {
	lib := gdsii.NewLibrary("LIB")
	s := gdsii.NewStructure("BAD")
	s.Elements = append(s.Elements, &gdsii.Boundary{
		XY: []model.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
	})
	lib.Structures = append(lib.Structures, s)

	f := GDSIIToOASIS(lib)
	if len(f.Cells[0].Elements) != 0 {
		t.Errorf("degenerate boundary survived: %+v", f.Cells[0].Elements)
	}
}

func TestPathWidthHalving(t *testing.T) {
	width := int32(50)
	ext := int32(25)
	lib := gdsii.NewLibrary("LIB")
	s := gdsii.NewStructure("WIRE")
	s.Elements = append(s.Elements, &gdsii.Path{
		Layer:    3,
		Width:    &width,
		BeginExt: &ext,
		XY:       []model.Point{{X: 100, Y: 100}, {X: 300, Y: 100}},
	})
	lib.Structures = append(lib.Structures, s)

	f := GDSIIToOASIS(lib)
	p, ok := f.Cells[0].Elements[0].(*oasis.Path)
	if !ok {
		t.Fatalf("element = %T, want *oasis.Path", f.Cells[0].Elements[0])
	}
	if p.HalfWidth != 25 {
		t.Errorf("half width = %d, want 25", p.HalfWidth)
	}
	if p.Extension.Type != oasis.ExtFlush {
		t.Errorf("extensions must convert to flush, got %v", p.Extension.Type)
	}
	if p.X != 100 || p.Y != 100 || p.Points[1] != (model.Delta{X: 200, Y: 0}) {
		t.Errorf("path geometry wrong: %+v", p)
	}

	back := OASISToGDSII(f)
	gp := back.Structures[0].Elements[0].(*gdsii.Path)
	if gp.Width == nil || *gp.Width != 50 {
		t.Errorf("width = %v, want 50", gp.Width)
	}
	if gp.PathType != 0 {
		t.Errorf("path type = %d, want 0", gp.PathType)
	}
	if gp.BeginExt != nil || gp.EndExt != nil {
		t.Error("extensions must not be reconstructed")
	}
}

func TestPlacementTransforms(t *testing.T) {
	mag := 2.0
	lib := gdsii.NewLibrary("LIB")
	s := gdsii.NewStructure("TOP")
	s.Elements = append(s.Elements,
		&gdsii.StructRef{
			StructName: "SUB",
			XY:         model.Point{X: 10, Y: 20},
			Transform:  &gdsii.STrans{Reflection: true, Magnification: &mag},
		},
		&gdsii.StructRef{
			StructName: "SUB",
			XY:         model.Point{X: 30, Y: 40},
		},
	)
	lib.Structures = append(lib.Structures, s)

	f := GDSIIToOASIS(lib)
	transformed := f.Cells[0].Elements[0].(*oasis.Placement)
	if !transformed.Mirror || transformed.Magnification == nil || *transformed.Magnification != 2.0 {
		t.Errorf("placement transform lost: %+v", transformed)
	}
	plain := f.Cells[0].Elements[1].(*oasis.Placement)
	if plain.Mirror || plain.Magnification != nil || plain.Angle != nil {
		t.Errorf("plain placement gained a transform: %+v", plain)
	}

	back := OASISToGDSII(f)
	ref := back.Structures[0].Elements[0].(*gdsii.StructRef)
	if ref.Transform == nil || !ref.Transform.Reflection {
		t.Errorf("sref transform not synthesized: %+v", ref)
	}
	plainRef := back.Structures[0].Elements[1].(*gdsii.StructRef)
	if plainRef.Transform != nil {
		t.Error("untransformed placement must yield no STrans")
	}
}

func TestUnsupportedKindsDropped(t *testing.T) {
	lib := gdsii.NewLibrary("LIB")
	s := gdsii.NewStructure("MIXED")
	s.Elements = append(s.Elements,
		&gdsii.ArrayRef{StructName: "SUB", Columns: 2, Rows: 2,
			XY: []model.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 0, Y: 20}}},
		&gdsii.Node{Layer: 1, XY: []model.Point{{X: 0, Y: 0}}},
		&gdsii.Box{Layer: 2, XY: []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}},
		&gdsii.Text{Layer: 3, String: "KEPT", XY: model.Point{X: 1, Y: 1}},
	)
	lib.Structures = append(lib.Structures, s)

	f := GDSIIToOASIS(lib)
	if len(f.Cells[0].Elements) != 1 {
		t.Fatalf("elements = %+v, want only the text", f.Cells[0].Elements)
	}
	if f.Cells[0].Elements[0].Kind() != oasis.KindText {
		t.Errorf("survivor kind = %v, want TEXT", f.Cells[0].Elements[0].Kind())
	}

	oas := oasis.NewFile()
	oas.Cells = append(oas.Cells, &oasis.Cell{
		Name: "SHAPES",
		Elements: []oasis.Element{
			&oasis.Trapezoid{Layer: 1, Width: 10, Height: 10},
			&oasis.CTrapezoid{Layer: 2, Width: 10, Height: 10},
			&oasis.Circle{Layer: 3, Radius: 5},
			&oasis.Rectangle{Layer: 4, Width: 10, Height: 10},
		},
	})

	back := OASISToGDSII(oas)
	if len(back.Structures[0].Elements) != 1 {
		t.Fatalf("elements = %+v, want only the boundary", back.Structures[0].Elements)
	}
	if back.Structures[0].Elements[0].Kind() != gdsii.KindBoundary {
		t.Errorf("survivor kind = %v, want BOUNDARY", back.Structures[0].Elements[0].Kind())
	}
}

func TestCustomLibraryName(t *testing.T) {
	f := oasis.NewFile()
	f.Cells = append(f.Cells, &oasis.Cell{Name: "A"})

	lib := OASISToGDSIIWithName(f, "MYLIB")
	if lib.Name != "MYLIB" {
		t.Errorf("library name = %q, want MYLIB", lib.Name)
	}
}
