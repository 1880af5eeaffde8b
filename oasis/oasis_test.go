package oasis

import (
	"bytes"
	"testing"

	"github.com/tsawler/laykit/model"
)

func sampleFile() *File {
	f := NewFile()
	f.Names.CellNames[0] = "TOP"
	f.Names.CellNames[1] = "SUB"
	f.Names.TextStrings[0] = "net_label"
	f.Names.PropNames[0] = "OWNER"
	f.Names.PropStrings[0] = "layout-team"
	f.Names.LayerNames[1] = "METAL1"

	mag := 2.0
	angle := 90.0

	sub := &Cell{Name: "SUB"}
	sub.Elements = append(sub.Elements,
		&Rectangle{Layer: 1, Datatype: 0, X: 0, Y: 0, Width: 100, Height: 50},
	)

	top := &Cell{Name: "TOP"}
	top.Elements = append(top.Elements,
		&Rectangle{Layer: 1, Datatype: 0, X: -10, Y: 20, Width: 1000, Height: 1000},
		&Polygon{
			Layer: 2, Datatype: 1, X: 5, Y: 5,
			Points: []model.Delta{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 50, Y: 80}},
		},
		&Path{
			Layer: 3, Datatype: 0, X: 0, Y: 0, HalfWidth: 25,
			Extension: ExtensionScheme{Type: ExtExplicit, Start: 10, End: -10},
			Points:    []model.Delta{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 200}},
		},
		&Trapezoid{
			Layer: 4, Datatype: 0, X: 1, Y: 2,
			Width: 80, Height: 40, DeltaA: 10, DeltaB: -10, Vertical: true,
		},
		&CTrapezoid{Layer: 5, Datatype: 0, X: 3, Y: 4, TrapType: 6, Width: 60, Height: 30},
		&Circle{Layer: 6, Datatype: 0, X: 50, Y: 50, Radius: 25},
		&Text{Layer: 7, TextType: 0, X: 0, Y: 100, String: "net_label"},
		&Placement{
			CellName: "SUB", X: 500, Y: 600,
			Magnification: &mag, Angle: &angle, Mirror: true,
		},
	)

	f.Cells = append(f.Cells, sub, top)
	return f
}

func TestFileRoundTrip(t *testing.T) {
	f := sampleFile()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}

	if got.Version != "1.0" {
		t.Errorf("version = %q, want 1.0", got.Version)
	}
	if got.Unit != 1e-9 {
		t.Errorf("unit = %g, want 1e-09", got.Unit)
	}
	if got.Names.CellNames[0] != "TOP" || got.Names.CellNames[1] != "SUB" {
		t.Errorf("cell names = %v", got.Names.CellNames)
	}
	if got.Names.TextStrings[0] != "net_label" {
		t.Errorf("text strings = %v", got.Names.TextStrings)
	}
	if got.Names.PropNames[0] != "OWNER" || got.Names.PropStrings[0] != "layout-team" {
		t.Errorf("prop tables = %v / %v", got.Names.PropNames, got.Names.PropStrings)
	}
	if got.Names.LayerNames[1] != "METAL1" {
		t.Errorf("layer names = %v", got.Names.LayerNames)
	}

	if len(got.Cells) != 2 {
		t.Fatalf("cell count = %d, want 2", len(got.Cells))
	}
	if got.Cells[0].Name != "SUB" || got.Cells[1].Name != "TOP" {
		t.Errorf("cell order = %q, %q", got.Cells[0].Name, got.Cells[1].Name)
	}

	top := got.Cells[1]
	if len(top.Elements) != 8 {
		t.Fatalf("TOP element count = %d, want 8", len(top.Elements))
	}

	wantKinds := []ElementKind{
		KindRectangle, KindPolygon, KindPath, KindTrapezoid,
		KindCTrapezoid, KindCircle, KindText, KindPlacement,
	}
	for i, k := range wantKinds {
		if top.Elements[i].Kind() != k {
			t.Errorf("element %d kind = %v, want %v", i, top.Elements[i].Kind(), k)
		}
	}

	rect := top.Elements[0].(*Rectangle)
	if rect.X != -10 || rect.Y != 20 || rect.Width != 1000 || rect.Height != 1000 {
		t.Errorf("rectangle fields wrong: %+v", rect)
	}

	poly := top.Elements[1].(*Polygon)
	if len(poly.Points) != 3 || poly.Points[2] != (model.Delta{X: 50, Y: 80}) {
		t.Errorf("polygon points wrong: %+v", poly.Points)
	}

	path := top.Elements[2].(*Path)
	if path.HalfWidth != 25 || path.Extension.Type != ExtExplicit ||
		path.Extension.Start != 10 || path.Extension.End != -10 {
		t.Errorf("path fields wrong: %+v", path)
	}

	trap := top.Elements[3].(*Trapezoid)
	if trap.DeltaA != 10 || trap.DeltaB != -10 || !trap.Vertical {
		t.Errorf("trapezoid fields wrong: %+v", trap)
	}

	ctrap := top.Elements[4].(*CTrapezoid)
	if ctrap.TrapType != 6 || ctrap.Width != 60 {
		t.Errorf("ctrapezoid fields wrong: %+v", ctrap)
	}

	circ := top.Elements[5].(*Circle)
	if circ.Radius != 25 || circ.X != 50 {
		t.Errorf("circle fields wrong: %+v", circ)
	}

	txt := top.Elements[6].(*Text)
	if txt.String != "net_label" || txt.Y != 100 {
		t.Errorf("text fields wrong: %+v", txt)
	}

	pl := top.Elements[7].(*Placement)
	if pl.CellName != "SUB" || pl.X != 500 || pl.Y != 600 {
		t.Errorf("placement fields wrong: %+v", pl)
	}
	if !pl.Mirror || pl.Magnification == nil || *pl.Magnification != 2.0 ||
		pl.Angle == nil || *pl.Angle != 90.0 {
		t.Errorf("placement transform wrong: %+v", pl)
	}
}

func TestInlineCellName(t *testing.T) {
	f := NewFile()
	f.Cells = append(f.Cells, &Cell{
		Name: "ORPHAN",
		Elements: []Element{
			&Rectangle{Layer: 1, Width: 10, Height: 10},
		},
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if len(got.Cells) != 1 || got.Cells[0].Name != "ORPHAN" {
		t.Fatalf("cells = %+v", got.Cells)
	}
	if len(got.Cells[0].Elements) != 1 {
		t.Errorf("elements = %+v", got.Cells[0].Elements)
	}
}

func TestInvalidMagic(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("%SEMI-NOASIS\r\n"))); err == nil {
		t.Error("expected error for bad magic")
	}
}

func TestUnresolvedCellReference(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(tokStart)
	buf.Write([]byte{3, '1', '.', '0'})          // version
	buf.Write([]byte{7, 0, 0, 0, 0, 0, 0, 0, 0}) // unit, float64 scheme
	buf.WriteByte(0)                             // offset flag
	buf.WriteByte(tokCell)
	buf.WriteByte(8 << 1) // reference 8, never defined
	buf.WriteByte(tokEnd)
	buf.WriteByte(0)

	if _, err := Read(bytes.NewReader(buf.Bytes())); err == nil {
		t.Error("expected error for unresolved cell name reference")
	}
}

func TestRepetitionsParsedOnRead(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(tokStart)
	buf.Write([]byte{3, '1', '.', '0'})
	buf.Write([]byte{7, 0, 0, 0, 0, 0, 0, 0, 0})
	buf.WriteByte(0)

	buf.WriteByte(tokCell)
	buf.WriteByte(1) // inline name
	buf.Write([]byte{4, 'G', 'R', 'I', 'D'})

	// Rectangle with a matrix repetition flagged in the info byte.
	buf.WriteByte(tokRectangle)
	buf.WriteByte(repFlag)
	buf.WriteByte(1)  // layer
	buf.WriteByte(0)  // datatype
	buf.WriteByte(10) // width
	buf.WriteByte(10) // height
	buf.WriteByte(0)  // x
	buf.WriteByte(0)  // y
	buf.WriteByte(1)  // repetition: matrix
	buf.WriteByte(3)  // xcount
	buf.WriteByte(2)  // ycount
	buf.WriteByte(20) // xspace
	buf.WriteByte(30) // yspace

	buf.WriteByte(tokEnd)
	buf.WriteByte(0)

	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if len(got.Cells) != 1 || len(got.Cells[0].Elements) != 1 {
		t.Fatalf("cells = %+v", got.Cells)
	}
	rect := got.Cells[0].Elements[0].(*Rectangle)
	m, ok := rect.Repetition.(*Matrix)
	if !ok {
		t.Fatalf("repetition = %T, want *Matrix", rect.Repetition)
	}
	if m.XCount != 3 || m.YCount != 2 || m.XSpace != 20 || m.YSpace != 30 {
		t.Errorf("matrix = %+v", m)
	}
}

func TestRepetitionVariantsParsedOnRead(t *testing.T) {
	// Append one rectangle per remaining repetition variant to a cell.
	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(tokStart)
	buf.Write([]byte{3, '1', '.', '0'})
	buf.Write([]byte{7, 0, 0, 0, 0, 0, 0, 0, 0})
	buf.WriteByte(0)

	buf.WriteByte(tokCell)
	buf.WriteByte(1)
	buf.Write([]byte{3, 'R', 'E', 'P'})

	rect := func(rep ...byte) {
		buf.WriteByte(tokRectangle)
		buf.WriteByte(repFlag)
		buf.Write([]byte{1, 0, 10, 10, 0, 0}) // layer dt w h x y
		buf.Write(rep)
	}
	rect(0)                   // reuse previous
	rect(2, 2, 10, 9, 14, 18) // displacements (5,-5), (7,9) zigzagged
	rect(3, 1, 4, 25)         // vertical grid, 4 instances 25 apart

	buf.WriteByte(tokEnd)
	buf.WriteByte(0)

	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if len(got.Cells) != 1 || len(got.Cells[0].Elements) != 3 {
		t.Fatalf("cells = %+v", got.Cells)
	}
	els := got.Cells[0].Elements

	if _, ok := els[0].(*Rectangle).Repetition.(ReusePrevious); !ok {
		t.Errorf("repetition 0 = %T, want ReusePrevious", els[0].(*Rectangle).Repetition)
	}

	d, ok := els[1].(*Rectangle).Repetition.(*Displacements)
	if !ok {
		t.Fatalf("repetition 1 = %T, want *Displacements", els[1].(*Rectangle).Repetition)
	}
	if len(d.X) != 2 || d.X[0] != 5 || d.Y[0] != -5 || d.X[1] != 7 || d.Y[1] != 9 {
		t.Errorf("displacements = %+v", d)
	}

	g, ok := els[2].(*Rectangle).Repetition.(*Grid)
	if !ok {
		t.Fatalf("repetition 2 = %T, want *Grid", els[2].(*Rectangle).Repetition)
	}
	if g.Count != 4 || g.Space != 25 || !g.Vertical {
		t.Errorf("grid = %+v", g)
	}
}

func TestLayerIntervalForms(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(tokStart)
	buf.Write([]byte{3, '1', '.', '0'})
	buf.Write([]byte{7, 0, 0, 0, 0, 0, 0, 0, 0})
	buf.WriteByte(0)

	// Range interval 3..5 for the layer, single-value 0 for the datatype.
	buf.WriteByte(tokLayerName)
	buf.Write([]byte{2, 'M', '1'})
	buf.Write([]byte{1, 3, 5})
	buf.Write([]byte{0, 0})

	// Explicit list {7, 8}.
	buf.WriteByte(tokLayerName)
	buf.Write([]byte{2, 'M', '2'})
	buf.Write([]byte{2, 2, 7, 8})
	buf.Write([]byte{0, 0})

	buf.WriteByte(tokEnd)
	buf.WriteByte(0)

	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if got.Names.LayerNames[3] != "M1" {
		t.Errorf("layer 3 = %q, want M1", got.Names.LayerNames[3])
	}
	if got.Names.LayerNames[7] != "M2" {
		t.Errorf("layer 7 = %q, want M2", got.Names.LayerNames[7])
	}
}

func TestUnknownTokenEndsCell(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(tokStart)
	buf.Write([]byte{3, '1', '.', '0'})
	buf.Write([]byte{7, 0, 0, 0, 0, 0, 0, 0, 0})
	buf.WriteByte(0)

	buf.WriteByte(tokCell)
	buf.WriteByte(1)
	buf.Write([]byte{1, 'A'})
	buf.WriteByte(tokRectangle)
	buf.WriteByte(0)
	buf.Write([]byte{1, 0, 5, 5, 0, 0}) // layer dt w h x y

	// An id the cell loop does not know: the cell must end cleanly.
	buf.WriteByte(30)

	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if len(got.Cells) != 1 || len(got.Cells[0].Elements) != 1 {
		t.Fatalf("cells = %+v", got.Cells)
	}
}
