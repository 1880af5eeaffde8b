package gdsii

import (
	"testing"

	"github.com/tsawler/laykit/model"
)

func TestExpand(t *testing.T) {
	aref := &ArrayRef{
		StructName: "CELL",
		Columns:    3,
		Rows:       2,
		XY:         []model.Point{{X: 0, Y: 0}, {X: 300, Y: 0}, {X: 0, Y: 200}},
	}

	expanded := Expand(aref)
	if len(expanded) != 6 {
		t.Fatalf("expanded %d instances, want 6", len(expanded))
	}

	wantPositions := []model.Point{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0},
		{X: 0, Y: 100}, {X: 100, Y: 100}, {X: 200, Y: 100},
	}
	for i, el := range expanded {
		sref, ok := el.(*StructRef)
		if !ok {
			t.Fatalf("instance %d is not a StructRef", i)
		}
		if sref.StructName != "CELL" {
			t.Errorf("instance %d name = %q, want CELL", i, sref.StructName)
		}
		if sref.XY != wantPositions[i] {
			t.Errorf("instance %d at %v, want %v", i, sref.XY, wantPositions[i])
		}
	}
}

func TestExpandCopiesTransformAndProperties(t *testing.T) {
	mag := 2.0
	aref := &ArrayRef{
		StructName: "CELL",
		Columns:    2,
		Rows:       1,
		XY:         []model.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 0, Y: 10}},
		Transform:  &STrans{Reflection: true, Magnification: &mag},
		Properties: []Property{{Attribute: 7, Value: "tag"}},
	}

	for i, el := range Expand(aref) {
		sref := el.(*StructRef)
		if sref.Transform == nil || !sref.Transform.Reflection {
			t.Errorf("instance %d lost its transform", i)
		}
		if len(sref.Properties) != 1 || sref.Properties[0].Value != "tag" {
			t.Errorf("instance %d lost its properties", i)
		}
	}
}

func TestExpandInvalidInput(t *testing.T) {
	aref := &ArrayRef{
		StructName: "CELL",
		Columns:    3,
		Rows:       2,
		XY:         []model.Point{{X: 0, Y: 0}, {X: 300, Y: 0}}, // missing row point
	}
	if got := Expand(aref); len(got) != 0 {
		t.Errorf("expanded %d instances from invalid input, want 0", len(got))
	}

	zero := &ArrayRef{
		StructName: "CELL",
		XY:         []model.Point{{X: 0, Y: 0}, {X: 300, Y: 0}, {X: 0, Y: 200}},
	}
	if got := Expand(zero); len(got) != 0 {
		t.Errorf("expanded %d instances from zero counts, want 0", len(got))
	}
}

func TestExpandAll(t *testing.T) {
	elements := []Element{
		&Boundary{Layer: 1, XY: []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}},
		&ArrayRef{
			StructName: "CELL",
			Columns:    2,
			Rows:       2,
			XY:         []model.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 0, Y: 20}},
		},
		&StructRef{StructName: "OTHER", XY: model.Point{X: 5, Y: 5}},
	}

	flat := ExpandAll(elements)
	if len(flat) != 6 {
		t.Fatalf("flattened to %d elements, want 6", len(flat))
	}
	if flat[0].Kind() != KindBoundary {
		t.Error("boundary should pass through first")
	}
	for i := 1; i <= 4; i++ {
		if flat[i].Kind() != KindStructRef {
			t.Errorf("element %d kind = %v, want SREF", i, flat[i].Kind())
		}
	}
}

func TestInstanceCount(t *testing.T) {
	elements := []Element{
		&Boundary{},
		&ArrayRef{Columns: 4, Rows: 5},
		&StructRef{},
		&StructRef{},
	}
	if got := InstanceCount(elements); got != 22 {
		t.Errorf("InstanceCount = %d, want 22", got)
	}
}
