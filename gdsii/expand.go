package gdsii

import "github.com/tsawler/laykit/model"

// Expand flattens an array reference into one StructRef per grid cell,
// in row-major order. The instance at row r, column c sits at
// origin + c*colVector/columns + r*rowVector/rows, where colVector and
// rowVector run from the origin to the second and third reference
// points. The transform and properties are shared across all instances.
//
// An array whose point list does not hold exactly the three reference
// points, or whose column or row count is zero, expands to nil.
func Expand(a *ArrayRef) []Element {
	if len(a.XY) != 3 || a.Columns == 0 || a.Rows == 0 {
		return nil
	}

	origin := a.XY[0]
	colStepX := (a.XY[1].X - origin.X) / int32(a.Columns)
	colStepY := (a.XY[1].Y - origin.Y) / int32(a.Columns)
	rowStepX := (a.XY[2].X - origin.X) / int32(a.Rows)
	rowStepY := (a.XY[2].Y - origin.Y) / int32(a.Rows)

	expanded := make([]Element, 0, int(a.Columns)*int(a.Rows))
	for row := int32(0); row < int32(a.Rows); row++ {
		for col := int32(0); col < int32(a.Columns); col++ {
			expanded = append(expanded, &StructRef{
				StructName: a.StructName,
				XY: model.Point{
					X: origin.X + col*colStepX + row*rowStepX,
					Y: origin.Y + col*colStepY + row*rowStepY,
				},
				Transform:  a.Transform,
				ELFlags:    a.ELFlags,
				Plex:       a.Plex,
				Properties: a.Properties,
			})
		}
	}
	return expanded
}

// ExpandAll replaces every ArrayRef in elements with its expansion,
// passing all other elements through unchanged.
func ExpandAll(elements []Element) []Element {
	result := make([]Element, 0, len(elements))
	for _, el := range elements {
		if a, ok := el.(*ArrayRef); ok {
			result = append(result, Expand(a)...)
		} else {
			result = append(result, el)
		}
	}
	return result
}

// InstanceCount returns the number of placed instances elements would
// yield after expansion, without performing it: rows×columns per array
// reference, one per structure reference. Geometry contributes nothing.
func InstanceCount(elements []Element) int {
	count := 0
	for _, el := range elements {
		switch e := el.(type) {
		case *ArrayRef:
			count += int(e.Rows) * int(e.Columns)
		case *StructRef:
			count++
		}
	}
	return count
}
