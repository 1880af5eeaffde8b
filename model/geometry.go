package model

import "fmt"

// Point is an absolute coordinate in database units.
type Point struct {
	X int32
	Y int32
}

// String returns the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Delta is a coordinate offset relative to some anchor point. OASIS
// point lists are stored this way.
type Delta struct {
	X int64
	Y int64
}

// BBox is an axis-aligned bounding box anchored at its minimum corner.
type BBox struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// Left returns the minimum x coordinate.
func (b BBox) Left() int32 { return b.X }

// Right returns the maximum x coordinate.
func (b BBox) Right() int32 { return b.X + b.Width }

// Bottom returns the minimum y coordinate.
func (b BBox) Bottom() int32 { return b.Y }

// Top returns the maximum y coordinate.
func (b BBox) Top() int32 { return b.Y + b.Height }

// Bounds computes the bounding box of a point list. An empty list yields
// the zero box.
func Bounds(points []Point) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// IsRectangle reports whether points describe an axis-perpendicular
// rectangle: four corners, optionally repeated as an explicit closing
// fifth point, with every pair of consecutive edges at a right angle.
func IsRectangle(points []Point) bool {
	switch len(points) {
	case 4:
	case 5:
		if points[0] != points[4] {
			return false
		}
		points = points[:4]
	default:
		return false
	}

	for i := 0; i < 4; i++ {
		a := points[i]
		b := points[(i+1)%4]
		c := points[(i+2)%4]
		e1x := int64(b.X) - int64(a.X)
		e1y := int64(b.Y) - int64(a.Y)
		e2x := int64(c.X) - int64(b.X)
		e2y := int64(c.Y) - int64(b.Y)
		if e1x*e2x+e1y*e2y != 0 {
			return false
		}
	}
	return true
}
