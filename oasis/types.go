package oasis

import "github.com/tsawler/laykit/model"

// Record ids.
const (
	tokPad        = 0
	tokStart      = 1
	tokEnd        = 2
	tokCellName   = 3
	tokTextString = 5
	tokPropName   = 7
	tokPropString = 9
	tokLayerName  = 11
	tokCell       = 13
	tokXYAbsolute = 14
	tokXYRelative = 15
	tokPlacement  = 16
	tokText       = 18
	tokRectangle  = 19
	tokPolygon    = 20
	tokPath       = 21
	tokTrapezoid  = 22
	tokCTrapezoid = 23
	tokCircle     = 24
)

var magic = []byte("%SEMI-OASIS\r\n")

// File is a complete OASIS file.
type File struct {
	Version    string
	Unit       float64 // database unit in meters
	OffsetFlag bool
	Names      NameTable
	Cells      []*Cell
}

// NewFile returns an empty file with the customary defaults: format
// version 1.0 and a 1nm database unit.
func NewFile() *File {
	return &File{
		Version: "1.0",
		Unit:    1e-9,
		Names:   NewNameTable(),
	}
}

// NameTable holds the five independent reference-number to string
// dictionaries an OASIS file may define. Keys need not be contiguous.
type NameTable struct {
	CellNames   map[uint32]string
	TextStrings map[uint32]string
	PropNames   map[uint32]string
	PropStrings map[uint32]string
	LayerNames  map[uint32]string
}

// NewNameTable returns a table with all five dictionaries allocated.
func NewNameTable() NameTable {
	return NameTable{
		CellNames:   make(map[uint32]string),
		TextStrings: make(map[uint32]string),
		PropNames:   make(map[uint32]string),
		PropStrings: make(map[uint32]string),
		LayerNames:  make(map[uint32]string),
	}
}

// CellRef returns the reference number registered for a cell name.
func (nt NameTable) CellRef(name string) (uint32, bool) {
	for ref, n := range nt.CellNames {
		if n == name {
			return ref, true
		}
	}
	return 0, false
}

// Cell is a named container of elements.
type Cell struct {
	Name     string
	Elements []Element
}

// ElementKind identifies the concrete element variant.
type ElementKind int

const (
	KindRectangle ElementKind = iota
	KindPolygon
	KindPath
	KindTrapezoid
	KindCTrapezoid
	KindCircle
	KindText
	KindPlacement
)

// String returns the record name for the kind.
func (k ElementKind) String() string {
	switch k {
	case KindRectangle:
		return "RECTANGLE"
	case KindPolygon:
		return "POLYGON"
	case KindPath:
		return "PATH"
	case KindTrapezoid:
		return "TRAPEZOID"
	case KindCTrapezoid:
		return "CTRAPEZOID"
	case KindCircle:
		return "CIRCLE"
	case KindText:
		return "TEXT"
	case KindPlacement:
		return "PLACEMENT"
	default:
		return "UNKNOWN"
	}
}

// Element is one entry in a cell. The concrete type is one of
// *Rectangle, *Polygon, *Path, *Trapezoid, *CTrapezoid, *Circle, *Text
// or *Placement.
type Element interface {
	Kind() ElementKind
}

// Repetition describes how an element repeats across the plane. The
// concrete type is ReusePrevious, *Matrix, *Displacements or *Grid.
// Repetitions are parsed on read but never written back.
type Repetition interface {
	isRepetition()
}

// ReusePrevious repeats with the stream's previously defined repetition.
type ReusePrevious struct{}

func (ReusePrevious) isRepetition() {}

// Matrix is a regular XCount×YCount grid with independent spacings.
type Matrix struct {
	XCount uint32
	YCount uint32
	XSpace uint64
	YSpace uint64
}

func (*Matrix) isRepetition() {}

// Displacements lists explicit per-instance offsets.
type Displacements struct {
	X []int64
	Y []int64
}

func (*Displacements) isRepetition() {}

// Grid is a single-axis regular repetition. Vertical selects the axis.
type Grid struct {
	Count    uint32
	Space    uint64
	Vertical bool
}

func (*Grid) isRepetition() {}

// Rectangle is an axis-aligned box anchored at its minimum corner.
type Rectangle struct {
	Layer      uint32
	Datatype   uint32
	X          int64
	Y          int64
	Width      uint64
	Height     uint64
	Repetition Repetition
}

// Kind implements Element.
func (*Rectangle) Kind() ElementKind { return KindRectangle }

// Polygon is a closed shape; Points are relative to the (X, Y) anchor.
type Polygon struct {
	Layer      uint32
	Datatype   uint32
	X          int64
	Y          int64
	Points     []model.Delta
	Repetition Repetition
}

// Kind implements Element.
func (*Polygon) Kind() ElementKind { return KindPolygon }

// ExtensionType selects how far a path end extends past its last point.
type ExtensionType int

const (
	ExtFlush ExtensionType = iota
	ExtHalfWidth
	ExtExplicit
)

// ExtensionScheme carries a path's end-extension choice. Start and End
// are only meaningful for ExtExplicit.
type ExtensionScheme struct {
	Type  ExtensionType
	Start int64
	End   int64
}

// Path is a polyline with a half-width; Points are relative to the
// anchor.
type Path struct {
	Layer      uint32
	Datatype   uint32
	X          int64
	Y          int64
	HalfWidth  uint64
	Extension  ExtensionScheme
	Points     []model.Delta
	Repetition Repetition
}

// Kind implements Element.
func (*Path) Kind() ElementKind { return KindPath }

// Trapezoid is a four-sided shape with two parallel axis-aligned sides.
type Trapezoid struct {
	Layer      uint32
	Datatype   uint32
	X          int64
	Y          int64
	Width      uint64
	Height     uint64
	DeltaA     int64
	DeltaB     int64
	Vertical   bool // parallel sides run vertically
	Repetition Repetition
}

// Kind implements Element.
func (*Trapezoid) Kind() ElementKind { return KindTrapezoid }

// CTrapezoid is the compact trapezoid variant: TrapType selects one of
// the format's predefined shapes.
type CTrapezoid struct {
	Layer      uint32
	Datatype   uint32
	X          int64
	Y          int64
	TrapType   uint8
	Width      uint64
	Height     uint64
	Repetition Repetition
}

// Kind implements Element.
func (*CTrapezoid) Kind() ElementKind { return KindCTrapezoid }

// Circle is a filled disc.
type Circle struct {
	Layer      uint32
	Datatype   uint32
	X          int64
	Y          int64
	Radius     uint64
	Repetition Repetition
}

// Kind implements Element.
func (*Circle) Kind() ElementKind { return KindCircle }

// Text is an annotation string anchored at a point.
type Text struct {
	Layer      uint32
	TextType   uint32
	X          int64
	Y          int64
	String     string
	Repetition Repetition
}

// Kind implements Element.
func (*Text) Kind() ElementKind { return KindText }

// Placement instantiates a named cell at a point, optionally scaled,
// rotated or mirrored.
type Placement struct {
	CellName      string
	X             int64
	Y             int64
	Magnification *float64
	Angle         *float64 // degrees, counterclockwise
	Mirror        bool
	Repetition    Repetition
}

// Kind implements Element.
func (*Placement) Kind() ElementKind { return KindPlacement }
