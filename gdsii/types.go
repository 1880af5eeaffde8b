package gdsii

import (
	"time"

	"github.com/tsawler/laykit/model"
)

// Timestamp is a GDSII calendar timestamp, stored as six 2-byte fields.
type Timestamp struct {
	Year   uint16
	Month  uint16
	Day    uint16
	Hour   uint16
	Minute uint16
	Second uint16
}

// Now returns the current local time as a Timestamp.
func Now() Timestamp {
	t := time.Now()
	return Timestamp{
		Year:   uint16(t.Year()),
		Month:  uint16(t.Month()),
		Day:    uint16(t.Day()),
		Hour:   uint16(t.Hour()),
		Minute: uint16(t.Minute()),
		Second: uint16(t.Second()),
	}
}

// Library is a complete GDSII library: header fields, optional tables,
// and an ordered list of structures.
type Library struct {
	Version      uint16
	ModTime      Timestamp
	AccessTime   Timestamp
	Name         string
	UserUnit     float64 // user unit in meters
	DatabaseUnit float64 // database unit in meters
	RefLibs      []string
	Fonts        []string
	Generations  *int16
	AttrTable    string
	Structures   []*Structure
}

// NewLibrary returns a library with the customary defaults: format
// version 600, a 1 micron user unit and a 1nm database unit.
func NewLibrary(name string) *Library {
	now := Now()
	return &Library{
		Version:      600,
		ModTime:      now,
		AccessTime:   now,
		Name:         name,
		UserUnit:     1e-6,
		DatabaseUnit: 1e-9,
	}
}

// Structure is a named cell holding geometry and instance references.
type Structure struct {
	Name     string
	Created  Timestamp
	Modified Timestamp
	Class    *int16
	Elements []Element
}

// NewStructure returns an empty structure timestamped now.
func NewStructure(name string) *Structure {
	now := Now()
	return &Structure{Name: name, Created: now, Modified: now}
}

// ElementKind identifies which variant of the element union a value is.
type ElementKind int

const (
	KindBoundary ElementKind = iota
	KindPath
	KindStructRef
	KindArrayRef
	KindText
	KindNode
	KindBox
)

// String returns the element kind name as used in the GDSII standard.
func (k ElementKind) String() string {
	switch k {
	case KindBoundary:
		return "BOUNDARY"
	case KindPath:
		return "PATH"
	case KindStructRef:
		return "SREF"
	case KindArrayRef:
		return "AREF"
	case KindText:
		return "TEXT"
	case KindNode:
		return "NODE"
	case KindBox:
		return "BOX"
	default:
		return "UNKNOWN"
	}
}

// Element is one entry in a structure. The concrete type is one of
// *Boundary, *Path, *StructRef, *ArrayRef, *Text, *Node or *Box.
type Element interface {
	Kind() ElementKind
}

// STrans holds the transform flags attached to instance and text
// elements. Magnification and Angle are nil when the corresponding
// record is absent.
type STrans struct {
	Reflection    bool
	AbsoluteMag   bool
	AbsoluteAngle bool
	Magnification *float64
	Angle         *float64 // degrees, counterclockwise
}

// Property is one attribute-number/value pair attached to an element.
type Property struct {
	Attribute int16
	Value     string
}

// Boundary is a closed filled polygon.
type Boundary struct {
	Layer      int16
	Datatype   int16
	XY         []model.Point
	ELFlags    *int16
	Plex       *int32
	Properties []Property
}

// Kind implements Element.
func (*Boundary) Kind() ElementKind { return KindBoundary }

// Path is an open polyline with optional width and end extensions.
type Path struct {
	Layer      int16
	Datatype   int16
	PathType   int16
	Width      *int32
	BeginExt   *int32
	EndExt     *int32
	XY         []model.Point
	ELFlags    *int16
	Plex       *int32
	Properties []Property
}

// Kind implements Element.
func (*Path) Kind() ElementKind { return KindPath }

// StructRef places a single instance of a named structure.
type StructRef struct {
	StructName string
	XY         model.Point
	Transform  *STrans
	ELFlags    *int16
	Plex       *int32
	Properties []Property
}

// Kind implements Element.
func (*StructRef) Kind() ElementKind { return KindStructRef }

// ArrayRef places a grid of instances of a named structure. XY holds
// exactly three points: the origin, the column-span endpoint, and the
// row-span endpoint.
type ArrayRef struct {
	StructName string
	Columns    uint16
	Rows       uint16
	XY         []model.Point
	Transform  *STrans
	ELFlags    *int16
	Plex       *int32
	Properties []Property
}

// Kind implements Element.
func (*ArrayRef) Kind() ElementKind { return KindArrayRef }

// Text is an annotation string anchored at a point.
type Text struct {
	Layer        int16
	TextType     int16
	String       string
	XY           model.Point
	Presentation *int16
	Transform    *STrans
	Width        *int32
	ELFlags      *int16
	Plex         *int32
	Properties   []Property
}

// Kind implements Element.
func (*Text) Kind() ElementKind { return KindText }

// Node is an electrical net shape.
type Node struct {
	Layer      int16
	NodeType   int16
	XY         []model.Point
	ELFlags    *int16
	Plex       *int32
	Properties []Property
}

// Kind implements Element.
func (*Node) Kind() ElementKind { return KindNode }

// Box is a four-sided auxiliary shape.
type Box struct {
	Layer      int16
	BoxType    int16
	XY         []model.Point
	ELFlags    *int16
	Plex       *int32
	Properties []Property
}

// Kind implements Element.
func (*Box) Kind() ElementKind { return KindBox }
