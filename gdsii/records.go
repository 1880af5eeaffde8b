package gdsii

// Record types.
const (
	recHeader       = 0x00
	recBgnLib       = 0x01
	recLibName      = 0x02
	recUnits        = 0x03
	recEndLib       = 0x04
	recBgnStr       = 0x05
	recStrName      = 0x06
	recEndStr       = 0x07
	recBoundary     = 0x08
	recPath         = 0x09
	recSRef         = 0x0A
	recARef         = 0x0B
	recText         = 0x0C
	recLayer        = 0x0D
	recDatatype     = 0x0E
	recWidth        = 0x0F
	recXY           = 0x10
	recEndEl        = 0x11
	recSName        = 0x12
	recColRow       = 0x13
	recNode         = 0x15
	recTextType     = 0x16
	recPresentation = 0x17
	recString       = 0x19
	recSTrans       = 0x1A
	recMag          = 0x1B
	recAngle        = 0x1C
	recRefLibs      = 0x1F
	recPathType     = 0x21
	recElFlags      = 0x26
	recFonts        = 0x29
	recNodeType     = 0x2A
	recPropAttr     = 0x2B
	recPropValue    = 0x2C
	recBox          = 0x2D
	recBoxType      = 0x2E
	recPlex         = 0x2F
	recBgnExtn      = 0x30
	recEndExtn      = 0x31
	recStrClass     = 0x34
	recGenerations  = 0x3C
	recAttrTable    = 0x3D
)

// Data types.
const (
	dtNoData = 0
	dtBits   = 1
	dtInt2   = 2
	dtInt4   = 3
	dtReal4  = 4
	dtReal8  = 5
	dtASCII  = 6
)

// STRANS flag bits.
const (
	stransReflection = int16(-0x8000)
	stransAbsMag     = int16(0x0004)
	stransAbsAngle   = int16(0x0002)
)

// Each FONTS entry occupies a fixed-width padded slot.
const fontSlotSize = 44
