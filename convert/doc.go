// Package convert maps the GDSII element model onto the OASIS one and
// back. Conversion is pure and element-by-element, and it is lossy by
// construction: element kinds with no counterpart in the target format
// are dropped, path end extensions are not carried across, and element
// properties stay behind. Callers that need to know what survived
// should compare element counts before and after.
package convert
