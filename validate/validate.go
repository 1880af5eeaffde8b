// Package validate performs referential-integrity and geometric sanity
// checks over a parsed layout model. The codecs themselves enforce none
// of these rules; validation is a separate pass over the in-memory
// model, and every finding is reported rather than only the first.
package validate

import (
	"fmt"

	"github.com/tsawler/laykit/gdsii"
	"github.com/tsawler/laykit/oasis"
)

// Issue is one validation finding.
type Issue struct {
	Where   string
	Message string
}

// String returns the issue as "where: message".
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Where, i.Message)
}

// GDSII checks a library: positive units, a named library, named and
// unique structures, minimum point counts, boundary closure, array
// counts, and that every reference names an existing structure.
func GDSII(lib *gdsii.Library) []Issue {
	var issues []Issue
	report := func(where, format string, args ...interface{}) {
		issues = append(issues, Issue{Where: where, Message: fmt.Sprintf(format, args...)})
	}

	if lib.Name == "" {
		report("library", "library name is empty")
	}
	if lib.UserUnit <= 0 {
		report("library", "user unit %g is not positive", lib.UserUnit)
	}
	if lib.DatabaseUnit <= 0 {
		report("library", "database unit %g is not positive", lib.DatabaseUnit)
	}
	if len(lib.Structures) == 0 {
		report("library", "library has no structures")
	}

	defined := make(map[string]bool, len(lib.Structures))
	for _, s := range lib.Structures {
		if s.Name == "" {
			report("structure", "structure name is empty")
			continue
		}
		if defined[s.Name] {
			report("structure "+s.Name, "duplicate structure name")
		}
		defined[s.Name] = true
	}

	for _, s := range lib.Structures {
		where := "structure " + s.Name
		for i, el := range s.Elements {
			at := fmt.Sprintf("%s element %d (%v)", where, i, el.Kind())
			switch e := el.(type) {
			case *gdsii.Boundary:
				if len(e.XY) < 4 {
					report(at, "boundary has %d points, needs at least 4", len(e.XY))
				} else if e.XY[0] != e.XY[len(e.XY)-1] {
					report(at, "boundary is not explicitly closed")
				}
			case *gdsii.Path:
				if len(e.XY) < 2 {
					report(at, "path has %d points, needs at least 2", len(e.XY))
				}
			case *gdsii.StructRef:
				if !defined[e.StructName] {
					report(at, "references undefined structure %q", e.StructName)
				}
			case *gdsii.ArrayRef:
				if !defined[e.StructName] {
					report(at, "references undefined structure %q", e.StructName)
				}
				if e.Columns == 0 || e.Rows == 0 {
					report(at, "array counts %dx%d must be positive", e.Columns, e.Rows)
				}
				if len(e.XY) != 3 {
					report(at, "array has %d reference points, needs exactly 3", len(e.XY))
				}
			}
		}
	}

	return issues
}

// OASIS checks a file: a positive unit, named and unique cells, minimum
// point counts, nonzero rectangle extents, and that every placement
// names an existing cell.
func OASIS(f *oasis.File) []Issue {
	var issues []Issue
	report := func(where, format string, args ...interface{}) {
		issues = append(issues, Issue{Where: where, Message: fmt.Sprintf(format, args...)})
	}

	if f.Unit <= 0 {
		report("file", "unit %g is not positive", f.Unit)
	}
	if len(f.Cells) == 0 {
		report("file", "file has no cells")
	}

	defined := make(map[string]bool, len(f.Cells))
	for _, c := range f.Cells {
		if c.Name == "" {
			report("cell", "cell name is empty")
			continue
		}
		if defined[c.Name] {
			report("cell "+c.Name, "duplicate cell name")
		}
		defined[c.Name] = true
	}

	for _, c := range f.Cells {
		where := "cell " + c.Name
		for i, el := range c.Elements {
			at := fmt.Sprintf("%s element %d (%v)", where, i, el.Kind())
			switch e := el.(type) {
			case *oasis.Rectangle:
				if e.Width == 0 || e.Height == 0 {
					report(at, "rectangle extents %dx%d must be nonzero", e.Width, e.Height)
				}
			case *oasis.Polygon:
				if len(e.Points) < 3 {
					report(at, "polygon has %d points, needs at least 3", len(e.Points))
				}
			case *oasis.Path:
				if len(e.Points) < 2 {
					report(at, "path has %d points, needs at least 2", len(e.Points))
				}
			case *oasis.Placement:
				if !defined[e.CellName] {
					report(at, "references undefined cell %q", e.CellName)
				}
			}
		}
	}

	return issues
}
