package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/tsawler/laykit"
	"github.com/tsawler/laykit/gdsii"
	"github.com/tsawler/laykit/oasis"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "print a summary of a layout file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			layout, err := laykit.Open(args[0])
			if err != nil {
				cmdFailedf(cmd, "reading %s failed: %s", args[0], err)
			}

			t := table.NewWriter()
			t.AppendHeader(table.Row{"Property", "Value"})
			t.AppendRow(table.Row{"File", args[0]})
			t.AppendRow(table.Row{"Format", layout.Format})
			switch {
			case layout.GDSII != nil:
				lib := layout.GDSII
				t.AppendRow(table.Row{"Library", lib.Name})
				t.AppendRow(table.Row{"Version", lib.Version})
				t.AppendRow(table.Row{"User unit (m)", lib.UserUnit})
				t.AppendRow(table.Row{"Database unit (m)", lib.DatabaseUnit})
				t.AppendRow(table.Row{"Structures", len(lib.Structures)})
			case layout.OASIS != nil:
				f := layout.OASIS
				t.AppendRow(table.Row{"Version", f.Version})
				t.AppendRow(table.Row{"Unit (m)", f.Unit})
				t.AppendRow(table.Row{"Cells", len(f.Cells)})
				t.AppendRow(table.Row{"Named cells", len(f.Names.CellNames)})
			}
			t.AppendRow(table.Row{"Elements", layout.ElementCount()})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, AlignHeader: text.AlignCenter},
				{Number: 2, AlignHeader: text.AlignCenter},
			})
			t.SetOutputMirror(os.Stdout)
			t.Render()

			printCellTable(layout)
		},
	}
}

func printCellTable(layout *laykit.Layout) {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Cell", "Elements", "Instances", "Kinds"})

	if layout.GDSII != nil {
		for _, s := range layout.GDSII.Structures {
			t.AppendRow(table.Row{
				s.Name,
				len(s.Elements),
				gdsii.InstanceCount(s.Elements),
				kindBreakdown(kindsOfGDSII(s.Elements)),
			})
		}
	}
	if layout.OASIS != nil {
		for _, c := range layout.OASIS.Cells {
			t.AppendRow(table.Row{
				c.Name,
				len(c.Elements),
				"",
				kindBreakdown(kindsOfOASIS(c.Elements)),
			})
		}
	}

	t.SetOutputMirror(os.Stdout)
	t.Render()
}

func kindsOfGDSII(elements []gdsii.Element) map[string]int {
	kinds := make(map[string]int)
	for _, el := range elements {
		kinds[el.Kind().String()]++
	}
	return kinds
}

func kindsOfOASIS(elements []oasis.Element) map[string]int {
	kinds := make(map[string]int)
	for _, el := range elements {
		kinds[el.Kind().String()]++
	}
	return kinds
}

// kindBreakdown renders a kind histogram as "BOUNDARY:3 SREF:1".
func kindBreakdown(kinds map[string]int) string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for i, name := range names {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s:%d", name, kinds[name])
	}
	return out
}
