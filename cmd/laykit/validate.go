package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tsawler/laykit"
	"github.com/tsawler/laykit/validate"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "check a layout file for integrity problems",
		Long: `Check a layout file for integrity problems: empty or duplicate
names, non-positive units, degenerate geometry, and references to
structures or cells that do not exist. Exits nonzero when any problem
is found.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			layout, err := laykit.Open(args[0])
			if err != nil {
				cmdFailedf(cmd, "reading %s failed: %s", args[0], err)
			}

			var issues []validate.Issue
			if layout.GDSII != nil {
				issues = validate.GDSII(layout.GDSII)
			} else {
				issues = validate.OASIS(layout.OASIS)
			}

			if len(issues) == 0 {
				color.Green("%s (%s) is valid: %d cells, %d elements",
					args[0], layout.Format, layout.CellCount(), layout.ElementCount())
				return
			}

			t := table.NewWriter()
			t.AppendHeader(table.Row{"Where", "Problem"})
			for _, issue := range issues {
				t.AppendRow(table.Row{issue.Where, issue.Message})
			}
			t.SetOutputMirror(os.Stdout)
			t.Render()
			cmdFailedf(cmd, "%d problem(s) found in %s", len(issues), args[0])
		},
	}
}
