package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsawler/laykit"
	"github.com/tsawler/laykit/convert"
	"github.com/tsawler/laykit/format"
)

var libraryName string

func newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "convert a layout file between GDSII and OASIS",
		Long: `Convert a layout file between GDSII and OASIS.

The input format is detected from the file's magic bytes; the output
format is chosen by the output file's extension. Conversion is lossy:
element kinds the target format cannot express are dropped.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			input, output := args[0], args[1]

			layout, err := laykit.Open(input)
			if err != nil {
				cmdFailedf(cmd, "reading %s failed: %s", input, err)
			}

			outFormat := format.ByExtension(output)
			if outFormat == format.Unknown {
				cmdFailedf(cmd, "cannot tell the output format from %q; use a .gds or .oas extension", output)
			}

			if outFormat == layout.Format {
				color.Yellow("input and output are both %s; copying without conversion", layout.Format)
			}

			switch outFormat {
			case format.GDSII:
				lib := layout.GDSII
				if lib == nil {
					lib = convert.OASISToGDSIIWithName(layout.OASIS, libraryName)
				}
				if err := lib.WriteFile(output); err != nil {
					cmdFailedf(cmd, "writing %s failed: %s", output, err)
				}
			case format.OASIS:
				f := layout.ToOASIS()
				if err := f.WriteFile(output); err != nil {
					cmdFailedf(cmd, "writing %s failed: %s", output, err)
				}
			}

			color.Green("converted %s (%s) to %s (%s)", input, layout.Format, output, outFormat)
		},
	}
	cmd.Flags().StringVar(&libraryName, "library-name", convert.DefaultLibraryName,
		"library name for GDSII output converted from OASIS")
	return cmd
}
