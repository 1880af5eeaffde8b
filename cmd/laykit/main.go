// laykit is a command line tool for inspecting, validating and
// converting GDSII and OASIS layout files.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

const (
	cliName        = "laykit"
	cliDescription = "the command-line tool for GDSII and OASIS layout files"
)

var rootCmd = &cobra.Command{
	Use:   cliName,
	Short: cliDescription,
}

func init() {
	cobra.EnablePrefixMatching = true

	rootCmd.AddCommand(
		newConvertCommand(),
		newInfoCommand(),
		newValidateCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
