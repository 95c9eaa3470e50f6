package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the pricer CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pricer version %s\n", version)
		fmt.Fprintln(out, "Lattice pricing and bump-and-revalue risk for bonds, swaps and options")
		fmt.Fprintln(out, "https://github.com/rustyeddy/pricer")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
