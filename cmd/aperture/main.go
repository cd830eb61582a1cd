// Command aperture scans a federated building model for run-vs-host
// penetrations and places sized, oriented opening markers at each clash.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "aperture",
		Short:         "Opening marker placement for MEP penetrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScanCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the aperture version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("aperture", version)
		},
	}
}
