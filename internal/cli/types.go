package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the available status types",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, t := range a.catalog.Types() {
			fmt.Fprintf(out, "%-12s %s\n", t, a.catalog.Describe(t))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
