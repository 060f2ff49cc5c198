package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathfavour/statussage/pkg/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of statussage",
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short-commit")
		if short {
			fmt.Print(config.Commit)
			return
		}
		fmt.Println(rootCmd.Version)
	},
}

func init() {
	versionCmd.Flags().Bool("short-commit", false, "Print only the short commit SHA")
	rootCmd.AddCommand(versionCmd)
}
