package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathfavour/statussage/pkg/vault"
)

var vaultReveal bool

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage bot tokens and API keys in the OS keychain",
}

var vaultSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a secret, e.g. SLACK_BOT_TOKEN",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		v := openVault()
		if err := v.Set(args[0], args[1]); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Secret '%s' stored (%s).\n", args[0], v.Backend())
	},
}

var vaultGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a stored secret, masked unless --reveal is set",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		val, err := openVault().Get(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if !vaultReveal {
			val = vault.Mask(val)
		}
		fmt.Printf("%s: %s\n", args[0], val)
	},
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored secret names",
	Run: func(cmd *cobra.Command, args []string) {
		keys, err := openVault().List()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(keys) == 0 {
			fmt.Println("No secrets stored.")
			return
		}
		for _, k := range keys {
			fmt.Printf("- %s\n", k)
		}
	},
}

var vaultDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a stored secret",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := openVault().Delete(args[0]); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("Secret '%s' removed.\n", args[0])
	},
}

func init() {
	vaultGetCmd.Flags().BoolVar(&vaultReveal, "reveal", false, "Print the full secret")

	vaultCmd.AddCommand(vaultSetCmd)
	vaultCmd.AddCommand(vaultGetCmd)
	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultDeleteCmd)
	rootCmd.AddCommand(vaultCmd)
}
