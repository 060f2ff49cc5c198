package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathfavour/statussage/pkg/catalog"
)

var (
	generateCount int
	generateJSON  bool
)

type generateOutput struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Source   string `json:"source"`
	Provider string `json:"provider"`
	Error    string `json:"error,omitempty"`
}

var generateCmd = &cobra.Command{
	Use:   "generate <type>",
	Short: "Generate status messages without a chat platform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		statusType := catalog.StatusType(strings.ToLower(strings.TrimSpace(args[0])))
		if !a.catalog.IsValidType(string(statusType)) {
			return fmt.Errorf("unknown status type %q, run `statussage types` for the list", args[0])
		}

		out := cmd.OutOrStdout()
		for i := 0; i < generateCount; i++ {
			res := a.generator.GenerateContext(cmd.Context(), statusType)
			if generateJSON {
				row := generateOutput{
					Type:     string(statusType),
					Text:     res.Text,
					Source:   res.Source,
					Provider: res.Provider,
				}
				if res.Err != nil {
					row.Error = res.Err.Error()
				}
				data, _ := json.Marshal(row)
				fmt.Fprintln(out, string(data))
				continue
			}
			fmt.Fprintf(out, "%s  (%s via %s)\n", res.Text, res.Source, res.Provider)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "Number of messages to generate")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print one JSON object per message")
	rootCmd.AddCommand(generateCmd)
}
