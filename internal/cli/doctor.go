package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathfavour/statussage/pkg/config"
	"github.com/nathfavour/statussage/pkg/doctor"
)

var (
	doctorFormat string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration, LLM backend and catalog",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			fmt.Printf("Doctor failed: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), a.settings.GenerationTimeout)
		defer cancel()

		report, err := doctor.Run(ctx, doctor.Options{
			Settings:  a.settings,
			Catalog:   a.catalog,
			Connector: a.generator,
			DataDir:   config.DataDir(),
		})
		if err != nil {
			fmt.Printf("Doctor failed: %v\n", err)
			os.Exit(1)
		}

		if doctorFormat == "json" {
			data, _ := json.MarshalIndent(report, "", "  ")
			fmt.Println(string(data))
		} else {
			printReport(report)
		}

		if report.Worst() == doctor.SeverityCritical {
			os.Exit(2)
		}
	},
}

func printReport(report *doctor.Report) {
	fmt.Println("=== StatusSage Doctor ===")
	reach := "unreachable"
	if report.Backend {
		reach = "reachable"
	}
	fmt.Printf("Provider: %s (%s)\n\n", report.Provider, reach)

	if len(report.Findings) == 0 {
		fmt.Println("✅ No findings. Ready to serve.")
		return
	}

	for _, f := range report.Findings {
		severityChar := "ℹ️"
		if f.Severity == doctor.SeverityWarn {
			severityChar = "⚠️"
		} else if f.Severity == doctor.SeverityCritical {
			severityChar = "🚨"
		}
		fmt.Printf("%s [%s] %s\n", severityChar, f.Severity, f.Title)
		fmt.Printf("   Desc: %s\n", f.Description)
		if f.Remediation != "" {
			fmt.Printf("   Fix:  %s\n", f.Remediation)
		}
		fmt.Println()
	}
}

func init() {
	doctorCmd.Flags().StringVarP(&doctorFormat, "format", "f", "text", "Output format (text, json)")
	rootCmd.AddCommand(doctorCmd)
}
