package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fwojciec/diffmage"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported Gemini models",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		defaultName := diffmage.DefaultModel().Name
		for _, m := range diffmage.SupportedModels() {
			marker := " "
			if m.Name == defaultName {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-24s %-20s %s\n", marker, m.Name, m.DisplayName, m.Description)
		}
		fmt.Fprintln(out, "\n* default")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
