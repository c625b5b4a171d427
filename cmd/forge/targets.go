package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/compiler/targets"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the registered targets and what each supports",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range targets.New() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", t.Name())
			for _, f := range t.SupportedFeatures() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", f.Name, f.Description)
			}
		}
	},
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "List the canonical feature registry",
	Run: func(cmd *cobra.Command, args []string) {
		for _, f := range gen.AllFeatures {
			mark := " "
			if f.Default {
				mark = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %s\n", mark, f.Name, f.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd, featuresCmd)
}
