package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apiforge/forge/compiler/gen"
	"github.com/apiforge/forge/compiler/load"
	"github.com/apiforge/forge/compiler/targets"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the schema and config without generating anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := load.SchemaFile(schemaPath)
		if err != nil {
			return err
		}
		c, cfgTarget, err := load.ConfigFile(configPath())
		if err != nil {
			return err
		}
		name := cfgTarget
		if targetName != "" {
			name = targetName
		}
		target, err := targets.Lookup(name)
		if err != nil {
			return err
		}
		o, err := gen.NewOrchestrator(target)
		if err != nil {
			return err
		}
		if errs := o.Validate(c); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
			}
			return fmt.Errorf("%d validation error(s)", len(errs))
		}
		entities := len(s.EntityTables())
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d tables (%d entities), target %s\n",
			len(s.Tables), entities, name)
		for _, f := range o.IgnoredFeatures(c) {
			fmt.Fprintf(cmd.OutOrStdout(), "note: feature %q is not supported by %s and will be skipped\n", f, name)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&schemaPath, "schema", "s", "schema.yaml", "schema document")
	validateCmd.Flags().StringVarP(&targetName, "target", "t", "", "target backend (overrides the config)")
	rootCmd.AddCommand(validateCmd)
}
