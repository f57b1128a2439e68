package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statsCmd = &cobra.Command{
	Use:   "stats [grammar.lexd]",
	Short: "Compile a grammar and report its statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().String("format", "yaml", "Report format: yaml or json")
	statsCmd.Flags().StringSlice("root", nil, "Compile these patterns instead of PATTERNS")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	roots, _ := cmd.Flags().GetStringSlice("root")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}
	log := newLogger(cmd.ErrOrStderr())

	c, err := loadGrammar(cmd, args, log)
	if err != nil {
		return err
	}
	if _, err := c.Build(roots...); err != nil {
		return fmt.Errorf("compiling: %w", err)
	}
	st := c.Statistics()

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("encoding statistics: %w", err)
	}
	return enc.Close()
}
