package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/lexd/fst"
)

var pathsCmd = &cobra.Command{
	Use:   "paths [grammar.lexd]",
	Short: "List the input:output pairs a grammar accepts",
	Long:  "Compile a grammar and print every accepted pair within the symbol budget, one per line, sorted.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPaths,
}

func init() {
	pathsCmd.Flags().Int("max-symbols", fst.DefaultMaxSymbols, "Maximum symbols on each side of a path")
	pathsCmd.Flags().Int("max-paths", fst.DefaultMaxPaths, "Fail when more pairs than this exist")
	pathsCmd.Flags().Bool("raw-flags", false, "Treat flag diacritics as epsilon")
	pathsCmd.Flags().StringSlice("root", nil, "Compile these patterns instead of PATTERNS")

	_ = viper.BindPFlag("max_symbols", pathsCmd.Flags().Lookup("max-symbols"))
	_ = viper.BindPFlag("max_paths", pathsCmd.Flags().Lookup("max-paths"))

	rootCmd.AddCommand(pathsCmd)
}

func runPaths(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw-flags")
	roots, _ := cmd.Flags().GetStringSlice("root")
	log := newLogger(cmd.ErrOrStderr())

	c, err := loadGrammar(cmd, args, log)
	if err != nil {
		return err
	}
	res, err := c.Build(roots...)
	if err != nil {
		return fmt.Errorf("compiling: %w", err)
	}
	// With --hypermin the companion automaton is listed; its language is
	// the same.
	t := res.Transducer
	if res.Hypermin != nil {
		t = res.Hypermin
	}

	opts := []fst.PathOption{
		fst.WithMaxSymbols(viper.GetInt("max_symbols")),
		fst.WithMaxPaths(viper.GetInt("max_paths")),
	}
	if raw {
		opts = append(opts, fst.WithoutFlagSemantics())
	}
	pairs, err := fst.Paths(t, res.Alphabet, opts...)
	if err != nil {
		return fmt.Errorf("listing paths: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, p := range pairs {
		fmt.Fprintln(out, p)
	}
	return nil
}
