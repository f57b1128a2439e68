package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/output"
)

var compileCmd = &cobra.Command{
	Use:   "compile [grammar.lexd]",
	Short: "Compile a grammar to an AT&T transducer",
	Long:  "Read a lexd grammar (stdin when no file is given) and write the compiled transducer in AT&T text format.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "-", "Output file (- for stdout)")
	compileCmd.Flags().String("codec", "", "Output compression: none, gzip or zstd (default: from the output extension)")
	compileCmd.Flags().String("hypermin-output", "", "Write the hypermin automaton to this file (requires --hypermin)")
	compileCmd.Flags().StringSlice("root", nil, "Compile these patterns instead of PATTERNS")

	_ = viper.BindPFlag("codec", compileCmd.Flags().Lookup("codec"))

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")
	hyperPath, _ := cmd.Flags().GetString("hypermin-output")
	roots, _ := cmd.Flags().GetStringSlice("root")
	log := newLogger(cmd.ErrOrStderr())

	if hyperPath != "" && !viper.GetBool("hypermin") {
		return fmt.Errorf("--hypermin-output needs --hypermin")
	}

	c, err := loadGrammar(cmd, args, log)
	if err != nil {
		return err
	}
	res, err := c.Build(roots...)
	if err != nil {
		return fmt.Errorf("compiling: %w", err)
	}

	if err := writeTransducer(cmd.OutOrStdout(), outPath, res.Transducer, res.Alphabet); err != nil {
		return err
	}
	if hyperPath != "" {
		if err := writeTransducer(cmd.OutOrStdout(), hyperPath, res.Hypermin, res.Alphabet); err != nil {
			return err
		}
	}
	log.Info("wrote transducer", "output", outPath, "states", res.Transducer.NumStates())
	return nil
}

// writeTransducer writes t to path ("-" is stdout). The codec comes from
// --codec, else from the extension of path.
func writeTransducer(stdout io.Writer, path string, t *fst.Transducer, a *fst.Alphabet) error {
	codec := output.CodecForPath(path)
	if name := viper.GetString("codec"); name != "" {
		var err error
		if codec, err = output.ParseCodec(name); err != nil {
			return err
		}
	}

	if path == "-" || path == "" {
		return output.WriteATT(stdout, codec, t, a)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := output.WriteATT(f, codec, t, a); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
