package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/lexd/lexd"
	"github.com/katalvlaran/lexd/output"
	"github.com/katalvlaran/lexd/reader"
)

var rootCmd = &cobra.Command{
	Use:           "lexd",
	Short:         "Lexicon and pattern to transducer compiler",
	Long:          "lexd compiles lexicons and the patterns that combine them into a finite-state transducer in AT&T format.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (yaml, toml or json)")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.Bool("debug", false, "Debug output")
	pf.BoolP("align", "a", false, "Align the two sides of every segment")
	pf.BoolP("compress", "c", false, "Align with cheap substitutions (implies --align)")
	pf.BoolP("tags-as-flags", "t", false, "Enforce tag filters with flag diacritics")
	pf.BoolP("hypermin", "H", false, "Also build the call/return companion automaton")
	pf.BoolP("min-flags", "m", false, "Use short generated flag names")

	_ = viper.BindPFlag("config", pf.Lookup("config"))
	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("debug", pf.Lookup("debug"))
	_ = viper.BindPFlag("align", pf.Lookup("align"))
	_ = viper.BindPFlag("compress", pf.Lookup("compress"))
	_ = viper.BindPFlag("tags_as_flags", pf.Lookup("tags-as-flags"))
	_ = viper.BindPFlag("hypermin", pf.Lookup("hypermin"))
	_ = viper.BindPFlag("min_flags", pf.Lookup("min-flags"))
}

func initConfig() {
	viper.SetEnvPrefix("LEXD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "lexd: config %s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

// newLogger writes text records to w at the level chosen by --verbose and
// --debug.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case viper.GetBool("debug"):
		level = slog.LevelDebug
	case viper.GetBool("verbose"):
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// compilerOptions maps configuration keys to lexd options.
func compilerOptions(log *slog.Logger) []lexd.Option {
	opts := []lexd.Option{lexd.WithLogger(log)}
	if viper.GetBool("align") {
		opts = append(opts, lexd.WithAlign())
	}
	if viper.GetBool("compress") {
		opts = append(opts, lexd.WithCompress())
	}
	if viper.GetBool("tags_as_flags") {
		opts = append(opts, lexd.WithTagsAsFlags())
	}
	if viper.GetBool("hypermin") {
		opts = append(opts, lexd.WithHypermin())
	}
	if viper.GetBool("min_flags") {
		opts = append(opts, lexd.WithMinFlags())
	}
	return opts
}

// loadGrammar reads the source named by args (stdin when absent or "-")
// into a fresh compiler. Compressed sources are recognised by extension.
func loadGrammar(cmd *cobra.Command, args []string, log *slog.Logger) (*lexd.Compiler, error) {
	c := lexd.New(compilerOptions(log)...)

	if len(args) == 0 || args[0] == "-" {
		if err := reader.Read(cmd.InOrStdin(), c); err != nil {
			return nil, fmt.Errorf("<stdin>: %w", err)
		}
		return c, nil
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading grammar: %w", err)
	}
	defer f.Close()

	r, err := output.NewReader(f, output.CodecForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer r.Close()

	if err := reader.Read(r, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("grammar loaded", "path", path, "lexicons", c.Statistics().Lexicons)
	return c, nil
}
