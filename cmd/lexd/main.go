// Command lexd compiles lexd grammars into finite-state transducers.
//
// Usage:
//
//	lexd compile grammar.lexd -o grammar.att.gz
//	lexd paths grammar.lexd
//	lexd stats --format json grammar.lexd
//	lexd serve --addr :8080
//
// Every flag can also be set through the environment (LEXD_TAGS_AS_FLAGS=1)
// or a config file given with --config.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lexd: %v\n", err)
		os.Exit(1)
	}
}
