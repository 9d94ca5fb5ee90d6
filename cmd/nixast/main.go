// Command nixast is a small demonstrator for the nixast library: it
// parses Nix expressions from files or the command line, prints the
// resulting AST, and reports diagnostics. It does not evaluate anything.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
