package main

import (
	"fmt"
	"os"
)

// readSource resolves a subcommand's input: either the -e expression flag
// or a single file argument, never both.
func readSource(expr string, args []string) (text string, name string, err error) {
	if expr != "" {
		if len(args) > 0 {
			return "", "", fmt.Errorf("cannot combine -e with a file argument")
		}
		return expr, "<expression>", nil
	}
	if len(args) != 1 {
		return "", "", fmt.Errorf("expected exactly one file argument, or -e EXPR")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}
