package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conneroisu/nixast/pkg/parser"
	"github.com/conneroisu/nixast/pkg/printer"
)

func newFmtCmd(getLogger func() *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "parse then pretty-print, for round-trip verification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, name, err := readSource("", args)
			if err != nil {
				return err
			}
			logger := getLogger()

			file, errs := parser.ParseSourceFile(text)
			for _, d := range errs.Sorted() {
				logger.Debug("diagnostic", zap.String("message", d.Message), zap.String("span", d.Primary.Span.String()))
			}
			if file == nil {
				return fmt.Errorf("%s: could not parse anything", name)
			}

			fmt.Fprintln(cmd.OutOrStdout(), printer.PrintSourceFile(file))
			return nil
		},
	}
	return cmd
}
