package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conneroisu/nixast/pkg/diag"
	"github.com/conneroisu/nixast/pkg/parser"
	"github.com/conneroisu/nixast/pkg/printer"
)

func newParseCmd(getLogger func() *zap.Logger) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "parse (FILE | -e EXPR)",
		Short: "best-effort parse and print the resulting AST",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, name, err := readSource(expr, args)
			if err != nil {
				return err
			}
			logger := getLogger()

			result, errs := parser.ParseExpression(text)
			errCount := 0
			for _, d := range errs.Sorted() {
				if d.Severity == diag.Error {
					errCount++
				}
				logger.Debug("diagnostic", zap.String("message", d.Message), zap.String("span", d.Primary.Span.String()))
			}

			if result != nil {
				fmt.Fprintln(cmd.OutOrStdout(), printer.Print(result))
			}
			fmt.Fprintln(cmd.OutOrStdout(), summaryLine(name, errs.Len(), errCount))
			return nil
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "parse an expression given on the command line")
	return cmd
}
