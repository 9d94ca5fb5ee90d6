package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conneroisu/nixast/pkg/diag"
	"github.com/conneroisu/nixast/pkg/parser"
)

func newCheckCmd(getLogger func() *zap.Logger) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "check (FILE | -e EXPR)",
		Short: "strict parse; nonzero exit if any diagnostic was produced",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, name, err := readSource(expr, args)
			if err != nil {
				return err
			}
			logger := getLogger()

			_, errs := parser.ParseExpression(text)
			errCount := 0
			for _, d := range errs.Sorted() {
				if d.Severity == diag.Error {
					errCount++
				}
				logger.Info("diagnostic", zap.String("message", d.Message), zap.String("span", d.Primary.Span.String()))
			}

			fmt.Fprintln(cmd.OutOrStdout(), summaryLine(name, errs.Len(), errCount))
			if errs.Len() > 0 {
				return fmt.Errorf("%s: %d diagnostic(s)", name, errs.Len())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "check an expression given on the command line")
	return cmd
}
