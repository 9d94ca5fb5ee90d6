package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRootCmd() *cobra.Command {
	var debug, quiet bool
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:           "nixast",
		Short:         "parse and pretty-print Nix expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug && quiet {
				return fmt.Errorf("--debug and --quiet are mutually exclusive")
			}
			config := zap.NewDevelopmentConfig()
			config.OutputPaths = []string{"stderr"}
			switch {
			case debug:
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			case quiet:
				config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
			default:
				config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
			}
			built, err := config.Build()
			if err != nil {
				return err
			}
			logger = built
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "only log errors")

	getLogger := func() *zap.Logger { return logger }

	cmd.AddCommand(newParseCmd(getLogger))
	cmd.AddCommand(newCheckCmd(getLogger))
	cmd.AddCommand(newFmtCmd(getLogger))

	return cmd
}
