// package cli implements validatorctl, a command line companion of the validation service
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/answer-validator.net/internal/adapter/logging"
	"gitlab.com/answer-validator.net/internal/core/ports/primary"
)

// errSilentFailure signals a non-zero exit after the command already reported why
var errSilentFailure = errors.New("failed")

func newLogger(cmd *cobra.Command) primary.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return logging.NewNopLogger()
	}
	return logging.NewZapLoggerWithLevel(true)
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "validatorctl",
		Short: "Lint puzzle fixtures and grade answers locally",
		Long: `validatorctl works with YAML test case fixtures: it lints them, compares single
values with any validation mode, and grades an answer against a sandbox without a database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log to stderr")

	root.AddCommand(newLintCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newValidateCmd())
	return root
}

// Execute is the main entry point for the CLI application.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errSilentFailure) {
			root.PrintErrln("Error:", err)
		}
		os.Exit(1)
	}
}
