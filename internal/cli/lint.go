package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/answer-validator.net/internal/adapter/yamlstore"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <fixtures.yaml>",
		Short: "Check every test case of a fixture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := yamlstore.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := fixtures.Lint()
			for _, p := range problems {
				fmt.Fprintln(out, p.String())
			}
			if len(problems) > 0 {
				fmt.Fprintf(out, "%d problem(s) found\n", len(problems))
				return errSilentFailure
			}
			fmt.Fprintf(out, "%d test case(s) ok\n", len(fixtures.TestCases()))
			return nil
		},
	}
}
