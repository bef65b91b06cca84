package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/answer-validator.net/internal/core/services/comparator"
	"gitlab.com/answer-validator.net/internal/domain"
)

// parseValue reads JSON, falling back to the raw text as a string
func parseValue(raw string) domain.Value {
	v, err := domain.ParseJSON([]byte(raw))
	if err != nil {
		return domain.String(raw)
	}
	return v
}

func newCompareCmd() *cobra.Command {
	var (
		mode             string
		actual           string
		expected         string
		tolerance        float64
		ignoreCase       bool
		ignoreWhitespace bool
		pattern          string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare an actual value with an expected value",
		Long: `Values are parsed as JSON when possible and used as plain strings otherwise.
Prints PASS or FAIL; FAIL exits with status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := domain.ValidationMode(mode)
			if !m.IsValid() {
				return fmt.Errorf("unknown validation mode %q", mode)
			}

			cfg := domain.ValidationConfig{
				IgnoreCase:       ignoreCase,
				IgnoreWhitespace: ignoreWhitespace,
				RegexPattern:     pattern,
			}
			if cmd.Flags().Changed("tolerance") {
				cfg.Tolerance = &tolerance
			}

			if comparator.Compare(m, parseValue(actual), parseValue(expected), cfg) {
				fmt.Fprintln(cmd.OutOrStdout(), "PASS")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "FAIL")
			return errSilentFailure
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeExactMatch), "validation mode")
	cmd.Flags().StringVar(&actual, "actual", "", "actual value")
	cmd.Flags().StringVar(&expected, "expected", "", "expected value")
	cmd.Flags().Float64Var(&tolerance, "tolerance", domain.DefaultTolerance, "numeric tolerance")
	cmd.Flags().BoolVar(&ignoreCase, "ignore-case", false, "compare case-insensitively")
	cmd.Flags().BoolVar(&ignoreWhitespace, "ignore-whitespace", false, "drop whitespace before comparing")
	cmd.Flags().StringVar(&pattern, "pattern", "", "regex pattern for regex_match")
	return cmd
}
