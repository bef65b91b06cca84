package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gitlab.com/answer-validator.net/internal/adapter/crypto"
	"gitlab.com/answer-validator.net/internal/adapter/executor/httpexecutor"
	"gitlab.com/answer-validator.net/internal/adapter/memory"
	"gitlab.com/answer-validator.net/internal/adapter/yamlstore"
	"gitlab.com/answer-validator.net/internal/config"
	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/services/validation"
	"gitlab.com/answer-validator.net/internal/ledgerengine"
)

func newValidateCmd() *cobra.Command {
	var (
		puzzle      string
		answer      string
		sandboxURL  string
		token       string
		ids         []string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "validate <fixtures.yaml>",
		Short: "Grade an answer against fixture test cases using a sandbox",
		Long: `Runs the answer through the sandbox for every selected test case and prints the
full report as JSON. --puzzle may be omitted when the file holds a single puzzle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := yamlstore.Load(args[0])
			if err != nil {
				return err
			}

			puzzleID, err := pickPuzzle(fixtures, puzzle)
			if err != nil {
				return err
			}
			testCaseIDs := make([]uuid.UUID, 0, len(ids))
			for _, raw := range ids {
				id, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("invalid test case id %q: %w", raw, err)
				}
				testCaseIDs = append(testCaseIDs, id)
			}

			logger := newLogger(cmd)
			cfg := config.NewValidationSvcCfg()
			if concurrency > 0 {
				cfg.MaxConcurrency = concurrency
			}

			engine := ledgerengine.NewLedgerEngine(cfg, memory.NewLedger(), nil, logger)
			engine.Start(cmd.Context())
			defer engine.Stop(cmd.Context())

			executor := httpexecutor.NewExecutor(&config.ExecutorConfig{
				SandboxUrl:     sandboxURL,
				Token:          token,
				RequestTimeout: 60 * time.Second,
			}, logger)
			svc := validation.NewValidationService(cfg, yamlstore.NewStore(fixtures), executor, engine,
				crypto.Blake2bHasher{}, primary.NoopMetrics{}, logger)

			report, err := svc.ValidateAnswer(cmd.Context(), validation.ValidationRequest{
				PuzzleID:        puzzleID,
				SubmittedAnswer: parseValue(answer),
				TestCaseIDs:     testCaseIDs,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.Success {
				return errSilentFailure
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&puzzle, "puzzle", "", "puzzle id")
	cmd.Flags().StringVar(&answer, "answer", "", "submitted answer (JSON or plain text)")
	cmd.Flags().StringVar(&sandboxURL, "sandbox-url", config.NewExecutorConfig().SandboxUrl, "sandbox base url")
	cmd.Flags().StringVar(&token, "sandbox-token", "", "bearer token for the sandbox")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "only run these test case ids")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max sandbox calls in flight")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}

func pickPuzzle(f *yamlstore.Fixtures, raw string) (uuid.UUID, error) {
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid puzzle id %q: %w", raw, err)
		}
		return id, nil
	}
	if len(f.Puzzles) != 1 {
		return uuid.Nil, fmt.Errorf("fixture file holds %d puzzles, pass --puzzle", len(f.Puzzles))
	}
	return f.Puzzles[0].PuzzleID, nil
}
