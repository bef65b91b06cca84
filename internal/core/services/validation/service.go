package validation

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/domain"
)

// ValidationRequest is one submitted answer for a puzzle
type ValidationRequest struct {
	PuzzleID        uuid.UUID
	SubmittedAnswer domain.Value
	// TestCaseIDs restricts grading to these test cases when not empty
	TestCaseIDs []uuid.UUID
	UserID      *uuid.UUID
}

// IValidationService grades submissions against puzzle test cases
type IValidationService interface {
	// ValidateAnswer runs the submission against every selected test case and returns the report.
	// Outcomes are persisted asynchronously.
	ValidateAnswer(ctx context.Context, req ValidationRequest) (*domain.ValidationReport, error)

	// SampleTestCases returns the active sample test cases of a puzzle for display
	SampleTestCases(ctx context.Context, puzzleID uuid.UUID) ([]*domain.TestCase, error)

	// Drain waits for pending ledger writes
	Drain(ctx context.Context) error
}

// OutcomeSink receives ledger records to persist in the background
type OutcomeSink interface {
	Submit(records []domain.LedgerRecord)
	Drain(ctx context.Context) error
}
