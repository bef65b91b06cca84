package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/domain"
)

type Visibility string

const (
	VisibilityAll    Visibility = "all"
	VisibilityActive Visibility = "active"
	VisibilityHidden Visibility = "hidden"
	VisibilitySample Visibility = "sample"
)

type TestCaseFilter struct {
	Visibility Visibility
}

// Matches reports whether tc passes the filter. Hidden and sample filters only see active test cases,
// and a hidden test case is never a sample.
func (f TestCaseFilter) Matches(tc *domain.TestCase) bool {
	switch f.Visibility {
	case VisibilityActive:
		return tc.IsActive
	case VisibilityHidden:
		return tc.IsActive && tc.IsHidden
	case VisibilitySample:
		return tc.IsActive && tc.IsSample && !tc.IsHidden
	default:
		return true
	}
}

// TestCaseStore defines read access to puzzle test cases
type TestCaseStore interface {
	// ActiveTestCases returns the active test cases of a puzzle in execution order
	ActiveTestCases(ctx context.Context, puzzleID uuid.UUID) ([]*domain.TestCase, error)

	// ByIDs returns the test cases that exist; unknown ids are skipped
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.TestCase, error)

	ListTestCases(ctx context.Context, puzzleID uuid.UUID, filter TestCaseFilter) ([]*domain.TestCase, error)
}

// TestCaseWriter is implemented by stores that can be seeded
type TestCaseWriter interface {
	Save(ctx context.Context, tc *domain.TestCase) error
}
