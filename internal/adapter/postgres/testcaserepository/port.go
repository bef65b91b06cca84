// package testcaserepository stores puzzle test cases in PostgreSQL
package testcaserepository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
	"gitlab.com/answer-validator.net/internal/static/errs"
	querybuilder "gitlab.com/answer-validator.net/internal/utils"
)

var (
	_ secondary.TestCaseStore  = (*TestCaseRepository)(nil)
	_ secondary.TestCaseWriter = (*TestCaseRepository)(nil)
)

// TestCaseRepository implements the TestCaseStore interface with PostgreSQL
type TestCaseRepository struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
	now    func() time.Time
}

// NewTestCaseRepository creates a new PostgreSQL test case repository
func NewTestCaseRepository(db *sqlx.DB, schema string, logger primary.Logger) *TestCaseRepository {
	return &TestCaseRepository{
		db:     db,
		schema: schema,
		logger: logger,
		now:    time.Now,
	}
}

func (r *TestCaseRepository) selectTestCases() querybuilder.QueryBuilder {
	tbl := domain.GetTestCaseTable()
	return querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.Columns()...).
		From(tbl.TableName())
}

func (r *TestCaseRepository) query(ctx context.Context, qb querybuilder.QueryBuilder) ([]*domain.TestCase, error) {
	tbl := domain.GetTestCaseTable()
	query, args := qb.
		OrderBy(tbl.ExecutionOrder, true).
		OrderBy(tbl.CreatedAt, true).
		OrderBy(tbl.ID, true).
		Build()

	testCases := make([]*domain.TestCase, 0)
	if err := r.db.SelectContext(ctx, &testCases, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, err
	}
	return testCases, nil
}

// ActiveTestCases returns the active test cases of a puzzle in execution order
func (r *TestCaseRepository) ActiveTestCases(ctx context.Context, puzzleID uuid.UUID) ([]*domain.TestCase, error) {
	tbl := domain.GetTestCaseTable()
	testCases, err := r.query(ctx, r.selectTestCases().
		Where(tbl.PuzzleID+" = ?", puzzleID).
		And(tbl.IsActive+" = ?", true))
	if err != nil {
		r.logger.Error("Failed to get active test cases", "puzzleId", puzzleID, "error", err)
		return nil, fmt.Errorf("failed to get active test cases: %w", err)
	}
	return testCases, nil
}

// ByIDs returns the stored test cases among ids. Unknown ids are skipped.
func (r *TestCaseRepository) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.TestCase, error) {
	if len(ids) == 0 {
		return []*domain.TestCase{}, nil
	}

	tbl := domain.GetTestCaseTable()
	strIDs := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}

	testCases, err := r.query(ctx, r.selectTestCases().
		Where(tbl.ID+" = ANY(?::uuid[])", strIDs))
	if err != nil {
		r.logger.Error("Failed to get test cases by ids", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get test cases by ids: %w", err)
	}
	return testCases, nil
}

func (r *TestCaseRepository) ListTestCases(ctx context.Context, puzzleID uuid.UUID, filter secondary.TestCaseFilter) ([]*domain.TestCase, error) {
	tbl := domain.GetTestCaseTable()
	qb := r.selectTestCases().Where(tbl.PuzzleID+" = ?", puzzleID)

	switch filter.Visibility {
	case secondary.VisibilityActive:
		qb.And(tbl.IsActive+" = ?", true)
	case secondary.VisibilityHidden:
		qb.And(tbl.IsActive+" = ?", true).And(tbl.IsHidden+" = ?", true)
	case secondary.VisibilitySample:
		qb.And(tbl.IsActive+" = ?", true).And(tbl.IsSample+" = ?", true).And(tbl.IsHidden+" = ?", false)
	}

	testCases, err := r.query(ctx, qb)
	if err != nil {
		r.logger.Error("Failed to list test cases", "puzzleId", puzzleID, "visibility", filter.Visibility, "error", err)
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	return testCases, nil
}

// Save inserts or updates a test case. A zero ID is replaced by a new one.
func (r *TestCaseRepository) Save(ctx context.Context, tc *domain.TestCase) error {
	if err := tc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidTestCase, err)
	}

	now := r.now().UTC()
	if tc.ID == uuid.Nil {
		tc.ID = uuid.New()
	}
	if tc.CreatedAt.IsZero() {
		tc.CreatedAt = now
	}
	tc.UpdatedAt = now

	tbl := domain.GetTestCaseTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Insert(tbl.Columns()...).
		Into(tbl.TableName()).
		Values(
			tc.ID, tc.PuzzleID, tc.Name, tc.Description, tc.Kind, tc.Mode, tc.Input,
			tc.ExpectedOutput, tc.Config, tc.Weight, tc.IsActive, tc.IsHidden, tc.IsSample,
			tc.ExecutionOrder, tc.CreatedAt, tc.UpdatedAt,
		).
		OnConflict(tbl.ID).
		SetExclude(
			tbl.Name, tbl.Description, tbl.Kind, tbl.ValidationMode, tbl.Input, tbl.ExpectedOutput,
			tbl.ValidationConfig, tbl.Weight, tbl.IsActive, tbl.IsHidden, tbl.IsSample,
			tbl.ExecutionOrder, tbl.UpdatedAt,
		).
		Build()

	if _, err := r.db.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to save test case", "testCaseId", tc.ID, "error", err)
		return fmt.Errorf("failed to save test case: %w", err)
	}
	return nil
}
