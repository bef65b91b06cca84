// package ledgerrepository persists validation outcomes in PostgreSQL
package ledgerrepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
	querybuilder "gitlab.com/answer-validator.net/internal/utils"
)

var _ secondary.ResultLedger = (*LedgerRepository)(nil)

// LedgerRepository is an append-only ledger. It never updates or deletes rows.
type LedgerRepository struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
}

func NewLedgerRepository(db *sqlx.DB, schema string, logger primary.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

// Append writes all records in one statement. Rows already present are left untouched.
func (r *LedgerRepository) Append(ctx context.Context, records []domain.LedgerRecord) error {
	if len(records) == 0 {
		return nil
	}

	tbl := domain.GetLedgerTable()
	qb := querybuilder.NewQueryBuilder(r.schema).
		Insert(tbl.Columns()...).
		Into(tbl.TableName())
	for _, rec := range records {
		qb.Values(
			rec.ID, rec.AttemptID, rec.PuzzleID, rec.UserID, rec.TestCaseID, rec.Status,
			rec.SubmittedAnswer, rec.SubmissionHash, rec.ActualOutput, rec.ExpectedOutput,
			rec.ExecutionTimeMs, rec.MemoryUsageMB, rec.Score, rec.ErrorMessage, rec.IsHidden, rec.CreatedAt,
		)
	}
	query, args := qb.OnConflict(tbl.ID).DoNothing().Build()

	if _, err := r.db.ExecContext(ctx, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to append validation results", "attemptId", records[0].AttemptID, "error", err)
		return fmt.Errorf("failed to append validation results: %w", err)
	}
	return nil
}

// History returns the most recent records of a puzzle, newest first
func (r *LedgerRepository) History(ctx context.Context, q domain.HistoryQuery) ([]domain.LedgerRecord, error) {
	tbl := domain.GetLedgerTable()
	qb := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.Columns()...).
		From(tbl.TableName()).
		Where(tbl.PuzzleID+" = ?", q.PuzzleID)
	if q.UserID != nil {
		qb.And(tbl.UserID+" = ?", *q.UserID)
	}
	qb.AndGroup(func(sub querybuilder.QueryBuilder) {
		for _, status := range q.Statuses {
			sub.Or(tbl.Status+" = ?", status)
		}
	})
	query, args := qb.
		OrderBy(tbl.CreatedAt, false).
		OrderBy(tbl.ID, false).
		Limit(q.EffectiveLimit()).
		Build()

	records := make([]domain.LedgerRecord, 0)
	if err := r.db.SelectContext(ctx, &records, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to get validation history", "puzzleId", q.PuzzleID, "error", err)
		return nil, fmt.Errorf("failed to get validation history: %w", err)
	}
	return records, nil
}
