package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
)

var _ IHistoryService = (*HistoryService)(nil)

type HistoryService struct {
	ledger secondary.ResultLedger
	logger primary.Logger
}

func NewHistoryService(ledger secondary.ResultLedger, logger primary.Logger) *HistoryService {
	return &HistoryService{
		ledger: ledger,
		logger: logger,
	}
}

func (s *HistoryService) History(ctx context.Context, query domain.HistoryQuery) (*domain.History, error) {
	query.Limit = query.EffectiveLimit()

	records, err := s.ledger.History(ctx, query)
	if err != nil {
		s.logger.Error("Failed to read validation history", "puzzleId", query.PuzzleID, "error", err)
		return nil, fmt.Errorf("failed to read validation history: %w", err)
	}
	if records == nil {
		records = []domain.LedgerRecord{}
	}

	return &domain.History{
		Outcomes: records,
		Summary:  summarize(records),
	}, nil
}

// summarize scores each outcome on its own; attempts are only counted, never re-aggregated
func summarize(records []domain.LedgerRecord) domain.HistorySummary {
	summary := domain.HistorySummary{TotalAttempts: len(records)}
	if len(records) == 0 {
		return summary
	}

	attempts := make(map[uuid.UUID]struct{}, len(records))
	submissions := make(map[string]struct{}, len(records))
	var total float64
	for i, rec := range records {
		attempts[rec.AttemptID] = struct{}{}
		submissions[rec.SubmissionHash] = struct{}{}
		total += rec.Score
		if i == 0 || rec.Score > summary.BestScore {
			summary.BestScore = rec.Score
		}
		if summary.LastAttemptAt == nil || rec.CreatedAt.After(*summary.LastAttemptAt) {
			createdAt := rec.CreatedAt
			summary.LastAttemptAt = &createdAt
		}
	}
	summary.DistinctAttempts = len(attempts)
	summary.DistinctSubmissions = len(submissions)
	summary.AverageScore = total / float64(len(records))
	return summary
}
