package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/answer-validator.net/internal/adapter/logging"
	"gitlab.com/answer-validator.net/internal/adapter/memory"
	"gitlab.com/answer-validator.net/internal/domain"
)

func record(puzzle, attempt uuid.UUID, score float64, at time.Time) domain.LedgerRecord {
	status := domain.StatusFailed
	if score == 1 {
		status = domain.StatusPassed
	}
	return domain.LedgerRecord{
		ID:             uuid.New(),
		AttemptID:      attempt,
		PuzzleID:       puzzle,
		Status:         status,
		SubmissionHash: "sha-" + attempt.String(),
		Score:          score,
		CreatedAt:      at,
	}
}

func TestHistoryService_Summary(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	puzzle := uuid.New()
	first, second := uuid.New(), uuid.New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	resubmitted := record(puzzle, uuid.New(), 0, base.Add(time.Minute))
	resubmitted.SubmissionHash = "sha-" + first.String()

	require.NoError(t, ledger.Append(ctx, []domain.LedgerRecord{
		record(puzzle, first, 0, base),
		record(puzzle, first, 1, base),
		resubmitted,
		record(puzzle, second, 1, base.Add(time.Hour)),
		record(puzzle, second, 1, base.Add(time.Hour)),
	}))

	svc := NewHistoryService(ledger, logging.NewNopLogger())
	got, err := svc.History(ctx, domain.HistoryQuery{PuzzleID: puzzle})
	require.NoError(t, err)

	require.Len(t, got.Outcomes, 5)
	assert.Equal(t, second, got.Outcomes[0].AttemptID)
	assert.Equal(t, 5, got.Summary.TotalAttempts)
	assert.Equal(t, 3, got.Summary.DistinctAttempts)
	assert.Equal(t, 2, got.Summary.DistinctSubmissions)
	assert.Equal(t, 1.0, got.Summary.BestScore)
	assert.InDelta(t, 0.6, got.Summary.AverageScore, 1e-12)
	require.NotNil(t, got.Summary.LastAttemptAt)
	assert.True(t, base.Add(time.Hour).Equal(*got.Summary.LastAttemptAt))
}

func TestHistoryService_WindowAndEmpty(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	puzzle := uuid.New()
	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, ledger.Append(ctx, []domain.LedgerRecord{record(puzzle, uuid.New(), 0, base.Add(time.Duration(i)*time.Minute))}))
	}
	require.NoError(t, ledger.Append(ctx, []domain.LedgerRecord{record(puzzle, uuid.New(), 1, base.Add(-time.Hour))}))

	svc := NewHistoryService(ledger, logging.NewNopLogger())
	got, err := svc.History(ctx, domain.HistoryQuery{PuzzleID: puzzle, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, got.Outcomes, 3)
	assert.Equal(t, 0.0, got.Summary.BestScore)
	assert.Equal(t, 3, got.Summary.DistinctSubmissions)
	assert.Equal(t, 3, got.Summary.DistinctAttempts)

	none, err := svc.History(ctx, domain.HistoryQuery{PuzzleID: uuid.New()})
	require.NoError(t, err)
	assert.NotNil(t, none.Outcomes)
	assert.Empty(t, none.Outcomes)
	assert.Equal(t, domain.HistorySummary{}, none.Summary)
}

type brokenLedger struct{}

func (brokenLedger) Append(context.Context, []domain.LedgerRecord) error { return nil }
func (brokenLedger) History(context.Context, domain.HistoryQuery) ([]domain.LedgerRecord, error) {
	return nil, errors.New("timeout")
}

type limitSpy struct {
	brokenLedger
	limit int
}

func (l *limitSpy) History(_ context.Context, q domain.HistoryQuery) ([]domain.LedgerRecord, error) {
	l.limit = q.Limit
	return nil, nil
}

func TestHistoryService_Errors(t *testing.T) {
	svc := NewHistoryService(brokenLedger{}, logging.NewNopLogger())
	_, err := svc.History(context.Background(), domain.HistoryQuery{PuzzleID: uuid.New()})
	assert.ErrorContains(t, err, "timeout")
}

func TestHistoryService_AppliesLimitBounds(t *testing.T) {
	spy := &limitSpy{}
	svc := NewHistoryService(spy, logging.NewNopLogger())

	_, err := svc.History(context.Background(), domain.HistoryQuery{Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHistoryLimit, spy.limit)

	_, err = svc.History(context.Background(), domain.HistoryQuery{Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxHistoryLimit, spy.limit)
}
