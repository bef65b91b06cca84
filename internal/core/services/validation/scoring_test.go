package validation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"gitlab.com/answer-validator.net/internal/domain"
)

func outcome(status domain.Status, weight, timeMs, memMB float64) domain.ValidationOutcome {
	o := domain.ValidationOutcome{Status: status, Weight: weight, ExecutionTimeMs: timeMs, MemoryUsageMB: memMB}
	if status == domain.StatusPassed {
		o.Score = 1
	}
	return o
}

func TestBuildReport(t *testing.T) {
	now := time.Now()
	user := uuid.New()
	req := ValidationRequest{PuzzleID: uuid.New(), UserID: &user}

	report := buildReport(uuid.New(), req, []domain.ValidationOutcome{
		outcome(domain.StatusPassed, 2, 10, 5),
		outcome(domain.StatusFailed, 1, 20, 9),
		outcome(domain.StatusPassed, 1, 30, 1),
	}, now)

	assert.InDelta(t, 0.75, report.OverallScore, 1e-12)
	assert.False(t, report.Success)
	assert.Equal(t, &user, report.UserID)
	assert.Equal(t, now, report.ValidatedAt)
	assert.Equal(t, domain.ExecutionSummary{
		TotalTestCases:         3,
		PassedTestCases:        2,
		TotalExecutionTimeMs:   60,
		AverageExecutionTimeMs: 20,
		PeakMemoryUsageMB:      9,
	}, report.ExecutionSummary)
}

func TestBuildReport_Edges(t *testing.T) {
	empty := buildReport(uuid.New(), ValidationRequest{}, nil, time.Now())
	assert.False(t, empty.Success)
	assert.Equal(t, 0.0, empty.OverallScore)
	assert.Equal(t, 0.0, empty.ExecutionSummary.AverageExecutionTimeMs)

	allPassed := buildReport(uuid.New(), ValidationRequest{}, []domain.ValidationOutcome{
		outcome(domain.StatusPassed, 1, 0, 0),
		outcome(domain.StatusPassed, 4, 0, 0),
	}, time.Now())
	assert.True(t, allPassed.Success)
	assert.Equal(t, 1.0, allPassed.OverallScore)

	hiddenFailure := buildReport(uuid.New(), ValidationRequest{}, []domain.ValidationOutcome{
		outcome(domain.StatusPassed, 1, 0, 0),
		{Status: domain.StatusTimeout, Weight: 1, IsHidden: true},
	}, time.Now())
	assert.False(t, hiddenFailure.Success)
	assert.Equal(t, 0.5, hiddenFailure.OverallScore)
}

func TestOverallScore(t *testing.T) {
	assert.Equal(t, 0.0, overallScore(3, 0))
	assert.Equal(t, 0.0, overallScore(-1, 2))
	assert.Equal(t, 1.0, overallScore(5, 2))
	assert.Equal(t, 0.5, overallScore(1, 2))
}
