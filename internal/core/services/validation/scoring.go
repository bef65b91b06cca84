package validation

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/domain"
)

// buildReport aggregates outcomes already placed in execution order
func buildReport(attemptID uuid.UUID, req ValidationRequest, results []domain.ValidationOutcome, validatedAt time.Time) *domain.ValidationReport {
	var (
		totalWeight   float64
		weightedScore float64
		totalTime     float64
		peakMemory    float64
		passed        int
	)
	for _, o := range results {
		totalWeight += o.Weight
		weightedScore += o.Score * o.Weight
		totalTime += o.ExecutionTimeMs
		if o.MemoryUsageMB > peakMemory {
			peakMemory = o.MemoryUsageMB
		}
		if o.Status == domain.StatusPassed {
			passed++
		}
	}

	summary := domain.ExecutionSummary{
		TotalTestCases:       len(results),
		PassedTestCases:      passed,
		TotalExecutionTimeMs: totalTime,
		PeakMemoryUsageMB:    peakMemory,
	}
	if len(results) > 0 {
		summary.AverageExecutionTimeMs = totalTime / float64(len(results))
	}

	return &domain.ValidationReport{
		AttemptID:        attemptID,
		PuzzleID:         req.PuzzleID,
		UserID:           req.UserID,
		OverallScore:     overallScore(weightedScore, totalWeight),
		Success:          len(results) > 0 && passed == len(results),
		Results:          results,
		ExecutionSummary: summary,
		ValidatedAt:      validatedAt,
	}
}

// overallScore is the weighted mean clamped to [0, 1]; zero total weight scores 0
func overallScore(weighted, totalWeight float64) float64 {
	if totalWeight <= 0 {
		return 0
	}
	score := weighted / totalWeight
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
