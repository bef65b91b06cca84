package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the result of running one test case
type Status string

const (
	StatusPassed         Status = "PASSED"
	StatusFailed         Status = "FAILED"
	StatusError          Status = "ERROR"
	StatusTimeout        Status = "TIMEOUT"
	StatusMemoryExceeded Status = "MEMORY_EXCEEDED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusError, StatusTimeout, StatusMemoryExceeded:
		return true
	}
	return false
}

// ValidationOutcome is the immutable result of one test case for one attempt
type ValidationOutcome struct {
	TestCaseID      uuid.UUID      `json:"testCaseId"`
	Status          Status         `json:"status"`
	Score           float64        `json:"score"`
	Weight          float64        `json:"weight"`
	ExecutionOrder  int            `json:"executionOrder"`
	Mode            ValidationMode `json:"validationMode"`
	Kind            TestCaseKind   `json:"kind,omitempty"`
	IsHidden        bool           `json:"isHidden"`
	ActualOutput    Value          `json:"actualOutput"`
	ExpectedOutput  Value          `json:"expectedOutput"`
	ExecutionTimeMs float64        `json:"executionTimeMs"`
	MemoryUsageMB   float64        `json:"memoryUsageMB"`
	ErrorMessage    string         `json:"errorMessage,omitempty"`
}

// NewOutcome snapshots the test case fields into a fresh outcome with the given status.
// Score is 1 only for PASSED.
func NewOutcome(tc *TestCase, status Status) ValidationOutcome {
	o := ValidationOutcome{
		TestCaseID:     tc.ID,
		Status:         status,
		Weight:         tc.Weight,
		ExecutionOrder: tc.ExecutionOrder,
		Mode:           tc.Mode,
		Kind:           tc.Kind,
		IsHidden:       tc.IsHidden,
		ExpectedOutput: tc.ExpectedOutput,
	}
	if status == StatusPassed {
		o.Score = 1
	}
	return o
}

// Redacted hides the expected and actual output of hidden test cases
func (o ValidationOutcome) Redacted() ValidationOutcome {
	if !o.IsHidden {
		return o
	}
	o.ActualOutput = Null()
	o.ExpectedOutput = Null()
	return o
}

// ExecutionSummary aggregates timings over a report
type ExecutionSummary struct {
	TotalTestCases         int     `json:"totalTestCases"`
	PassedTestCases        int     `json:"passedTestCases"`
	TotalExecutionTimeMs   float64 `json:"totalExecutionTimeMs"`
	AverageExecutionTimeMs float64 `json:"averageExecutionTimeMs"`
	PeakMemoryUsageMB      float64 `json:"peakMemoryUsageMB"`
}

// ValidationReport is returned to the caller and never stored as a whole
type ValidationReport struct {
	AttemptID        uuid.UUID           `json:"attemptId"`
	PuzzleID         uuid.UUID           `json:"puzzleId"`
	UserID           *uuid.UUID          `json:"userId,omitempty"`
	OverallScore     float64             `json:"overallScore"`
	Success          bool                `json:"success"`
	Results          []ValidationOutcome `json:"results"`
	ExecutionSummary ExecutionSummary    `json:"executionSummary"`
	ValidatedAt      time.Time           `json:"validatedAt"`
}

// Redacted returns a copy of the report with hidden outputs removed
func (r *ValidationReport) Redacted() *ValidationReport {
	cp := *r
	cp.Results = make([]ValidationOutcome, len(r.Results))
	for i, o := range r.Results {
		cp.Results[i] = o.Redacted()
	}
	return &cp
}
