package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerRecord is one persisted outcome. Records are only ever appended.
type LedgerRecord struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	AttemptID       uuid.UUID  `db:"attempt_id" json:"attemptId"`
	PuzzleID        uuid.UUID  `db:"puzzle_id" json:"puzzleId"`
	UserID          *uuid.UUID `db:"user_id" json:"userId,omitempty"`
	TestCaseID      uuid.UUID  `db:"test_case_id" json:"testCaseId"`
	Status          Status     `db:"status" json:"status"`
	SubmittedAnswer Value      `db:"submitted_answer" json:"submittedAnswer"`
	SubmissionHash  string     `db:"submission_hash" json:"submissionHash"`
	ActualOutput    Value      `db:"actual_output" json:"actualOutput"`
	ExpectedOutput  Value      `db:"expected_output" json:"expectedOutput"`
	ExecutionTimeMs float64    `db:"execution_time_ms" json:"executionTimeMs"`
	MemoryUsageMB   float64    `db:"memory_usage_mb" json:"memoryUsageMB"`
	Score           float64    `db:"score" json:"score"`
	ErrorMessage    *string    `db:"error_message" json:"errorMessage,omitempty"`
	IsHidden        bool       `db:"is_hidden" json:"isHidden"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
}

// LedgerInput is the attempt-level context shared by every record of one attempt
type LedgerInput struct {
	AttemptID       uuid.UUID
	PuzzleID        uuid.UUID
	UserID          *uuid.UUID
	SubmittedAnswer Value
	SubmissionHash  string
	CreatedAt       time.Time
}

// NewLedgerRecord builds the row persisted for a single outcome
func NewLedgerRecord(in LedgerInput, o ValidationOutcome) LedgerRecord {
	rec := LedgerRecord{
		ID:              uuid.New(),
		AttemptID:       in.AttemptID,
		PuzzleID:        in.PuzzleID,
		UserID:          in.UserID,
		TestCaseID:      o.TestCaseID,
		Status:          o.Status,
		SubmittedAnswer: in.SubmittedAnswer,
		SubmissionHash:  in.SubmissionHash,
		ActualOutput:    o.ActualOutput,
		ExpectedOutput:  o.ExpectedOutput,
		ExecutionTimeMs: o.ExecutionTimeMs,
		MemoryUsageMB:   o.MemoryUsageMB,
		Score:           o.Score,
		IsHidden:        o.IsHidden,
		CreatedAt:       in.CreatedAt,
	}
	if o.ErrorMessage != "" {
		msg := o.ErrorMessage
		rec.ErrorMessage = &msg
	}
	return rec
}

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// HistoryQuery selects ledger records of a puzzle, optionally for one user
type HistoryQuery struct {
	PuzzleID uuid.UUID
	UserID   *uuid.UUID
	// Statuses keeps only records with one of these statuses; empty keeps all
	Statuses []Status
	Limit    int
}

// MatchesStatus reports whether status passes the Statuses filter
func (q HistoryQuery) MatchesStatus(status Status) bool {
	if len(q.Statuses) == 0 {
		return true
	}
	for _, s := range q.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// EffectiveLimit applies the default and the upper bound
func (q HistoryQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultHistoryLimit
	}
	if q.Limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return q.Limit
}

type LedgerTable struct {
	ID              string
	AttemptID       string
	PuzzleID        string
	UserID          string
	TestCaseID      string
	Status          string
	SubmittedAnswer string
	SubmissionHash  string
	ActualOutput    string
	ExpectedOutput  string
	ExecutionTimeMs string
	MemoryUsageMB   string
	Score           string
	ErrorMessage    string
	IsHidden        string
	CreatedAt       string
}

func GetLedgerTable() LedgerTable {
	return LedgerTable{
		ID:              "id",
		AttemptID:       "attempt_id",
		PuzzleID:        "puzzle_id",
		UserID:          "user_id",
		TestCaseID:      "test_case_id",
		Status:          "status",
		SubmittedAnswer: "submitted_answer",
		SubmissionHash:  "submission_hash",
		ActualOutput:    "actual_output",
		ExpectedOutput:  "expected_output",
		ExecutionTimeMs: "execution_time_ms",
		MemoryUsageMB:   "memory_usage_mb",
		Score:           "score",
		ErrorMessage:    "error_message",
		IsHidden:        "is_hidden",
		CreatedAt:       "created_at",
	}
}

func (LedgerTable) TableName() string {
	return "validation_results"
}

// Columns lists every column in struct order
func (t LedgerTable) Columns() []string {
	return []string{
		t.ID, t.AttemptID, t.PuzzleID, t.UserID, t.TestCaseID, t.Status, t.SubmittedAnswer,
		t.SubmissionHash, t.ActualOutput, t.ExpectedOutput, t.ExecutionTimeMs, t.MemoryUsageMB,
		t.Score, t.ErrorMessage, t.IsHidden, t.CreatedAt,
	}
}

// Redacted hides the outputs of a record that belongs to a hidden test case
func (r LedgerRecord) Redacted() LedgerRecord {
	if !r.IsHidden {
		return r
	}
	r.ActualOutput = Null()
	r.ExpectedOutput = Null()
	return r
}

// HistorySummary aggregates the returned window of ledger records
type HistorySummary struct {
	TotalAttempts       int        `json:"totalAttempts"`
	DistinctAttempts    int        `json:"distinctAttempts"`
	DistinctSubmissions int        `json:"distinctSubmissions"`
	BestScore           float64    `json:"bestScore"`
	AverageScore        float64    `json:"averageScore"`
	LastAttemptAt       *time.Time `json:"lastAttemptAt,omitempty"`
}

// History is a window of ledger records, newest first, plus its summary
type History struct {
	Outcomes []LedgerRecord `json:"outcomes"`
	Summary  HistorySummary `json:"summary"`
}

// Redacted returns a copy whose hidden records carry no outputs
func (h History) Redacted() History {
	out := make([]LedgerRecord, len(h.Outcomes))
	for i, rec := range h.Outcomes {
		out[i] = rec.Redacted()
	}
	h.Outcomes = out
	return h
}
