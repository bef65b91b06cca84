package validation

import (
	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/domain"
)

// ValidateRequest is the body of POST /api/validate
type ValidateRequest struct {
	PuzzleID        uuid.UUID    `json:"puzzleId"`
	SubmittedAnswer domain.Value `json:"submittedAnswer"`
	TestCaseIDs     []uuid.UUID  `json:"testCaseIds,omitempty"`
	UserID          *uuid.UUID   `json:"userId,omitempty"`
}
