package puzzles

import (
	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/domain"
)

// SampleTestCase is the public view of a sample test case
type SampleTestCase struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	Input          domain.Value `json:"input"`
	ExpectedOutput domain.Value `json:"expectedOutput"`
}

type SamplesResponse struct {
	PuzzleID  uuid.UUID        `json:"puzzleId"`
	TestCases []SampleTestCase `json:"testCases"`
}

func toSamples(tcs []*domain.TestCase) []SampleTestCase {
	out := make([]SampleTestCase, 0, len(tcs))
	for _, tc := range tcs {
		out = append(out, SampleTestCase{
			ID:             tc.ID,
			Name:           tc.Name,
			Description:    tc.Description,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}
	return out
}
