package validation

import (
	"fmt"
	"strings"

	"gitlab.com/answer-validator.net/internal/domain"
	"gitlab.com/answer-validator.net/internal/static/errs"
)

var payloadKeys = []string{"answer", "code", "solution"}

// ExtractSubmissionPayload returns the value handed to the executor.
// An object carrying exactly one of answer, code or solution unwraps to that field.
func ExtractSubmissionPayload(submission domain.Value) (domain.Value, error) {
	if isEmpty(submission) {
		return domain.Value{}, fmt.Errorf("%w: submission is empty", errs.ErrInvalidSubmission)
	}

	fields, ok := submission.AsObject()
	if !ok {
		return submission, nil
	}

	var found []string
	for _, key := range payloadKeys {
		if _, present := fields[key]; present {
			found = append(found, key)
		}
	}
	if len(found) != 1 {
		return submission, nil
	}

	payload := fields[found[0]]
	if isEmpty(payload) {
		return domain.Value{}, fmt.Errorf("%w: %s is empty", errs.ErrInvalidSubmission, found[0])
	}
	return payload, nil
}

func isEmpty(v domain.Value) bool {
	switch v.Kind() {
	case domain.KindNull:
		return true
	case domain.KindString:
		s, _ := v.AsString()
		return strings.TrimSpace(s) == ""
	case domain.KindArray, domain.KindObject:
		return v.Len() == 0
	default:
		return false
	}
}
