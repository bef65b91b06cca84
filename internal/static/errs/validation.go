package errs

import "errors"

var (
	ErrNoTestCases       = errors.New("no test cases to validate against")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrInvalidTestCase   = errors.New("invalid test case")
	ErrTestCaseNotFound  = errors.New("requested test cases not found")
)
