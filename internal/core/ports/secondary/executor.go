package secondary

import (
	"context"
	"fmt"

	"gitlab.com/answer-validator.net/internal/domain"
)

// ExecRequest is one run of a submission against one test case input
type ExecRequest struct {
	Input         domain.Value
	Submission    domain.Value
	TimeoutMs     int
	MemoryLimitMB int
}

// ExecResult is what the sandbox measured for a successful run
type ExecResult struct {
	Output          domain.Value
	ExecutionTimeMs float64
	MemoryUsageMB   float64
}

type ExecErrorKind string

const (
	ExecErrorTimeout        ExecErrorKind = "timeout"
	ExecErrorMemoryExceeded ExecErrorKind = "memory_exceeded"
	ExecErrorRuntime        ExecErrorKind = "runtime"
)

// ExecError is returned by executors when the run itself failed.
// Any other error returned by Execute is treated as a runtime error.
type ExecError struct {
	Kind            ExecErrorKind
	Message         string
	ExecutionTimeMs float64
	MemoryUsageMB   float64
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// CodeExecutor runs a submission in an external sandbox
type CodeExecutor interface {
	Execute(ctx context.Context, req ExecRequest) (*ExecResult, error)
}
