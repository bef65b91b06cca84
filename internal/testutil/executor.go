// Package testutil provides fakes shared by package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
)

var _ secondary.CodeExecutor = &FakeExecutor{}

// FakeExecutor answers with Handler, or echoes the submission when Handler is nil.
// It records every request and the highest number of concurrent calls.
type FakeExecutor struct {
	Handler func(ctx context.Context, req secondary.ExecRequest) (*secondary.ExecResult, error)

	mu          sync.Mutex
	requests    []secondary.ExecRequest
	inFlight    int
	maxInFlight int
}

func (f *FakeExecutor) Execute(ctx context.Context, req secondary.ExecRequest) (*secondary.ExecResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.Handler == nil {
		return &secondary.ExecResult{Output: req.Submission, ExecutionTimeMs: 1, MemoryUsageMB: 1}, nil
	}
	return f.Handler(ctx, req)
}

func (f *FakeExecutor) Requests() []secondary.ExecRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]secondary.ExecRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeExecutor) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// NewTestCase builds an active, valid exact_match test case with weight 1
func NewTestCase(puzzleID uuid.UUID, order int, input, expected any) *domain.TestCase {
	return &domain.TestCase{
		ID:             uuid.New(),
		PuzzleID:       puzzleID,
		Name:           "case",
		Kind:           domain.KindBasic,
		Mode:           domain.ModeExactMatch,
		Input:          domain.MustFromAny(input),
		ExpectedOutput: domain.MustFromAny(expected),
		Config:         domain.ValidationConfig{}.WithDefaults(),
		Weight:         1,
		IsActive:       true,
		ExecutionOrder: order,
	}
}
