// Package memory holds in-process implementations of the secondary ports,
// used by the CLI and by tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"gitlab.com/answer-validator.net/internal/core/ports/secondary"
	"gitlab.com/answer-validator.net/internal/domain"
	"gitlab.com/answer-validator.net/internal/static/errs"
)

var (
	_ secondary.TestCaseStore  = &TestCaseStore{}
	_ secondary.TestCaseWriter = &TestCaseStore{}
)

type TestCaseStore struct {
	mu        sync.RWMutex
	testCases map[uuid.UUID]*domain.TestCase
}

func NewTestCaseStore(testCases ...*domain.TestCase) *TestCaseStore {
	s := &TestCaseStore{testCases: make(map[uuid.UUID]*domain.TestCase, len(testCases))}
	for _, tc := range testCases {
		cp := *tc
		s.testCases[tc.ID] = &cp
	}
	return s
}

// Save validates and stores a copy of tc, replacing any test case with the same id
func (s *TestCaseStore) Save(_ context.Context, tc *domain.TestCase) error {
	if err := tc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidTestCase, err)
	}
	cp := *tc
	s.mu.Lock()
	s.testCases[tc.ID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *TestCaseStore) ActiveTestCases(ctx context.Context, puzzleID uuid.UUID) ([]*domain.TestCase, error) {
	return s.ListTestCases(ctx, puzzleID, secondary.TestCaseFilter{Visibility: secondary.VisibilityActive})
}

func (s *TestCaseStore) ByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.TestCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]*domain.TestCase, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if tc, ok := s.testCases[id]; ok {
			cp := *tc
			out = append(out, &cp)
		}
	}
	domain.SortTestCases(out)
	return out, nil
}

func (s *TestCaseStore) ListTestCases(_ context.Context, puzzleID uuid.UUID, filter secondary.TestCaseFilter) ([]*domain.TestCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.TestCase, 0)
	for _, tc := range s.testCases {
		if tc.PuzzleID != puzzleID || !filter.Matches(tc) {
			continue
		}
		cp := *tc
		out = append(out, &cp)
	}
	domain.SortTestCases(out)
	return out, nil
}
