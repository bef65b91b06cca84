package puzzles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/answer-validator.net/internal/adapter/logging"
	"gitlab.com/answer-validator.net/internal/core/services/validation"
	"gitlab.com/answer-validator.net/internal/domain"
)

type stubHistory struct {
	got domain.HistoryQuery
	err error
}

func (s *stubHistory) History(_ context.Context, q domain.HistoryQuery) (*domain.History, error) {
	s.got = q
	if s.err != nil {
		return nil, s.err
	}
	return &domain.History{Outcomes: []domain.LedgerRecord{}, Summary: domain.HistorySummary{TotalAttempts: 0}}, nil
}

type stubValidation struct {
	validation.IValidationService
	samples []*domain.TestCase
}

func (s *stubValidation) SampleTestCases(context.Context, uuid.UUID) ([]*domain.TestCase, error) {
	return s.samples, nil
}

func serve(h *PuzzleHandler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHistory(t *testing.T) {
	hist := &stubHistory{}
	h := NewPuzzleHandler(hist, &stubValidation{}, logging.NewNopLogger())
	puzzle, user := uuid.New(), uuid.New()

	rec := serve(h, "/api/puzzles/"+puzzle.String()+"/history?userId="+user.String()+"&limit=7&status=failed,TIMEOUT")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, puzzle, hist.got.PuzzleID)
	require.NotNil(t, hist.got.UserID)
	assert.Equal(t, user, *hist.got.UserID)
	assert.Equal(t, 7, hist.got.Limit)
	assert.Equal(t, []domain.Status{domain.StatusFailed, domain.StatusTimeout}, hist.got.Statuses)
	assert.JSONEq(t, `{"outcomes":[],"summary":{"totalAttempts":0,"distinctAttempts":0,"distinctSubmissions":0,"bestScore":0,"averageScore":0}}`, rec.Body.String())
}

func TestHistory_BadParams(t *testing.T) {
	h := NewPuzzleHandler(&stubHistory{}, &stubValidation{}, logging.NewNopLogger())
	puzzle := uuid.New().String()

	for _, target := range []string{
		"/api/puzzles/not-a-uuid/history",
		"/api/puzzles/" + puzzle + "/history?userId=nope",
		"/api/puzzles/" + puzzle + "/history?limit=ten",
		"/api/puzzles/" + puzzle + "/history?status=PASSED,LOST",
	} {
		assert.Equal(t, http.StatusBadRequest, serve(h, target).Code, target)
	}
}

func TestHistory_ServiceError(t *testing.T) {
	h := NewPuzzleHandler(&stubHistory{err: errors.New("db down")}, &stubValidation{}, logging.NewNopLogger())
	rec := serve(h, "/api/puzzles/"+uuid.New().String()+"/history")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestSamples(t *testing.T) {
	puzzle := uuid.New()
	sample := &domain.TestCase{
		ID:             uuid.New(),
		PuzzleID:       puzzle,
		Name:           "example",
		Input:          domain.Number(2),
		ExpectedOutput: domain.Number(4),
		Weight:         3,
	}
	h := NewPuzzleHandler(&stubHistory{}, &stubValidation{samples: []*domain.TestCase{sample}}, logging.NewNopLogger())

	rec := serve(h, "/api/puzzles/"+puzzle.String()+"/samples")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"expectedOutput":4`)
	assert.Contains(t, rec.Body.String(), `"name":"example"`)
	assert.NotContains(t, rec.Body.String(), "weight")
}
