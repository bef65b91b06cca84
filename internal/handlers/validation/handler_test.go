package validation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/answer-validator.net/internal/adapter/logging"
	validationsvc "gitlab.com/answer-validator.net/internal/core/services/validation"
	"gitlab.com/answer-validator.net/internal/domain"
	"gitlab.com/answer-validator.net/internal/handlers"
	"gitlab.com/answer-validator.net/internal/static/errs"
)

type stubService struct {
	validationsvc.IValidationService
	got    validationsvc.ValidationRequest
	report *domain.ValidationReport
	err    error
}

func (s *stubService) ValidateAnswer(_ context.Context, req validationsvc.ValidationRequest) (*domain.ValidationReport, error) {
	s.got = req
	return s.report, s.err
}

func serve(svc *stubService, body string, ctx context.Context) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	NewValidationHandler(svc, logging.NewNopLogger()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestValidate_OK(t *testing.T) {
	puzzle := uuid.New()
	hiddenCase := uuid.New()
	svc := &stubService{report: &domain.ValidationReport{
		PuzzleID:     puzzle,
		OverallScore: 1,
		Success:      true,
		Results: []domain.ValidationOutcome{{
			TestCaseID:     hiddenCase,
			Status:         domain.StatusPassed,
			IsHidden:       true,
			ActualOutput:   domain.String("secret"),
			ExpectedOutput: domain.String("secret"),
		}},
	}}

	body := fmt.Sprintf(`{"puzzleId":%q,"submittedAnswer":{"answer":"42"}}`, puzzle)
	rec := serve(svc, body, context.Background())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, puzzle, svc.got.PuzzleID)
	assert.Equal(t, `{"answer":"42"}`, svc.got.SubmittedAnswer.Canonical())
	assert.Nil(t, svc.got.UserID)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestValidate_UserFromToken(t *testing.T) {
	svc := &stubService{report: &domain.ValidationReport{}}
	user := uuid.New()

	body := fmt.Sprintf(`{"puzzleId":%q,"submittedAnswer":"x","testCaseIds":[%q]}`, uuid.New(), uuid.New())
	rec := serve(svc, body, handlers.WithUserID(context.Background(), user))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.UserID)
	assert.Equal(t, user, *svc.got.UserID)
	assert.Len(t, svc.got.TestCaseIDs, 1)
}

func TestValidate_BodyUserWins(t *testing.T) {
	svc := &stubService{report: &domain.ValidationReport{}}
	bodyUser := uuid.New()

	body := fmt.Sprintf(`{"puzzleId":%q,"submittedAnswer":"x","userId":%q}`, uuid.New(), bodyUser)
	rec := serve(svc, body, handlers.WithUserID(context.Background(), uuid.New()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bodyUser, *svc.got.UserID)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{name: "bad json", body: `{`, code: http.StatusBadRequest},
		{name: "missing puzzle", body: `{"submittedAnswer":"x"}`, code: http.StatusBadRequest},
		{name: "invalid submission", err: fmt.Errorf("%w: submission is empty", errs.ErrInvalidSubmission), code: http.StatusBadRequest},
		{name: "no test cases", err: fmt.Errorf("puzzle: %w", errs.ErrNoTestCases), code: http.StatusNotFound},
		{name: "cancelled", err: context.Canceled, code: http.StatusServiceUnavailable},
		{name: "store down", err: errors.New("failed to load test cases: boom"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			if body == "" {
				body = fmt.Sprintf(`{"puzzleId":%q,"submittedAnswer":"x"}`, uuid.New())
			}
			rec := serve(&stubService{err: tt.err}, body, context.Background())
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status_code"`)
		})
	}
}
