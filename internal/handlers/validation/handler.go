package validation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	validationsvc "gitlab.com/answer-validator.net/internal/core/services/validation"
	"gitlab.com/answer-validator.net/internal/handlers"
	"gitlab.com/answer-validator.net/internal/handlers/response"
	"gitlab.com/answer-validator.net/internal/static/errs"
)

// ValidationHandler serves answer validation
type ValidationHandler struct {
	validationService validationsvc.IValidationService
	logger            primary.Logger
}

func NewValidationHandler(validationService validationsvc.IValidationService, logger primary.Logger) *ValidationHandler {
	return &ValidationHandler{
		validationService: validationService,
		logger:            logger,
	}
}

// RegisterRoutes registers the API routes for ValidationHandler
func (h *ValidationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/validate", h.Validate).Methods("POST")
}

// Validate grades a submitted answer and returns the report with hidden outputs removed
func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Failed to decode request", "error", err)
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.PuzzleID == uuid.Nil {
		response.BadRequest(w, "puzzleId is required")
		return
	}

	userID := req.UserID
	if userID == nil {
		if id, ok := handlers.UserIDFromContext(r.Context()); ok {
			userID = &id
		}
	}

	report, err := h.validationService.ValidateAnswer(r.Context(), validationsvc.ValidationRequest{
		PuzzleID:        req.PuzzleID,
		SubmittedAnswer: req.SubmittedAnswer,
		TestCaseIDs:     req.TestCaseIDs,
		UserID:          userID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.WriteSuccess(w, report.Redacted())
}

func (h *ValidationHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidSubmission):
		response.BadRequest(w, err.Error())
	case errors.Is(err, errs.ErrNoTestCases):
		response.NotFound(w, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.WriteError(w, response.ErrorMessage{Message: "request cancelled", StatusCode: http.StatusServiceUnavailable})
	default:
		h.logger.Error("Failed to validate answer", "error", err)
		response.InternalError(w)
	}
}
