package puzzles

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/services/history"
	"gitlab.com/answer-validator.net/internal/core/services/validation"
	"gitlab.com/answer-validator.net/internal/domain"
	"gitlab.com/answer-validator.net/internal/handlers/response"
)

// PuzzleHandler serves read-only puzzle views: validation history and sample test cases
type PuzzleHandler struct {
	historyService    history.IHistoryService
	validationService validation.IValidationService
	logger            primary.Logger
}

func NewPuzzleHandler(historyService history.IHistoryService, validationService validation.IValidationService, logger primary.Logger) *PuzzleHandler {
	return &PuzzleHandler{
		historyService:    historyService,
		validationService: validationService,
		logger:            logger,
	}
}

func (h *PuzzleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/puzzles/{puzzleId}/history", h.History).Methods("GET")
	router.HandleFunc("/api/puzzles/{puzzleId}/samples", h.Samples).Methods("GET")
}

func puzzleID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["puzzleId"])
	return id, err == nil
}

// History handles GET /api/puzzles/{puzzleId}/history?userId=&status=&limit=
func (h *PuzzleHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := puzzleID(r)
	if !ok {
		response.BadRequest(w, "invalid puzzle id")
		return
	}

	query := domain.HistoryQuery{PuzzleID: id}
	if raw := r.URL.Query().Get("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid userId")
			return
		}
		query.UserID = &userID
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := domain.Status(strings.ToUpper(strings.TrimSpace(part)))
			if !status.IsValid() {
				response.BadRequest(w, "invalid status")
				return
			}
			query.Statuses = append(query.Statuses, status)
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "invalid limit")
			return
		}
		query.Limit = limit
	}

	result, err := h.historyService.History(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to get history", "puzzleId", id, "error", err)
		response.InternalError(w)
		return
	}
	response.WriteSuccess(w, result.Redacted())
}

// Samples handles GET /api/puzzles/{puzzleId}/samples
func (h *PuzzleHandler) Samples(w http.ResponseWriter, r *http.Request) {
	id, ok := puzzleID(r)
	if !ok {
		response.BadRequest(w, "invalid puzzle id")
		return
	}

	samples, err := h.validationService.SampleTestCases(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get sample test cases", "puzzleId", id, "error", err)
		response.InternalError(w)
		return
	}
	response.WriteSuccess(w, SamplesResponse{PuzzleID: id, TestCases: toSamples(samples)})
}
