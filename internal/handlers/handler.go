package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/answer-validator.net/internal/handlers/response"
)

// HealthHandler answers liveness probes
type HealthHandler struct {
	serviceName string
}

func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", h.Health).Methods("GET")
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ResponseWithJson(w, http.StatusOK, map[string]string{"status": "ok", "service": h.serviceName})
}

func ResponseWithJson(w http.ResponseWriter, statusCode int, data interface{}) {
	response.WriteJson(w, statusCode, data)
}

func ResponseError(w http.ResponseWriter, message string, code int) {
	response.WriteError(w, response.ErrorMessage{Message: message, StatusCode: code})
}
