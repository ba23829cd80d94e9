package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"coalition/internal/service"
)

// ResultsHandler handles leaderboard and summary endpoints
type ResultsHandler struct {
	summarySvc *service.SummaryService
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(summarySvc *service.SummaryService) *ResultsHandler {
	return &ResultsHandler{summarySvc: summarySvc}
}

// Leaderboard handles GET /v1/scenarios/{id}/leaderboard
func (h *ResultsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	top, _ := strconv.Atoi(r.URL.Query().Get("top"))

	entries, err := h.summarySvc.Leaderboard(r.Context(), mux.Vars(r)["id"], top)
	if err != nil {
		writeResultsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// Summary handles GET /v1/scenarios/{id}/summary
func (h *ResultsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summarySvc.Summary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeResultsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeResultsError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrUnknownScenario) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
