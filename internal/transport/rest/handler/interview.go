package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"coalition/internal/engine"
	"coalition/internal/service"
	"coalition/internal/transport/rest/middleware"
)

// InterviewHandler handles interview session endpoints
type InterviewHandler struct {
	interviewSvc *service.InterviewService
	authSvc      *service.AuthService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewSvc *service.InterviewService, authSvc *service.AuthService) *InterviewHandler {
	return &InterviewHandler{
		interviewSvc: interviewSvc,
		authSvc:      authSvc,
	}
}

// StartResponse pairs the opening state with a session-scoped token.
type StartResponse struct {
	Token     string                 `json:"token"`
	Interview *service.InterviewView `json:"interview"`
}

// Start handles POST /v1/interviews
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req service.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.interviewSvc.Start(r.Context(), req)
	if err != nil {
		writeInterviewError(w, err)
		return
	}

	token, err := h.authSvc.GenerateCandidateToken(view.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, StartResponse{Token: token, Interview: view})
}

// Current handles GET /v1/interviews/current
func (h *InterviewHandler) Current(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	view, err := h.interviewSvc.Current(r.Context(), sessionID)
	if err != nil {
		writeInterviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Answer handles POST /v1/interviews/answers
func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req service.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := h.interviewSvc.SubmitAnswer(r.Context(), sessionID, req)
	if err != nil {
		writeInterviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

// Result handles GET /v1/interviews/{id}/result
func (h *InterviewHandler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.interviewSvc.Result(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeInterviewError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeInterviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnknownBackground),
		errors.Is(err, service.ErrUnknownScenario),
		errors.Is(err, engine.ErrInvalidOption):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInterviewOver),
		errors.Is(err, engine.ErrNotAwaitingAnswer),
		errors.Is(err, engine.ErrAlreadyStarted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
