package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"coalition/internal/model"
	"coalition/internal/service"
)

// ContentHandler handles authored-content endpoints
type ContentHandler struct {
	contentSvc *service.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentSvc *service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// ListQuestions handles GET /v1/questions
func (h *ContentHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.contentSvc.ListQuestions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// GetQuestion handles GET /v1/questions/{id}
func (h *ContentHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.contentSvc.GetQuestion(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// SaveQuestion handles PUT /v1/questions/{id}
func (h *ContentHandler) SaveQuestion(w http.ResponseWriter, r *http.Request) {
	var question model.Question
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	question.ID = mux.Vars(r)["id"]

	if err := h.contentSvc.SaveQuestion(r.Context(), &question); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// DeleteQuestion handles DELETE /v1/questions/{id}
func (h *ContentHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.contentSvc.DeleteQuestion(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListBackgrounds handles GET /v1/backgrounds
func (h *ContentHandler) ListBackgrounds(w http.ResponseWriter, r *http.Request) {
	backgrounds, err := h.contentSvc.ListBackgrounds(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"backgrounds": backgrounds})
}

// SaveBackground handles PUT /v1/backgrounds/{id}
func (h *ContentHandler) SaveBackground(w http.ResponseWriter, r *http.Request) {
	var background model.Background
	if err := json.NewDecoder(r.Body).Decode(&background); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	background.ID = mux.Vars(r)["id"]

	if err := h.contentSvc.SaveBackground(r.Context(), &background); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, background)
}

// DeleteBackground handles DELETE /v1/backgrounds/{id}
func (h *ContentHandler) DeleteBackground(w http.ResponseWriter, r *http.Request) {
	if err := h.contentSvc.DeleteBackground(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListScenarios handles GET /v1/scenarios
func (h *ContentHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.contentSvc.ListScenarios(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenarios": scenarios})
}

// SaveScenario handles PUT /v1/scenarios/{id}
func (h *ContentHandler) SaveScenario(w http.ResponseWriter, r *http.Request) {
	var scenario model.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	scenario.ID = mux.Vars(r)["id"]

	if err := h.contentSvc.SaveScenario(r.Context(), &scenario); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenario)
}

// DeleteScenario handles DELETE /v1/scenarios/{id}
func (h *ContentHandler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.contentSvc.DeleteScenario(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeContentError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
