package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/bibleai/internal/domain"
	"github.com/ashureev/bibleai/internal/onboarding"
)

type answerRequest struct {
	Value json.RawMessage `json:"value"`
}

// GetOnboarding returns the completion status and the answers so far.
func (h *Handler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"status":  h.onboarding.Status(),
		"answers": h.onboarding.Answers(),
	})
}

// ListQuestions returns the questionnaire steps in order.
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{"questions": onboarding.Questions()})
}

// UpdateAnswer records one answer in memory.
func (h *Handler) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var value interface{}
	if len(req.Value) == 0 || json.Unmarshal(req.Value, &value) != nil || value == nil {
		Error(w, http.StatusBadRequest, "value is required")
		return
	}

	key := domain.QuestionKey(chi.URLParam(r, "key"))
	if err := h.onboarding.UpdateAnswer(key, value); err != nil {
		switch {
		case errors.Is(err, onboarding.ErrUnknownQuestion):
			Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, onboarding.ErrInvalidAnswer):
			Error(w, http.StatusUnprocessableEntity, err.Error())
		default:
			Error(w, http.StatusInternalServerError, "failed to record answer")
		}
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"answers": h.onboarding.Answers()})
}

// CompleteOnboarding persists the completion flag and the answers together.
func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := h.onboarding.Complete(r.Context()); err != nil {
		slog.Error("Failed to complete onboarding", "error", err)
		Error(w, http.StatusInternalServerError, "failed to save onboarding")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"status": h.onboarding.Status()})
}

// ResetOnboarding clears the answers and the completion flag.
func (h *Handler) ResetOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := h.onboarding.Reset(r.Context()); err != nil {
		slog.Error("Failed to reset onboarding", "error", err)
		Error(w, http.StatusInternalServerError, "failed to reset onboarding")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"status": h.onboarding.Status()})
}
