// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
)

// Tally handles GET /questions/{id}/tally
// Counts are public; no identity is needed.
func (h *QuestionHandler) Tally(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	answer, err := h.store.Tally(r.Context(), id)
	if errors.Is(err, models.ErrQuestionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query tally", "error", err, "question_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		QuestionID: id,
		AllAnswers: answer.AllAnswers,
		TotalVotes: answer.Total(),
	})
}
