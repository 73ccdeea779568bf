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

// Vote handles POST /questions/{id}/votes
func (h *QuestionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	voter, ok := h.voterKey(w, r)
	if !ok {
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionKey == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, h.message(h.texts.SelectOptionMessage))
		return
	}

	answer, err := h.store.RecordVote(r.Context(), id, req.OptionKey, voter)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrQuestionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	case errors.Is(err, models.ErrUnknownOption):
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrUnknownOption.Error())
		return
	case errors.Is(err, models.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, h.message(h.texts.AlreadyVotedMessage))
		return
	default:
		slog.Error("failed to record vote", "error", err, "question_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote recorded", "question_id", id, "option_key", req.OptionKey)

	if h.hub != nil {
		h.hub.Publish(models.TallyResponse{
			QuestionID: id,
			AllAnswers: answer.AllAnswers,
			TotalVotes: answer.Total(),
		})
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		QuestionID: id,
		Answer:     answer,
		Message:    h.message(h.texts.ThankYouMessage),
	})
}
