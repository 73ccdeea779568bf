// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-poll/auth"
	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/i18n"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
)

// Store is the poll store behind the HTTP API. Voter arguments are hashed
// voter keys, never raw identities.
type Store interface {
	FetchActiveQuestions(ctx context.Context, voter string) ([]models.Question, error)
	RecordVote(ctx context.Context, questionID int, optionKey, voter string) (models.Answer, error)
	Tally(ctx context.Context, questionID int) (models.Answer, error)
}

type QuestionHandler struct {
	store Store
	cfg   cliparse.Config
	texts i18n.TextConfiguration
	hub   *TallyHub
}

// NewQuestionHandler creates the question handler. hub may be nil.
func NewQuestionHandler(store Store, cfg cliparse.Config, texts i18n.TextConfiguration, hub *TallyHub) *QuestionHandler {
	return &QuestionHandler{store: store, cfg: cfg, texts: texts, hub: hub}
}

// voterKey resolves the caller's identity to a voter key, writing 401 when
// the header is missing
func (h *QuestionHandler) voterKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key, err := auth.VoterKey(middleware.UserIdentity(r), h.cfg.IdentitySalt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.HeaderUserIdentity+" header required")
		return "", false
	}
	return key, true
}

// questionID parses the {id} path value, writing 400 when it is not a
// positive integer
func questionID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid question id")
		return 0, false
	}
	return id, true
}

// message resolves a text record in the configured language
func (h *QuestionHandler) message(text i18n.BilingualText) string {
	return i18n.Resolve(text, i18n.ParseLanguage(h.cfg.Language))
}

// List handles GET /questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	voter, ok := h.voterKey(w, r)
	if !ok {
		return
	}

	questions, err := h.store.FetchActiveQuestions(r.Context(), voter)
	if err != nil {
		slog.Error("failed to fetch questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load questions")
		return
	}

	if questions == nil {
		questions = []models.Question{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionsResponse{
		Questions: questions,
	})
}
