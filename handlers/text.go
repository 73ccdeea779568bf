// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/i18n"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
)

type TextHandler struct {
	cfg   cliparse.Config
	texts i18n.TextConfiguration
}

func NewTextHandler(cfg cliparse.Config, texts i18n.TextConfiguration) *TextHandler {
	return &TextHandler{cfg: cfg, texts: texts}
}

// Get handles GET /text?lang=
// Without lang the configured language is used; unknown values resolve to English.
func (h *TextHandler) Get(w http.ResponseWriter, r *http.Request) {
	selector := r.URL.Query().Get("lang")
	if selector == "" {
		selector = h.cfg.Language
	}
	lang := i18n.ParseLanguage(selector)

	middleware.JSONResponse(w, http.StatusOK, models.TextResponse{
		Language:  string(lang),
		Direction: i18n.Direction(lang),
		Texts:     h.texts.Resolve(lang),
	})
}
