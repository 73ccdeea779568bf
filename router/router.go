// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/handlers"
	"github.com/danielhkuo/quickly-poll/i18n"
	"github.com/danielhkuo/quickly-poll/middleware"
)

// NewRouter registers every endpoint. hub may be nil, in which case the
// live tally feed is not served.
func NewRouter(store handlers.Store, cfg cliparse.Config, texts i18n.TextConfiguration, hub *handlers.TallyHub) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(store, cfg, texts, hub)
	textHandler := handlers.NewTextHandler(cfg, texts)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Questions (requires X-User-Identity)
	mux.HandleFunc("GET /questions", middleware.WithLogging(questionHandler.List))
	mux.HandleFunc("POST /questions/{id}/votes", middleware.WithLogging(questionHandler.Vote))

	// Public
	mux.HandleFunc("GET /questions/{id}/tally", middleware.WithLogging(questionHandler.Tally))
	mux.HandleFunc("GET /text", middleware.WithLogging(textHandler.Get))

	if hub != nil {
		mux.HandleFunc("GET /ws/tallies", middleware.WithLogging(hub.ServeHTTP))
	}

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-poll API v1"))
	})

	return mux
}
