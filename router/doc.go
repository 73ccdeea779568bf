// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Poll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg, texts, hub)

# Endpoints

Health:

	GET /health

Questions (requires X-User-Identity):

	GET  /questions              - Active questions with tallies
	POST /questions/{id}/votes   - Submit a vote

Public:

	GET /questions/{id}/tally - Current counts
	GET /text?lang=ar         - Resolved UI text and layout direction
	GET /ws/tallies           - Live tally feed (WebSocket)

The live feed is only registered when a TallyHub is passed.
*/
package router
