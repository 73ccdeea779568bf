// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Poll API.

# Handler Types

  - QuestionHandler: Active questions, votes and tallies
  - TextHandler: Resolved UI text for a language
  - TallyHub: WebSocket feed of updated tallies

Handlers are created via constructor functions:

	questionHandler := handlers.NewQuestionHandler(store, cfg, texts, hub)

The Store interface is satisfied by store.SQLStore and fsstore.Store.

# Identity

Per-user operations read the X-User-Identity header. The identity is
normalized and hashed with the configured salt before it reaches the
store, so raw identities are never persisted. A missing header is 401.

# Voting

	POST /questions/{id}/votes  {"option_key": "b"}

A vote is recorded at most once per user and question; a repeat returns
409 with the already-voted message. Every recorded vote is published to
the TallyHub.
*/
package handlers
