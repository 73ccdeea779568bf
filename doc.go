// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Poll API server.

Quickly Poll serves single-choice questions to identified users, records
one vote per user per question and shows the running tally as a chart once
the user has voted. All user-facing text is available in English and
Arabic.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	IDENTITY_SALT=... DATABASE_URL=poll.db go run .

Or with flags:

	go run . -p 3318 -t sqlite -d poll.db -identity-salt dev -seed questions.json

A .env file in the working directory is loaded when present.

# Configuration

Required settings:

  - IDENTITY_SALT (-identity-salt): Secret for voter key HMAC
  - DATABASE_URL (-d): Connection string for sqlite or postgres
  - FIRESTORE_PROJECT (-firestore-project): Project ID when -t firestore

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres or firestore (default: sqlite)
  - POLL_LANGUAGE (-lang): en or ar (default: en)
  - POLL_TEXT_FILE (-text): JSON file overriding UI text
  - POLL_SEED_FILE (-seed): JSON file of questions upserted on startup
  - LOG_LEVEL, LOG_FORMAT: debug|info|warn|error, text|json

# Architecture

  - controller: Per-user vote lifecycle (LOADING, OPEN, SUBMITTING, CLOSED)
  - handlers: HTTP request handlers and the live tally hub
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Question, option and answer types
  - i18n: Bilingual text resolution
  - auth: Identity normalisation and hashing
  - store, db: SQL store and schema
  - fsstore: Firestore store
  - pollclient: HTTP client implementing the controller's store boundary
  - cliparse: Configuration parsing

cmd/pollvote is a terminal client built on controller and pollclient.
*/
package main
