// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// schema runs unchanged on SQLite and PostgreSQL
const schema = `
-- Questions
CREATE TABLE IF NOT EXISTS question (
    id INTEGER PRIMARY KEY,
    question TEXT NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_question_active ON question(active);

-- Options, ordered by ordinal
CREATE TABLE IF NOT EXISTS question_option (
    question_id INTEGER NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    ordinal INTEGER NOT NULL,
    option_key TEXT NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (question_id, option_key)
);

CREATE INDEX IF NOT EXISTS idx_question_option_question_id ON question_option(question_id);

-- Votes, one per voter per question
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    question_id INTEGER NOT NULL,
    option_key TEXT NOT NULL,
    voter TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (question_id, voter),
    FOREIGN KEY (question_id, option_key) REFERENCES question_option(question_id, option_key) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_vote_question_id ON vote(question_id);
`
