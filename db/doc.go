// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens SQL connections and creates the poll schema.

# Connections

Open accepts "sqlite" (modernc.org/sqlite, pure Go) or "postgres" (lib/pq):

	conn, err := db.Open(db.TypeSQLite, "file:poll.db")
	if err != nil {
		log.Fatal(err)
	}

SQLite connections get a busy timeout, foreign keys enabled, and a single
open connection.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on both drivers.

# Tables

  - question: Question text and active flag
  - question_option: Options per question, ordered by ordinal
  - vote: One vote per voter per question

# Relationships

	question 1──* question_option
	question_option 1──* vote

Tallies are not stored; they are counted from vote rows, so each vote is one
atomic insert. UNIQUE (question_id, voter) rejects repeat votes.

# Seeds

ReadSeed parses a JSON array of questions used to populate the store at
startup.
*/
package db
