// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements the poll store on SQL databases.

SQLStore satisfies controller.StoreClient and the handlers' Store:

	conn, _ := db.Open(db.TypeSQLite, "poll.db")
	db.CreateSchema(conn)
	s := store.NewSQLStore(conn)

	questions, err := s.FetchActiveQuestions(ctx, voter)
	answer, err := s.RecordVote(ctx, questionID, "b", voter)

# Votes

RecordVote runs in one transaction: the question must be active, the option
must exist, then one vote row is inserted. A second vote by the same voter
hits UNIQUE (question_id, voter) and returns models.ErrAlreadyVoted.

Tallies are counted from vote rows in option order, so concurrent votes on
the same option never lose an increment.

# Seeding

SaveQuestion upserts a question and its options; SetActive retires or
reopens a question.
*/
package store
