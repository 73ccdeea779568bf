// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fsstore implements the poll store on Cloud Firestore.

	s, err := fsstore.New(ctx, "my-project", "service-account.json")
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

# Documents

	questions/{id}             id, question, options[], tallies{key: n}, active
	ballots/{questionID}_{voter}  questionID, optionKey, voter, castAt

Null entries in a question's options array are ignored.

# Votes

RecordVote reads the question and the ballot inside RunTransaction. A ballot
that already exists returns models.ErrAlreadyVoted; otherwise the ballot is
created and tallies.<key> is incremented with firestore.Increment, so
concurrent voters never overwrite each other's counts.
*/
package fsstore
