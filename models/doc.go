// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the poll.

# Domain Types

  - Question: id, question text, ordered options, optional answer
  - Option: key (unique within its question) and display text
  - Answer: all_answers (one count per option, same order) and
    is_current_user_answered
  - SelectedOption: transient question/option pairing held by the controller
  - SeedQuestion: a question plus its active flag, as read from a seed file

Null entries in a decoded option list are dropped by Question.UnmarshalJSON,
so a tally is always aligned with the options that are displayed.

# Validation

Normalize checks option keys and tally alignment:

	q, err := raw.Normalize()
	if errors.Is(err, models.ErrMalformedQuestion) {
		...
	}

A question without an answer is normalized to an all-zero tally that the
current user has not answered.

# Request and Response Types

  - SubmitVoteRequest: option_key
  - QuestionsResponse: questions
  - SubmitVoteResponse: question_id, answer, message
  - TallyResponse: question_id, all_answers, total_votes
  - TextResponse: language, direction, texts
  - ErrorResponse: error, message

# Errors

Store implementations report these sentinels, checked with errors.Is:

	ErrQuestionNotFound
	ErrUnknownOption
	ErrAlreadyVoted
	ErrMalformedQuestion
*/
package models
