// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// Errors shared by every poll store implementation
var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrUnknownOption     = errors.New("unknown option")
	ErrAlreadyVoted      = errors.New("already voted on this question")
	ErrMalformedQuestion = errors.New("malformed question")
)
