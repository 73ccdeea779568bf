// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
)

// Identity header carried by every per-user request
const HeaderUserIdentity = "X-User-Identity"

// Request types

type SubmitVoteRequest struct {
	OptionKey string `json:"option_key"`
}

// Response types

type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type SubmitVoteResponse struct {
	QuestionID int    `json:"question_id"`
	Answer     Answer `json:"answer"`
	Message    string `json:"message"`
}

type TallyResponse struct {
	QuestionID int   `json:"question_id"`
	AllAnswers []int `json:"all_answers"`
	TotalVotes int   `json:"total_votes"`
}

type TextResponse struct {
	Language  string            `json:"language"`
	Direction string            `json:"direction"`
	Texts     map[string]string `json:"texts"`
}

// Domain types

type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Answer holds the tally for a question, index-aligned with its options,
// and whether the identified user has already voted.
type Answer struct {
	AllAnswers            []int `json:"all_answers"`
	IsCurrentUserAnswered bool  `json:"is_current_user_answered"`
}

type Question struct {
	ID             int      `json:"id"`
	Question       string   `json:"question"`
	Options        []Option `json:"options"`
	Answer         *Answer  `json:"answer,omitempty"`
	SelectedOption string   `json:"selected_option,omitempty"`
}

type SelectedOption struct {
	QuestionID int    `json:"question_id"`
	OptionKey  string `json:"option_key"`
}

// SeedQuestion is one entry of a seed file
type SeedQuestion struct {
	Question
	Active bool `json:"active"`
}

// UnmarshalJSON drops null option entries so options and tallies stay aligned.
func (q *Question) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID             int       `json:"id"`
		Question       string    `json:"question"`
		Options        []*Option `json:"options"`
		Answer         *Answer   `json:"answer"`
		SelectedOption string    `json:"selected_option"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*q = Question{
		ID:             wire.ID,
		Question:       wire.Question,
		Options:        CompactOptions(wire.Options),
		Answer:         wire.Answer,
		SelectedOption: wire.SelectedOption,
	}
	return nil
}

// UnmarshalJSON for SeedQuestion, needed because the embedded Question
// decoder would otherwise swallow the whole object.
func (s *SeedQuestion) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &s.Question); err != nil {
		return err
	}
	var flags struct {
		Active *bool `json:"active"`
	}
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	s.Active = flags.Active == nil || *flags.Active
	return nil
}

// CompactOptions filters nil entries, keeping order.
func CompactOptions(opts []*Option) []Option {
	out := make([]Option, 0, len(opts))
	for _, o := range opts {
		if o == nil {
			continue
		}
		out = append(out, *o)
	}
	return out
}

// OptionIndex returns the position of key in the option sequence, or -1.
func (q Question) OptionIndex(key string) int {
	for i, o := range q.Options {
		if o.Key == key {
			return i
		}
	}
	return -1
}

func (q Question) HasOption(key string) bool {
	return q.OptionIndex(key) >= 0
}

// IsAnswered reports whether the identified user already voted.
func (q Question) IsAnswered() bool {
	return q.Answer != nil && q.Answer.IsCurrentUserAnswered
}

// Normalize validates the question and returns a copy with a populated
// Answer. A missing Answer becomes an all-zero tally.
func (q Question) Normalize() (Question, error) {
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if o.Key == "" {
			return Question{}, fmt.Errorf("question %d: empty option key: %w", q.ID, ErrMalformedQuestion)
		}
		if seen[o.Key] {
			return Question{}, fmt.Errorf("question %d: duplicate option key %q: %w", q.ID, o.Key, ErrMalformedQuestion)
		}
		seen[o.Key] = true
	}

	out := q
	out.Options = append([]Option(nil), q.Options...)
	out.SelectedOption = ""

	if q.Answer == nil {
		out.Answer = &Answer{AllAnswers: make([]int, len(q.Options))}
		return out, nil
	}

	if !q.Answer.AlignedWith(len(q.Options)) {
		return Question{}, fmt.Errorf("question %d: %d tallies for %d options: %w",
			q.ID, len(q.Answer.AllAnswers), len(q.Options), ErrMalformedQuestion)
	}
	a := q.Answer.Clone()
	out.Answer = &a
	return out, nil
}

// AlignedWith reports whether the tally has exactly n non-negative counts.
func (a Answer) AlignedWith(n int) bool {
	if len(a.AllAnswers) != n {
		return false
	}
	for _, c := range a.AllAnswers {
		if c < 0 {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no memory with a.
func (a Answer) Clone() Answer {
	return Answer{
		AllAnswers:            append([]int(nil), a.AllAnswers...),
		IsCurrentUserAnswered: a.IsCurrentUserAnswered,
	}
}

// Total is the number of votes recorded.
func (a Answer) Total() int {
	total := 0
	for _, c := range a.AllAnswers {
		total += c
	}
	return total
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
