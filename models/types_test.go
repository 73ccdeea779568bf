// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestQuestionUnmarshal_DropsNullOptions(t *testing.T) {
	data := []byte(`{
		"id": 7,
		"question": "Lunch?",
		"options": [{"key": "a", "text": "Yes"}, null, {"key": "b", "text": "No"}],
		"answer": {"all_answers": [3, 2], "is_current_user_answered": false}
	}`)

	var q Question
	if err := json.Unmarshal(data, &q); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(q.Options) != 2 {
		t.Fatalf("Expected 2 options after dropping null, got %d", len(q.Options))
	}
	if q.Options[0].Key != "a" || q.Options[1].Key != "b" {
		t.Errorf("Option order not preserved: %+v", q.Options)
	}
	if q.Answer == nil || len(q.Answer.AllAnswers) != 2 {
		t.Fatalf("Answer not decoded: %+v", q.Answer)
	}
	if _, err := q.Normalize(); err != nil {
		t.Errorf("Normalize() error = %v", err)
	}
}

func TestSeedQuestionUnmarshal(t *testing.T) {
	var seeds []SeedQuestion
	data := []byte(`[
		{"id": 1, "question": "A?", "options": [{"key": "y", "text": "Yes"}]},
		{"id": 2, "question": "B?", "active": false, "options": [null, {"key": "n", "text": "No"}]}
	]`)
	if err := json.Unmarshal(data, &seeds); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(seeds) != 2 {
		t.Fatalf("Expected 2 seeds, got %d", len(seeds))
	}
	if !seeds[0].Active {
		t.Error("Seed without active flag should default to active")
	}
	if seeds[1].Active {
		t.Error("Seed with active=false should be inactive")
	}
	if seeds[1].ID != 2 || len(seeds[1].Options) != 1 {
		t.Errorf("Unexpected second seed: %+v", seeds[1])
	}
}

func TestNormalize(t *testing.T) {
	opts := []Option{{Key: "a", Text: "Yes"}, {Key: "b", Text: "No"}}

	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"missing answer", Question{ID: 1, Options: opts}, false},
		{"aligned answer", Question{ID: 1, Options: opts, Answer: &Answer{AllAnswers: []int{1, 0}}}, false},
		{"short tally", Question{ID: 1, Options: opts, Answer: &Answer{AllAnswers: []int{1}}}, true},
		{"negative count", Question{ID: 1, Options: opts, Answer: &Answer{AllAnswers: []int{1, -1}}}, true},
		{"duplicate key", Question{ID: 1, Options: []Option{{Key: "a"}, {Key: "a"}}}, true},
		{"empty key", Question{ID: 1, Options: []Option{{Key: ""}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.q.Normalize()
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedQuestion) {
					t.Fatalf("Expected ErrMalformedQuestion, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got.Answer == nil || len(got.Answer.AllAnswers) != len(got.Options) {
				t.Errorf("Normalized answer not aligned: %+v", got.Answer)
			}
		})
	}
}

func TestNormalize_DoesNotAlias(t *testing.T) {
	orig := Question{
		ID:      1,
		Options: []Option{{Key: "a"}},
		Answer:  &Answer{AllAnswers: []int{5}},
	}

	got, err := orig.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	got.Answer.AllAnswers[0] = 99

	if orig.Answer.AllAnswers[0] != 5 {
		t.Error("Normalize() result shares tally memory with its input")
	}
}

func TestAnswerTotal(t *testing.T) {
	a := Answer{AllAnswers: []int{4, 2, 0}}
	if a.Total() != 6 {
		t.Errorf("Total() = %d, want 6", a.Total())
	}
}
