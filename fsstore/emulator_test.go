// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fsstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-poll/models"
)

// newEmulatorStore connects to the Firestore emulator under a fresh project
// so tests never see each other's documents.
func newEmulatorStore(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "quickly-poll-"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("Failed to create Firestore client: %v", err)
	}

	s := NewWithClient(client)
	t.Cleanup(func() { s.Close() })
	return s
}

func saveTestQuestion(t *testing.T, s *Store, id int, active bool, keys ...string) {
	t.Helper()

	q := models.Question{ID: id, Question: fmt.Sprintf("Question %d?", id)}
	for _, k := range keys {
		q.Options = append(q.Options, models.Option{Key: k, Text: "Option " + k})
	}
	if err := s.SaveQuestion(context.Background(), q, active); err != nil {
		t.Fatalf("SaveQuestion(%d) error = %v", id, err)
	}
}

func TestEmulatorRecordVote(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()

	saveTestQuestion(t, s, 1, true, "a", "b")
	saveTestQuestion(t, s, 2, false, "a", "b")

	answer, err := s.RecordVote(ctx, 1, "a", "voter-1")
	if err != nil {
		t.Fatalf("RecordVote() error = %v", err)
	}
	if answer.AllAnswers[0] != 1 || answer.AllAnswers[1] != 0 || !answer.IsCurrentUserAnswered {
		t.Errorf("Unexpected answer: %+v", answer)
	}

	tests := []struct {
		name       string
		questionID int
		optionKey  string
		voter      string
		wantErr    error
	}{
		{"repeat vote", 1, "b", "voter-1", models.ErrAlreadyVoted},
		{"unknown option", 1, "z", "voter-2", models.ErrUnknownOption},
		{"unknown question", 99, "a", "voter-2", models.ErrQuestionNotFound},
		{"inactive question", 2, "a", "voter-2", models.ErrQuestionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RecordVote(ctx, tt.questionID, tt.optionKey, tt.voter)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	tally, err := s.Tally(ctx, 1)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if tally.AllAnswers[0] != 1 || tally.AllAnswers[1] != 0 {
		t.Errorf("Expected rejected votes to leave the tally at [1 0], got %v", tally.AllAnswers)
	}
}

func TestEmulatorConcurrentVoters(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()

	saveTestQuestion(t, s, 1, true, "a", "b")

	const voters = 8
	const duplicates = 3

	var wg sync.WaitGroup
	errs := make(chan error, voters+duplicates)

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.RecordVote(ctx, 1, "b", fmt.Sprintf("voter-%d", i))
			errs <- err
		}(i)
	}
	for i := 0; i < duplicates; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RecordVote(ctx, 1, "a", "eager")
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	accepted, repeats := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, models.ErrAlreadyVoted):
			repeats++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if accepted != voters+1 || repeats != duplicates-1 {
		t.Errorf("Expected %d accepted and %d repeats, got %d and %d", voters+1, duplicates-1, accepted, repeats)
	}

	tally, err := s.Tally(ctx, 1)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if tally.AllAnswers[0] != 1 || tally.AllAnswers[1] != voters {
		t.Errorf("Expected tallies [1 %d], got %v", voters, tally.AllAnswers)
	}
}

func TestEmulatorFetchActiveQuestions(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()

	saveTestQuestion(t, s, 2, true, "x", "y")
	saveTestQuestion(t, s, 1, true, "a", "b")
	saveTestQuestion(t, s, 3, false, "a")

	if _, err := s.RecordVote(ctx, 1, "b", "voter-1"); err != nil {
		t.Fatalf("RecordVote() error = %v", err)
	}

	questions, err := s.FetchActiveQuestions(ctx, "voter-1")
	if err != nil {
		t.Fatalf("FetchActiveQuestions() error = %v", err)
	}
	if len(questions) != 2 || questions[0].ID != 1 || questions[1].ID != 2 {
		t.Fatalf("Expected active questions [1 2] in order, got %+v", questions)
	}
	if !questions[0].Answer.IsCurrentUserAnswered || questions[0].Answer.AllAnswers[1] != 1 {
		t.Errorf("Expected question 1 answered with one vote on b, got %+v", questions[0].Answer)
	}
	if questions[1].Answer.IsCurrentUserAnswered {
		t.Error("Expected question 2 unanswered")
	}

	// Re-saving merges and keeps the tally
	saveTestQuestion(t, s, 1, true, "a", "b")
	tally, err := s.Tally(ctx, 1)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if tally.AllAnswers[1] != 1 {
		t.Errorf("Expected tally kept after re-save, got %v", tally.AllAnswers)
	}

	if err := s.SetActive(ctx, 2, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	questions, err = s.FetchActiveQuestions(ctx, "voter-2")
	if err != nil {
		t.Fatalf("FetchActiveQuestions() error = %v", err)
	}
	if len(questions) != 1 || questions[0].ID != 1 || questions[0].Answer.IsCurrentUserAnswered {
		t.Errorf("Expected only unanswered question 1, got %+v", questions)
	}

	if err := s.SetActive(ctx, 42, true); !errors.Is(err, models.ErrQuestionNotFound) {
		t.Errorf("Expected ErrQuestionNotFound, got %v", err)
	}
}
