// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fsstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/danielhkuo/quickly-poll/models"
)

// Collection names
const (
	QuestionsCollection = "questions"
	BallotsCollection   = "ballots"
)

type optionDoc struct {
	Key  string `firestore:"key"`
	Text string `firestore:"text"`
}

// questionDoc is stored at questions/{id}. Tallies are keyed by option key.
type questionDoc struct {
	ID       int64            `firestore:"id"`
	Question string           `firestore:"question"`
	Options  []*optionDoc     `firestore:"options"`
	Tallies  map[string]int64 `firestore:"tallies"`
	Active   bool             `firestore:"active"`
}

// ballotDoc is stored at ballots/{questionID}_{voter}
type ballotDoc struct {
	QuestionID int64     `firestore:"questionID"`
	OptionKey  string    `firestore:"optionKey"`
	Voter      string    `firestore:"voter"`
	CastAt     time.Time `firestore:"castAt"`
}

// Votes on one question contend for its document
const voteAttempts = 20

// Store keeps questions and ballots in Cloud Firestore.
type Store struct {
	client *firestore.Client
}

// New initializes a Firebase app for projectID and opens its Firestore
// client. An empty credentialsFile uses application default credentials.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	return NewWithClient(client), nil
}

// NewWithClient wraps an existing client, such as one pointed at the
// emulator through FIRESTORE_EMULATOR_HOST.
func NewWithClient(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func questionRef(client *firestore.Client, questionID int) *firestore.DocumentRef {
	return client.Collection(QuestionsCollection).Doc(strconv.Itoa(questionID))
}

func ballotID(questionID int, voter string) string {
	return fmt.Sprintf("%d_%s", questionID, voter)
}

// toQuestion drops null options and aligns the tally with the rest
func toQuestion(d questionDoc) models.Question {
	opts := make([]*models.Option, len(d.Options))
	for i, o := range d.Options {
		if o != nil {
			opts[i] = &models.Option{Key: o.Key, Text: o.Text}
		}
	}

	q := models.Question{
		ID:       int(d.ID),
		Question: d.Question,
		Options:  models.CompactOptions(opts),
	}
	counts := make([]int, len(q.Options))
	for i, o := range q.Options {
		counts[i] = int(d.Tallies[o.Key])
	}
	q.Answer = &models.Answer{AllAnswers: counts}
	return q
}

// FetchActiveQuestions returns active questions ordered by ID. The voter's
// ballots are read in one batch.
func (s *Store) FetchActiveQuestions(ctx context.Context, voter string) ([]models.Question, error) {
	iter := s.client.Collection(QuestionsCollection).Where("active", "==", true).Documents(ctx)
	defer iter.Stop()

	var docs []questionDoc
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error listing questions: %w", err)
		}

		var d questionDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("error decoding question %s: %w", snap.Ref.ID, err)
		}
		docs = append(docs, d)
	}

	slices.SortFunc(docs, func(a, b questionDoc) int { return cmp.Compare(a.ID, b.ID) })

	questions := make([]models.Question, len(docs))
	for i, d := range docs {
		questions[i] = toQuestion(d)
	}

	if voter == "" || len(questions) == 0 {
		return questions, nil
	}

	refs := make([]*firestore.DocumentRef, len(questions))
	for i, q := range questions {
		refs[i] = s.client.Collection(BallotsCollection).Doc(ballotID(q.ID, voter))
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("error reading ballots: %w", err)
	}
	for i, snap := range snaps {
		questions[i].Answer.IsCurrentUserAnswered = snap.Exists()
	}

	return questions, nil
}

// RecordVote creates the voter's ballot and increments the option tally in
// one transaction. An existing ballot yields models.ErrAlreadyVoted.
func (s *Store) RecordVote(ctx context.Context, questionID int, optionKey, voter string) (models.Answer, error) {
	qref := questionRef(s.client, questionID)
	bref := s.client.Collection(BallotsCollection).Doc(ballotID(questionID, voter))

	var answer models.Answer
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		qsnap, err := tx.Get(qref)
		if status.Code(err) == codes.NotFound {
			return models.ErrQuestionNotFound
		}
		if err != nil {
			return err
		}

		var d questionDoc
		if err := qsnap.DataTo(&d); err != nil {
			return err
		}
		if !d.Active {
			return models.ErrQuestionNotFound
		}

		q := toQuestion(d)
		idx := q.OptionIndex(optionKey)
		if idx < 0 {
			return models.ErrUnknownOption
		}

		_, err = tx.Get(bref)
		if err == nil {
			return models.ErrAlreadyVoted
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		err = tx.Create(bref, ballotDoc{
			QuestionID: int64(questionID),
			OptionKey:  optionKey,
			Voter:      voter,
			CastAt:     time.Now(),
		})
		if err != nil {
			return err
		}

		err = tx.Update(qref, []firestore.Update{
			{FieldPath: firestore.FieldPath{"tallies", optionKey}, Value: firestore.Increment(1)},
		})
		if err != nil {
			return err
		}

		answer = q.Answer.Clone()
		answer.AllAnswers[idx]++
		answer.IsCurrentUserAnswered = true
		return nil
	}, firestore.MaxAttempts(voteAttempts))
	if err != nil {
		return models.Answer{}, err
	}

	return answer, nil
}

// Tally returns the public counts for a question, active or not.
func (s *Store) Tally(ctx context.Context, questionID int) (models.Answer, error) {
	snap, err := questionRef(s.client, questionID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.Answer{}, models.ErrQuestionNotFound
	}
	if err != nil {
		return models.Answer{}, fmt.Errorf("error reading question %d: %w", questionID, err)
	}

	var d questionDoc
	if err := snap.DataTo(&d); err != nil {
		return models.Answer{}, fmt.Errorf("error decoding question %d: %w", questionID, err)
	}
	return *toQuestion(d).Answer, nil
}

// SaveQuestion writes a question's text, options and active flag, merging
// into any existing document so tallies are kept.
func (s *Store) SaveQuestion(ctx context.Context, q models.Question, active bool) error {
	if _, err := q.Normalize(); err != nil {
		return err
	}

	opts := make([]map[string]interface{}, len(q.Options))
	for i, o := range q.Options {
		opts[i] = map[string]interface{}{"key": o.Key, "text": o.Text}
	}

	_, err := questionRef(s.client, q.ID).Set(ctx, map[string]interface{}{
		"id":       q.ID,
		"question": q.Question,
		"options":  opts,
		"active":   active,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("error saving question %d: %w", q.ID, err)
	}
	return nil
}

func (s *Store) SetActive(ctx context.Context, questionID int, active bool) error {
	_, err := questionRef(s.client, questionID).Update(ctx, []firestore.Update{
		{Path: "active", Value: active},
	})
	if status.Code(err) == codes.NotFound {
		return models.ErrQuestionNotFound
	}
	if err != nil {
		return fmt.Errorf("error updating question %d: %w", questionID, err)
	}
	return nil
}
