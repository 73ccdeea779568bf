// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-poll/models"
)

// SQLStore keeps questions and votes in a SQL database created by
// db.CreateSchema. It works with both SQLite and PostgreSQL.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// FetchActiveQuestions returns every active question in ID order with its
// tally. IsCurrentUserAnswered is set for questions voter has voted on.
func (s *SQLStore) FetchActiveQuestions(ctx context.Context, voter string) ([]models.Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT q.id, q.question, o.option_key, o.label, COUNT(v.id)
		FROM question q
		LEFT JOIN question_option o ON o.question_id = q.id
		LEFT JOIN vote v ON v.question_id = o.question_id AND v.option_key = o.option_key
		WHERE q.active = TRUE
		GROUP BY q.id, q.question, o.option_key, o.label, o.ordinal
		ORDER BY q.id, o.ordinal, o.option_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var (
			id         int
			text       string
			key, label sql.NullString
			count      int
		)
		if err := rows.Scan(&id, &text, &key, &label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}

		if len(questions) == 0 || questions[len(questions)-1].ID != id {
			questions = append(questions, models.Question{
				ID:       id,
				Question: text,
				Options:  []models.Option{},
				Answer:   &models.Answer{AllAnswers: []int{}},
			})
		}
		if !key.Valid {
			continue
		}

		q := &questions[len(questions)-1]
		q.Options = append(q.Options, models.Option{Key: key.String, Text: label.String})
		q.Answer.AllAnswers = append(q.Answer.AllAnswers, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}
	rows.Close()

	if voter == "" || len(questions) == 0 {
		return questions, nil
	}

	voted, err := votedQuestions(ctx, tx, voter)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Answer.IsCurrentUserAnswered = voted[questions[i].ID]
	}

	return questions, nil
}

func votedQuestions(ctx context.Context, q queryer, voter string) (map[int]bool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT v.question_id
		FROM vote v
		JOIN question q ON q.id = v.question_id
		WHERE v.voter = $1 AND q.active = TRUE
	`, voter)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	voted := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		voted[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}
	return voted, nil
}

// tally counts votes per option, aligned with the option order
func tally(ctx context.Context, q queryer, questionID int) ([]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT COUNT(v.id)
		FROM question_option o
		LEFT JOIN vote v ON v.question_id = o.question_id AND v.option_key = o.option_key
		WHERE o.question_id = $1
		GROUP BY o.option_key, o.ordinal
		ORDER BY o.ordinal, o.option_key
	`, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tally: %w", err)
	}
	defer rows.Close()

	counts := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		counts = append(counts, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tally: %w", err)
	}
	return counts, nil
}

// RecordVote stores one vote and returns the updated tally. The vote row
// insert is the tally increment; the UNIQUE (question_id, voter) constraint
// turns a repeat vote into models.ErrAlreadyVoted.
func (s *SQLStore) RecordVote(ctx context.Context, questionID int, optionKey, voter string) (models.Answer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var active bool
	err = tx.QueryRowContext(ctx, `SELECT active FROM question WHERE id = $1`, questionID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
		return models.Answer{}, models.ErrQuestionNotFound
	}
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to query question: %w", err)
	}

	var exists int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM question_option WHERE question_id = $1 AND option_key = $2
	`, questionID, optionKey).Scan(&exists)
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to query option: %w", err)
	}
	if exists == 0 {
		return models.Answer{}, models.ErrUnknownOption
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO vote (id, question_id, option_key, voter)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (question_id, voter) DO NOTHING
	`, uuid.NewString(), questionID, optionKey, voter)
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to insert vote: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to insert vote: %w", err)
	}
	if inserted == 0 {
		return models.Answer{}, models.ErrAlreadyVoted
	}

	counts, err := tally(ctx, tx, questionID)
	if err != nil {
		return models.Answer{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Answer{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	return models.Answer{AllAnswers: counts, IsCurrentUserAnswered: true}, nil
}

// Tally returns the public counts for a question, active or not.
func (s *SQLStore) Tally(ctx context.Context, questionID int) (models.Answer, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `SELECT id FROM question WHERE id = $1`, questionID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Answer{}, models.ErrQuestionNotFound
	}
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to query question: %w", err)
	}

	counts, err := tally(ctx, s.db, questionID)
	if err != nil {
		return models.Answer{}, err
	}
	return models.Answer{AllAnswers: counts}, nil
}

// SaveQuestion inserts or updates a question and its options. Options are
// upserted by key and never removed, so recorded votes stay valid. An option
// dropped from q stays on the ballot at its previous ordinal.
func (s *SQLStore) SaveQuestion(ctx context.Context, q models.Question, active bool) error {
	if _, err := q.Normalize(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO question (id, question, active)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET question = excluded.question, active = excluded.active
	`, q.ID, q.Question, active)
	if err != nil {
		return fmt.Errorf("failed to save question %d: %w", q.ID, err)
	}

	for i, o := range q.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO question_option (question_id, ordinal, option_key, label)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (question_id, option_key) DO UPDATE SET ordinal = excluded.ordinal, label = excluded.label
		`, q.ID, i, o.Key, o.Text)
		if err != nil {
			return fmt.Errorf("failed to save option %q of question %d: %w", o.Key, q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit question %d: %w", q.ID, err)
	}
	return nil
}

// SetActive opens or retires a question.
func (s *SQLStore) SetActive(ctx context.Context, questionID int, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE question SET active = $1 WHERE id = $2`, active, questionID)
	if err != nil {
		return fmt.Errorf("failed to update question %d: %w", questionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update question %d: %w", questionID, err)
	}
	if n == 0 {
		return models.ErrQuestionNotFound
	}
	return nil
}
