// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/polls/db"
	"github.com/danielhkuo/polls/models"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db      *sql.DB
	dialect string
}

func New(conn *sql.DB, dialect string) *Store {
	return &Store{db: conn, dialect: dialect}
}

// rebind rewrites ? placeholders to $n for postgres
func (s *Store) rebind(query string) string {
	if s.dialect != db.DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LatestQuestions returns up to limit questions published at or before now,
// newest first.
func (s *Store) LatestQuestions(ctx context.Context, now time.Time, limit int) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, question_text, pub_date
		FROM polls_question
		WHERE pub_date <= ?
		ORDER BY pub_date DESC, id DESC
		LIMIT ?
	`), now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.PubDate); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}

	return questions, nil
}

// GetQuestion looks a question up by id regardless of its publication date.
func (s *Store) GetQuestion(ctx context.Context, id int64) (models.Question, error) {
	var q models.Question
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, question_text, pub_date FROM polls_question WHERE id = ?
	`), id).Scan(&q.ID, &q.QuestionText, &q.PubDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question %d: %w", id, err)
	}
	return q, nil
}

// GetPublishedQuestion is GetQuestion restricted to questions published at
// or before now. Unpublished questions are reported as ErrNotFound.
func (s *Store) GetPublishedQuestion(ctx context.Context, id int64, now time.Time) (models.Question, error) {
	var q models.Question
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT id, question_text, pub_date FROM polls_question WHERE id = ? AND pub_date <= ?
	`), id, now.UTC()).Scan(&q.ID, &q.QuestionText, &q.PubDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question %d: %w", id, err)
	}
	return q, nil
}

// ListChoices returns the choices of a question ordered by id.
func (s *Store) ListChoices(ctx context.Context, questionID int64) ([]models.Choice, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, question_id, choice_text, votes
		FROM polls_choice
		WHERE question_id = ?
		ORDER BY id
	`), questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	choices := []models.Choice{}
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate choices: %w", err)
	}

	return choices, nil
}

// Vote adds one vote to a choice of the given question. The increment is a
// single UPDATE so concurrent votes never overwrite each other. A choice that
// does not exist or belongs to another question yields ErrNotFound.
func (s *Store) Vote(ctx context.Context, questionID, choiceID int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE polls_choice SET votes = votes + 1 WHERE id = ? AND question_id = ?
	`), choiceID, questionID)
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateQuestion inserts a question and returns it with its assigned id.
func (s *Store) CreateQuestion(ctx context.Context, text string, pubDate time.Time) (models.Question, error) {
	if text == "" {
		return models.Question{}, errors.New("question text is required")
	}

	q := models.Question{QuestionText: text, PubDate: pubDate.UTC()}
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO polls_question (question_text, pub_date) VALUES (?, ?) RETURNING id
	`), q.QuestionText, q.PubDate).Scan(&q.ID)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to insert question: %w", err)
	}
	return q, nil
}

// CreateChoice inserts a choice under an existing question.
func (s *Store) CreateChoice(ctx context.Context, questionID int64, text string, votes int) (models.Choice, error) {
	if text == "" {
		return models.Choice{}, errors.New("choice text is required")
	}
	if votes < 0 {
		return models.Choice{}, errors.New("votes must not be negative")
	}

	c := models.Choice{QuestionID: questionID, ChoiceText: text, Votes: votes}
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO polls_choice (question_id, choice_text, votes) VALUES (?, ?, ?) RETURNING id
	`), c.QuestionID, c.ChoiceText, c.Votes).Scan(&c.ID)
	if err != nil {
		return models.Choice{}, fmt.Errorf("failed to insert choice: %w", err)
	}
	return c, nil
}
