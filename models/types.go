// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Number of questions shown on the index page
const LatestQuestionsLimit = 5

// Shown on the detail page when a vote names no valid choice
const MsgNoChoiceSelected = "You didn't select a choice."

// Domain types

type Question struct {
	ID           int64
	QuestionText string
	PubDate      time.Time
}

// IsPublished reports whether the question is visible at now.
func (q Question) IsPublished(now time.Time) bool {
	return !q.PubDate.After(now)
}

// WasPublishedRecently reports whether the question went public within
// the last day. Future questions are never recent.
func (q Question) WasPublishedRecently(now time.Time) bool {
	return !q.PubDate.Before(now.Add(-24*time.Hour)) && q.IsPublished(now)
}

func (q Question) String() string {
	return q.QuestionText
}

type Choice struct {
	ID         int64
	QuestionID int64
	ChoiceText string
	Votes      int
}

func (c Choice) String() string {
	return c.ChoiceText
}

// Page types

type IndexPage struct {
	LatestQuestions []Question
	Now             time.Time
}

type QuestionPage struct {
	Question     Question
	Choices      []Choice
	ErrorMessage string
	CSRFToken    string
}
