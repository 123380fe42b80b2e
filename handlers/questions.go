// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/polls/middleware"
	"github.com/danielhkuo/polls/models"
	"github.com/danielhkuo/polls/store"
	"github.com/danielhkuo/polls/urls"
)

// ErrNotFound is returned by handlers for missing or hidden questions
var ErrNotFound = errors.New("question not found")

// Store is the persistence the polls pages need
type Store interface {
	LatestQuestions(ctx context.Context, now time.Time, limit int) ([]models.Question, error)
	GetQuestion(ctx context.Context, id int64) (models.Question, error)
	GetPublishedQuestion(ctx context.Context, id int64, now time.Time) (models.Question, error)
	ListChoices(ctx context.Context, questionID int64) ([]models.Choice, error)
	Vote(ctx context.Context, questionID, choiceID int64) error
}

type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

type Reverser interface {
	Reverse(name string, args ...any) (string, error)
}

// Result is what a handler decided: a page to render or a redirect
type Result struct {
	Template   string
	Data       any
	RedirectTo string
}

type HandlerFunc func(r *http.Request) (Result, error)

type QuestionHandler struct {
	store  Store
	render Renderer
	urls   Reverser
	now    func() time.Time
}

func NewQuestionHandler(st Store, render Renderer, rev Reverser) *QuestionHandler {
	return &QuestionHandler{store: st, render: render, urls: rev, now: time.Now}
}

// WithClock replaces the time source used to decide what is published
func (h *QuestionHandler) WithClock(now func() time.Time) *QuestionHandler {
	h.now = now
	return h
}

// Serve adapts a HandlerFunc to net/http. ErrNotFound becomes 404, any
// other error a logged 500.
func (h *QuestionHandler) Serve(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r)
		if errors.Is(err, ErrNotFound) {
			slog.Debug("question not found", "path", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("request failed",
				"request_id", middleware.RequestID(r.Context()),
				"path", r.URL.Path,
				"error", err,
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if res.RedirectTo != "" {
			http.Redirect(w, r, res.RedirectTo, http.StatusFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.render.Render(w, res.Template, res.Data); err != nil {
			slog.Error("failed to render page", "template", res.Template, "error", err)
			w.Header().Del("Content-Type")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// Index handles GET /
func (h *QuestionHandler) Index(r *http.Request) (Result, error) {
	now := h.now()
	questions, err := h.store.LatestQuestions(r.Context(), now, models.LatestQuestionsLimit)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Template: "index.html",
		Data:     models.IndexPage{LatestQuestions: questions, Now: now},
	}, nil
}

// Detail handles GET /{question_id}/
func (h *QuestionHandler) Detail(r *http.Request) (Result, error) {
	q, err := h.publishedQuestion(r)
	if err != nil {
		return Result{}, err
	}
	return h.questionPage(r, "detail.html", q, "")
}

// Results handles GET /{question_id}/results/
// Unlike Detail, unpublished questions are shown here.
func (h *QuestionHandler) Results(r *http.Request) (Result, error) {
	id, err := questionID(r)
	if err != nil {
		return Result{}, err
	}

	q, err := h.store.GetQuestion(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, err
	}
	return h.questionPage(r, "results.html", q, "")
}

// Vote handles POST /{question_id}/vote/
func (h *QuestionHandler) Vote(r *http.Request) (Result, error) {
	q, err := h.publishedQuestion(r)
	if err != nil {
		return Result{}, err
	}

	raw := r.PostFormValue("choice")
	choiceID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Info("vote rejected", "question_id", q.ID, "choice", raw, "reason", "missing or malformed choice")
		return h.questionPage(r, "detail.html", q, models.MsgNoChoiceSelected)
	}

	err = h.store.Vote(r.Context(), q.ID, choiceID)
	if errors.Is(err, store.ErrNotFound) {
		slog.Info("vote rejected", "question_id", q.ID, "choice", choiceID, "reason", "unknown choice")
		return h.questionPage(r, "detail.html", q, models.MsgNoChoiceSelected)
	}
	if err != nil {
		return Result{}, err
	}

	slog.Info("vote recorded", "question_id", q.ID, "choice_id", choiceID)

	target, err := h.urls.Reverse("polls:results", q.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve results url: %w", err)
	}
	return Result{RedirectTo: target}, nil
}

func (h *QuestionHandler) publishedQuestion(r *http.Request) (models.Question, error) {
	id, err := questionID(r)
	if err != nil {
		return models.Question{}, err
	}

	q, err := h.store.GetPublishedQuestion(r.Context(), id, h.now())
	if errors.Is(err, store.ErrNotFound) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, err
	}
	return q, nil
}

func (h *QuestionHandler) questionPage(r *http.Request, tmpl string, q models.Question, errMsg string) (Result, error) {
	choices, err := h.store.ListChoices(r.Context(), q.ID)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Template: tmpl,
		Data: models.QuestionPage{
			Question:     q,
			Choices:      choices,
			ErrorMessage: errMsg,
			CSRFToken:    middleware.CSRFToken(r.Context()),
		},
	}, nil
}

// questionID reads the question_id capture; ids that overflow are not found
func questionID(r *http.Request) (int64, error) {
	id, err := urls.PathInt(r, "question_id")
	if err != nil {
		return 0, ErrNotFound
	}
	return id, nil
}
