// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/danielhkuo/polls/cliparse"
	"github.com/danielhkuo/polls/handlers"
	"github.com/danielhkuo/polls/middleware"
	"github.com/danielhkuo/polls/render"
	"github.com/danielhkuo/polls/store"
	"github.com/danielhkuo/polls/templates"
	"github.com/danielhkuo/polls/urls"
)

// Namespace of the polls route names, as in "polls:detail"
const Namespace = "polls"

func NewRouter(db *sql.DB, cfg cliparse.Config) (http.Handler, error) {
	return New(store.New(db, cfg.DatabaseType), cfg, time.Now)
}

// New wires the polls app around an explicit store and clock
func New(st handlers.Store, cfg cliparse.Config, now func() time.Time) (http.Handler, error) {
	resolver := PollsURLs(cfg.Prefix)

	renderer, err := render.New(templates.FS, resolver.Reverse)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	h := handlers.NewQuestionHandler(st, renderer, resolver).WithClock(now)

	// Order matters: first match wins
	resolver.Handle("", "index", h.Serve(h.Index), http.MethodGet, http.MethodHead)
	resolver.Handle("{question_id:int}/", "detail", h.Serve(h.Detail), http.MethodGet, http.MethodHead)
	resolver.Handle("{question_id:int}/results/", "results", h.Serve(h.Results), http.MethodGet, http.MethodHead)
	resolver.Handle("{question_id:int}/vote/", "vote", h.Serve(h.Vote), http.MethodPost)

	app := http.NewServeMux()
	app.Handle(resolver.Prefix(), resolver)
	if resolver.Prefix() != "/" {
		app.Handle("GET /{$}", http.RedirectHandler(resolver.Prefix(), http.StatusFound))
	}

	mux := http.NewServeMux()

	// Health check, outside CSRF so probes get no cookie
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("/", middleware.CSRF(cfg.CSRFSecret)(app))

	return middleware.WithLogging(middleware.Recover(mux).ServeHTTP), nil
}

// PollsURLs returns an empty resolver for the polls namespace
func PollsURLs(prefix string) *urls.Resolver {
	return urls.New(prefix, Namespace)
}
