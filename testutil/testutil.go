// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/polls/cliparse"
	"github.com/danielhkuo/polls/db"
	"github.com/danielhkuo/polls/models"
	"github.com/danielhkuo/polls/store"
)

// Now is the fixed clock used by handler tests
var Now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// Clock returns Now
func Clock() time.Time { return Now }

// SetupTestDB creates a fresh in-memory database with the full schema.
// A single connection is shared so every query sees the same database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore wraps SetupTestDB in a Store and closes it on cleanup
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	conn := SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })
	return store.New(conn, db.DialectSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: cliparse.DatabaseSQLite,
		Prefix:       "/polls/",
		CSRFSecret:   "test-csrf-secret",
	}
}

// CreateTestQuestion creates a question published offset away from Now.
// Negative offsets are in the past, positive ones in the future.
func CreateTestQuestion(t *testing.T, st *store.Store, text string, offset time.Duration) models.Question {
	t.Helper()

	q, err := st.CreateQuestion(context.Background(), text, Now.Add(offset))
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return q
}

// AddTestChoice adds a choice with a starting vote count
func AddTestChoice(t *testing.T, st *store.Store, questionID int64, text string, votes int) models.Choice {
	t.Helper()

	c, err := st.CreateChoice(context.Background(), questionID, text, votes)
	if err != nil {
		t.Fatalf("Failed to create test choice: %v", err)
	}
	return c
}

// VoteCounts returns choice id -> votes for a question
func VoteCounts(t *testing.T, st *store.Store, questionID int64) map[int64]int {
	t.Helper()

	choices, err := st.ListChoices(context.Background(), questionID)
	if err != nil {
		t.Fatalf("Failed to list choices: %v", err)
	}

	counts := make(map[int64]int, len(choices))
	for _, c := range choices {
		counts[c.ID] = c.Votes
	}
	return counts
}

// MakeFormRequest creates an HTTP test request with a url-encoded body
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertBodyContains checks that the response body contains every substring
func AssertBodyContains(t *testing.T, w *httptest.ResponseRecorder, substrings ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range substrings {
		if !strings.Contains(body, s) {
			t.Errorf("Expected body to contain %q. Body: %s", s, body)
		}
	}
}

// AssertBodyNotContains checks that the response body contains none of the substrings
func AssertBodyNotContains(t *testing.T, w *httptest.ResponseRecorder, substrings ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range substrings {
		if strings.Contains(body, s) {
			t.Errorf("Expected body not to contain %q. Body: %s", s, body)
		}
	}
}
