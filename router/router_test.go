// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/polls/middleware"
	"github.com/danielhkuo/polls/store"
	"github.com/danielhkuo/polls/testutil"
)

var csrfFieldRe = regexp.MustCompile(`name="csrfmiddlewaretoken" value="([^"]+)"`)

func newTestServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()

	st := testutil.SetupTestStore(t)
	handler, err := New(st, testutil.GetTestConfig(), testutil.Clock)
	if err != nil {
		t.Fatalf("Failed to build router: %v", err)
	}
	return handler, st
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestServer(t)

	w := serve(mux, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestHealthEndpoint_NoCSRFCookie(t *testing.T) {
	mux, _ := newTestServer(t)

	w := serve(mux, httptest.NewRequest("GET", "/health", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.CSRFCookieName {
			t.Errorf("health check should not set %s cookie", c.Name)
		}
	}

	// Pages still get one
	w = serve(mux, httptest.NewRequest("GET", "/polls/", nil))
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.CSRFCookieName {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s cookie on index page", middleware.CSRFCookieName)
	}
}

func TestRootRedirectsToPolls(t *testing.T) {
	mux, _ := newTestServer(t)

	w := serve(mux, httptest.NewRequest("GET", "/", nil))

	testutil.AssertStatus(t, w, http.StatusFound)
	if loc := w.Header().Get("Location"); loc != "/polls/" {
		t.Errorf("Expected redirect to /polls/, got %q", loc)
	}
}

func TestRouteTable(t *testing.T) {
	mux, st := newTestServer(t)
	q := testutil.CreateTestQuestion(t, st, "Q?", -time.Hour)
	id := strconv.FormatInt(q.ID, 10)

	testCases := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/polls/", http.StatusOK},
		{"GET", "/polls/" + id + "/", http.StatusOK},
		{"GET", "/polls/" + id + "/results/", http.StatusOK},
		{"HEAD", "/polls/" + id + "/", http.StatusOK},
		{"GET", "/polls/999/", http.StatusNotFound},
		{"GET", "/polls/abc/", http.StatusNotFound},
		{"GET", "/polls/" + id + "/unknown/", http.StatusNotFound},
		{"GET", "/polls/" + id + "/vote/", http.StatusMethodNotAllowed},
		{"GET", "/polls/" + id, http.StatusMovedPermanently},
		{"GET", "/polls", http.StatusMovedPermanently},
		{"GET", "/elsewhere", http.StatusNotFound},
		// POST without a CSRF token is refused before the handler runs
		{"POST", "/polls/" + id + "/vote/", http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := serve(mux, httptest.NewRequest(tc.method, tc.path, nil))
			testutil.AssertStatus(t, w, tc.status)
		})
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	mux, _ := newTestServer(t)

	w := serve(mux, httptest.NewRequest("GET", "/polls/", nil))

	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("Expected a request id header")
	}
}

// TestVoteFlow walks the pages a browser would: detail, vote, results
func TestVoteFlow(t *testing.T) {
	mux, st := newTestServer(t)
	q := testutil.CreateTestQuestion(t, st, "Q?", -time.Hour)
	a := testutil.AddTestChoice(t, st, q.ID, "A", 0)
	b := testutil.AddTestChoice(t, st, q.ID, "B", 3)
	base := "/polls/" + strconv.FormatInt(q.ID, 10) + "/"

	// Detail page hands out the cookie and the form token
	w := serve(mux, httptest.NewRequest("GET", base, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.CSRFCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("Expected csrftoken cookie")
	}
	m := csrfFieldRe.FindStringSubmatch(w.Body.String())
	if m == nil {
		t.Fatalf("Expected csrf field in form. Body: %s", w.Body.String())
	}
	token := m[1]

	vote := func(choice string) *httptest.ResponseRecorder {
		form := url.Values{middleware.CSRFFormField: {token}}
		if choice != "" {
			form.Set("choice", choice)
		}
		req := testutil.MakeFormRequest("POST", base+"vote/", form)
		req.AddCookie(cookie)
		return serve(mux, req)
	}

	// Valid vote redirects to results
	w = vote(strconv.FormatInt(b.ID, 10))
	testutil.AssertStatus(t, w, http.StatusFound)
	if loc := w.Header().Get("Location"); loc != base+"results/" {
		t.Errorf("Expected redirect to %sresults/, got %q", base, loc)
	}

	// Missing choice re-renders the form with the message
	w = vote("")
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, "You didn&#39;t select a choice.")

	w = serve(mux, httptest.NewRequest("GET", base+"results/", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, "A -- 0 votes", "B -- 4 votes")

	counts := testutil.VoteCounts(t, st, q.ID)
	if counts[a.ID] != 0 || counts[b.ID] != 4 {
		t.Errorf("Expected votes 0 and 4, got %d and %d", counts[a.ID], counts[b.ID])
	}
}

func TestVote_ForgedTokenRejected(t *testing.T) {
	mux, st := newTestServer(t)
	q := testutil.CreateTestQuestion(t, st, "Q?", -time.Hour)
	c := testutil.AddTestChoice(t, st, q.ID, "A", 0)

	form := url.Values{
		"choice":                 {strconv.FormatInt(c.ID, 10)},
		middleware.CSRFFormField: {"forged"},
	}
	req := testutil.MakeFormRequest("POST", "/polls/"+strconv.FormatInt(q.ID, 10)+"/vote/", form)
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: "nonce"})

	w := serve(mux, req)

	testutil.AssertStatus(t, w, http.StatusForbidden)
	if got := testutil.VoteCounts(t, st, q.ID)[c.ID]; got != 0 {
		t.Errorf("Expected no vote recorded, got %d", got)
	}
}

func TestIndexLinksUseReverseLookup(t *testing.T) {
	st := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	cfg.Prefix = "/apps/polls/"
	mux, err := New(st, cfg, testutil.Clock)
	if err != nil {
		t.Fatal(err)
	}
	q := testutil.CreateTestQuestion(t, st, "Q?", -time.Hour)

	w := serve(mux, httptest.NewRequest("GET", "/apps/polls/", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	want := `href="/apps/polls/` + strconv.FormatInt(q.ID, 10) + `/"`
	if !strings.Contains(w.Body.String(), want) {
		t.Errorf("Expected %s in body. Body: %s", want, w.Body.String())
	}
}

func TestPollsURLs_Reverse(t *testing.T) {
	resolver := PollsURLs("/polls/")
	resolver.Handle("{question_id:int}/results/", "results", func(http.ResponseWriter, *http.Request) {})

	got, err := resolver.Reverse(Namespace+":results", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "/polls/1/results/" {
		t.Errorf("Expected /polls/1/results/, got %q", got)
	}
}
