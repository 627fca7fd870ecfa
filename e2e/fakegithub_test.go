//go:build e2e && unix

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeGitHub serves the three endpoints the app talks to. Stars are
// returned in insertion order whatever sort is requested.
type fakeGitHub struct {
	login string
	token string

	URL string

	mu        sync.Mutex
	stars     []string
	unstarred []string
}

func newFakeGitHub(t *testing.T, token string, stars ...string) *fakeGitHub {
	t.Helper()
	f := &fakeGitHub{login: "octocat", token: token, stars: stars}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	f.URL = srv.URL + "/"
	return f
}

// Unstarred lists the owner/name of every DELETE received
func (f *fakeGitHub) Unstarred() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.unstarred...)
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+f.token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/user":
		writeJSON(w, http.StatusOK, map[string]any{"login": f.login, "id": 1})

	case r.Method == http.MethodGet && r.URL.Path == "/user/starred":
		f.listStarred(w, r)

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/user/starred/"):
		full := strings.TrimPrefix(r.URL.Path, "/user/starred/")
		f.mu.Lock()
		f.unstarred = append(f.unstarred, full)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

func (f *fakeGitHub) listStarred(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 30
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	out := []map[string]any{}
	starredAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := (page - 1) * perPage; i < len(f.stars) && i < page*perPage; i++ {
		owner, name, _ := strings.Cut(f.stars[i], "/")
		out = append(out, map[string]any{
			"starred_at": starredAt.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			"repo": map[string]any{
				"id":               i + 1,
				"name":             name,
				"full_name":        f.stars[i],
				"owner":            map[string]any{"login": owner},
				"html_url":         fmt.Sprintf("https://github.com/%s", f.stars[i]),
				"description":      "repository " + name,
				"language":         "Go",
				"stargazers_count": 1200 + i,
				"pushed_at":        starredAt.Format(time.RFC3339),
			},
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
