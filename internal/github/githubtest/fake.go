// Package githubtest provides an in-memory github.Client for tests
package githubtest

import (
	"context"
	"fmt"
	"sync"

	"starcleaner/internal/domain"
	"starcleaner/internal/github"
)

// Client is a github.Client whose behavior is set through function fields.
// Unset functions succeed with zero values.
type Client struct {
	ValidateFunc  func(ctx context.Context) (string, error)
	FetchPageFunc func(ctx context.Context, page, perPage int, sort domain.Sort) ([]domain.Repository, bool, error)
	UnstarFunc    func(ctx context.Context, ref domain.RepoRef) error

	mu        sync.Mutex
	calls     []string
	forgotten int
}

var _ github.Client = (*Client)(nil)

func (c *Client) record(call string) {
	c.mu.Lock()
	c.calls = append(c.calls, call)
	c.mu.Unlock()
}

// Calls returns the recorded calls, e.g. "validate", "fetch 2 Pushed ↑", "unstar o/r"
func (c *Client) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Forgotten returns how often Forget was called
func (c *Client) Forgotten() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forgotten
}

func (c *Client) Validate(ctx context.Context) (string, error) {
	c.record("validate")
	if c.ValidateFunc != nil {
		return c.ValidateFunc(ctx)
	}
	return "octocat", nil
}

func (c *Client) FetchPage(ctx context.Context, page, perPage int, sort domain.Sort) ([]domain.Repository, bool, error) {
	c.record(fmt.Sprintf("fetch %d %s", page, sort))
	if c.FetchPageFunc != nil {
		return c.FetchPageFunc(ctx, page, perPage, sort)
	}
	return nil, false, nil
}

func (c *Client) Unstar(ctx context.Context, ref domain.RepoRef) error {
	c.record("unstar " + ref.String())
	if c.UnstarFunc != nil {
		return c.UnstarFunc(ctx, ref)
	}
	return nil
}

// UnstarMany follows the same contract as github.Service: sequential, and
// nothing is sent after an AuthError
func (c *Client) UnstarMany(ctx context.Context, refs []domain.RepoRef) []github.UnstarResult {
	results := make([]github.UnstarResult, 0, len(refs))
	var authErr error
	for _, ref := range refs {
		if authErr != nil {
			results = append(results, github.UnstarResult{Ref: ref, Err: authErr})
			continue
		}
		err := c.Unstar(ctx, ref)
		if github.IsAuthError(err) {
			authErr = err
		}
		results = append(results, github.UnstarResult{Ref: ref, Err: err})
	}
	return results
}

func (c *Client) Forget() {
	c.mu.Lock()
	c.forgotten++
	c.mu.Unlock()
}

// Factory returns a github.Factory that hands out c for any well-formed token
func Factory(c *Client) github.Factory {
	return func(token string) (github.Client, error) {
		if token == "" {
			return nil, &github.ConfigError{Reason: "empty token"}
		}
		return c, nil
	}
}

// Repos builds n repositories with ids start..start+n-1 under owner "o"
func Repos(start int64, n int) []domain.Repository {
	out := make([]domain.Repository, 0, n)
	for i := 0; i < n; i++ {
		id := start + int64(i)
		name := fmt.Sprintf("r%d", id)
		out = append(out, domain.Repository{
			ID:           id,
			Owner:        "o",
			Name:         name,
			FullName:     "o/" + name,
			StarredOrder: i,
		})
	}
	return out
}

// Paged serves total repositories in pages of the requested size
func Paged(total int) func(ctx context.Context, page, perPage int, sort domain.Sort) ([]domain.Repository, bool, error) {
	return func(_ context.Context, page, perPage int, _ domain.Sort) ([]domain.Repository, bool, error) {
		from := (page - 1) * perPage
		if from >= total {
			return []domain.Repository{}, false, nil
		}
		n := min(perPage, total-from)
		repos := Repos(int64(from+1), n)
		for i := range repos {
			repos[i].StarredOrder = domain.StarredOrder(page, perPage, i)
		}
		return repos, n == perPage, nil
	}
}
