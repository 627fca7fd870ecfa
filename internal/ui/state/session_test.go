package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starcleaner/internal/domain"
	"starcleaner/internal/github"
	"starcleaner/internal/github/githubtest"
)

func fetch(t *testing.T, page, perPage, total int) ([]domain.Repository, bool) {
	t.Helper()
	repos, hasMore, err := githubtest.Paged(total)(context.Background(), page, perPage, domain.Sort{})
	require.NoError(t, err)
	return repos, hasMore
}

func TestBeginLoadGuardsAgainstConcurrentFetches(t *testing.T) {
	s, _, _ := listState(t, 2)
	s.ToggleSelected(1)

	gen, ok := s.BeginLoad()
	require.True(t, ok)
	assert.True(t, s.Loading)
	assert.Empty(t, s.Repositories)
	assert.Zero(t, s.SelectionCount())
	assert.Equal(t, 1, s.CurrentPage)
	assert.True(t, s.HasMore)

	_, ok = s.BeginLoad()
	assert.False(t, ok)
	assert.Equal(t, gen, s.Generation)

	s.Loading = false
	s.LoadingMore = true
	_, ok = s.BeginLoad()
	assert.False(t, ok)
}

func TestReloadKeepsSession(t *testing.T) {
	s, _, _ := listState(t, 2)
	session := s.Session

	_, ok := s.BeginLoad()
	require.True(t, ok)
	assert.True(t, s.InSession(session))
}

func TestPaginationAppendsInServerOrder(t *testing.T) {
	s, _, _ := newState(t, "ghp_x")

	gen, ok := s.BeginLoad()
	require.True(t, ok)
	repos, hasMore := fetch(t, 1, 100, 140)
	require.True(t, s.ApplyFirstPage(gen, repos, hasMore))
	assert.True(t, s.HasMore)
	assert.Equal(t, ScreenRepositoryList, s.Screen)

	page, gen, ok := s.BeginLoadMore()
	require.True(t, ok)
	assert.Equal(t, 2, page)
	_, _, ok = s.BeginLoadMore()
	assert.False(t, ok, "second load more while one is in flight")

	repos, hasMore = fetch(t, page, 100, 140)
	require.True(t, s.ApplyNextPage(gen, page, repos, hasMore))
	assert.False(t, s.HasMore)
	assert.Equal(t, 2, s.CurrentPage)
	require.Len(t, s.Repositories, 140)
	for i, r := range s.Repositories {
		assert.Equal(t, int64(i+1), r.ID)
		assert.Equal(t, i, r.StarredOrder)
	}

	_, _, ok = s.BeginLoadMore()
	assert.False(t, ok, "no more pages")
}

func TestExactMultipleFetchesOneEmptyPage(t *testing.T) {
	s, _, _ := newState(t, "ghp_x")

	gen, _ := s.BeginLoad()
	repos, hasMore := fetch(t, 1, 50, 100)
	s.ApplyFirstPage(gen, repos, hasMore)

	page, gen, ok := s.BeginLoadMore()
	require.True(t, ok)
	repos, hasMore = fetch(t, page, 50, 100)
	s.ApplyNextPage(gen, page, repos, hasMore)
	assert.True(t, s.HasMore)

	page, gen, ok = s.BeginLoadMore()
	require.True(t, ok)
	repos, hasMore = fetch(t, page, 50, 100)
	require.True(t, s.ApplyNextPage(gen, page, repos, hasMore))
	assert.False(t, s.HasMore)
	assert.Len(t, s.Repositories, 100)
	assert.Empty(t, s.Error)
	assert.Equal(t, 3, s.CurrentPage)
}

func TestCurrentPageOnlyAdvancesOnSuccess(t *testing.T) {
	s, _, _ := listState(t, 0)
	s.HasMore = true

	page, gen, ok := s.BeginLoadMore()
	require.True(t, ok)
	require.True(t, s.FailLoad(gen, &github.TransportError{Op: "fetch", Err: context.DeadlineExceeded}, "Failed to load more"))
	assert.Equal(t, 1, s.CurrentPage)
	assert.False(t, s.LoadingMore)
	assert.Contains(t, s.Error, "Failed to load more: ")

	page2, gen, ok := s.BeginLoadMore()
	require.True(t, ok)
	assert.Equal(t, page, page2)
	require.True(t, s.ApplyNextPage(gen, page2, githubtest.Repos(1, 3), false))
	assert.Equal(t, 2, s.CurrentPage)
}

func TestStaleCompletionsAreDropped(t *testing.T) {
	s, _, _ := listState(t, 0)
	s.HasMore = true

	page, staleGen, ok := s.BeginLoadMore()
	require.True(t, ok)

	// session dropped while the page was in flight
	require.NoError(t, s.Logout())

	assert.False(t, s.ApplyNextPage(staleGen, page, githubtest.Repos(1, 3), true))
	assert.Empty(t, s.Repositories)
	assert.False(t, s.FailLoad(staleGen, &github.AuthError{}, "Failed to load more"))
	assert.Empty(t, s.Error)

	gen, ok := s.BeginLoad()
	require.True(t, ok)
	assert.False(t, s.ApplyFirstPage(staleGen, githubtest.Repos(1, 2), false))
	assert.True(t, s.ApplyFirstPage(gen, githubtest.Repos(10, 2), false))
	assert.Equal(t, int64(10), s.Repositories[0].ID)
}

func TestBeginLoadMoreRequiresListScreen(t *testing.T) {
	s, _, _ := newState(t, "ghp_x")
	_, _, ok := s.BeginLoadMore()
	assert.False(t, ok)
}
