package handlers

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starcleaner/internal/config"
	"starcleaner/internal/config/configtest"
	"starcleaner/internal/domain"
	"starcleaner/internal/github"
	"starcleaner/internal/github/githubtest"
	"starcleaner/internal/ui/commands"
	"starcleaner/internal/ui/state"
)

type harness struct {
	t      *testing.T
	state  *state.AppState
	store  *configtest.Store
	client *githubtest.Client
	exec   *commands.Executor
	h      *Handler
}

func newHarness(t *testing.T, token string) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.GitHub.PersonalAccessToken = token
	store := configtest.New(cfg)
	client := &githubtest.Client{}
	s := state.New(store.Load(), store, githubtest.Factory(client))
	exec := commands.NewExecutor(context.Background(), s)
	return &harness{t: t, state: s, store: store, client: client, exec: exec, h: New(s, exec)}
}

// listHarness returns a harness showing total repositories, served in
// pages of 100
func listHarness(t *testing.T, total int) *harness {
	t.Helper()
	x := newHarness(t, "ghp_x")
	x.client.FetchPageFunc = githubtest.Paged(total)
	x.run(x.exec.InitialLoad())
	require.Equal(t, state.ScreenRepositoryList, x.state.Screen)
	return x
}

// run plays the update loop: executes cmd, applies its message and follows
// up until nothing is left
func (x *harness) run(cmd tea.Cmd) {
	x.t.Helper()
	for cmd != nil {
		msg := cmd()
		next, handled := x.h.Handle(msg)
		require.True(x.t, handled, "unhandled %T", msg)
		cmd = next
	}
}

func (x *harness) fetches() int {
	n := 0
	for _, c := range x.client.Calls() {
		if strings.HasPrefix(c, "fetch ") {
			n++
		}
	}
	return n
}

func (x *harness) assertSelectionSubset() {
	x.t.Helper()
	loaded := map[int64]bool{}
	for _, r := range x.state.Repositories {
		loaded[r.ID] = true
	}
	for _, id := range x.state.Selection.IDs() {
		assert.True(x.t, loaded[id], "selected id %d is not loaded", id)
	}
}

func TestSubmitTokenLoadsList(t *testing.T) {
	x := newHarness(t, "")
	x.client.FetchPageFunc = githubtest.Paged(3)
	require.Equal(t, state.ScreenSetup, x.state.Screen)

	cmd := x.exec.SubmitToken("  ghp_new ")
	require.NotNil(t, cmd)
	assert.True(t, x.state.Submitting)
	assert.Nil(t, x.exec.SubmitToken("ghp_new"), "submission already in flight")

	x.run(cmd)
	assert.False(t, x.state.Submitting)
	assert.Equal(t, state.ScreenRepositoryList, x.state.Screen)
	assert.Equal(t, "octocat", x.state.Username)
	assert.Len(t, x.state.Repositories, 3)
	assert.Equal(t, "ghp_new", x.store.Token())
	assert.Empty(t, x.state.Error)
}

func TestSubmitEmptyTokenMakesNoCall(t *testing.T) {
	x := newHarness(t, "")

	assert.Nil(t, x.exec.SubmitToken("   "))
	assert.Equal(t, "Please enter a Personal Access Token", x.state.Error)
	assert.Empty(t, x.client.Calls())
}

func TestSubmitRejectedTokenStaysOnSetup(t *testing.T) {
	x := newHarness(t, "")
	x.client.ValidateFunc = func(context.Context) (string, error) {
		return "", &github.AuthError{}
	}

	x.run(x.exec.SubmitToken("ghp_bad"))
	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, "Invalid token: token expired or invalid", x.state.Error)
	assert.Empty(t, x.store.Token())
	assert.Nil(t, x.state.Client)
}

func TestSubmitTokenSaveFailure(t *testing.T) {
	x := newHarness(t, "")
	x.store.SaveErr = errors.New("disk full")

	x.run(x.exec.SubmitToken("ghp_new"))
	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, "Failed to save token: disk full", x.state.Error)
	assert.Zero(t, x.fetches())
}

func TestInitialLoadWithoutTokenReturnsToSetup(t *testing.T) {
	x := newHarness(t, "")
	x.state.Screen = state.ScreenLoading

	assert.Nil(t, x.exec.InitialLoad())
	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, "No token found", x.state.Error)
	assert.False(t, x.state.Loading)
}

func TestInitialLoadFailureFallsBackToSetup(t *testing.T) {
	x := newHarness(t, "ghp_x")
	x.client.FetchPageFunc = func(context.Context, int, int, domain.Sort) ([]domain.Repository, bool, error) {
		return nil, false, &github.RemoteError{Op: "fetch starred repositories", Status: 502}
	}

	x.run(x.exec.InitialLoad())
	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, "Failed to load: fetch starred repositories: HTTP 502", x.state.Error)
	assert.False(t, x.state.Loading)
}

func TestInitialLoadExpiredTokenForcesLogout(t *testing.T) {
	x := newHarness(t, "ghp_x")
	x.client.ValidateFunc = func(context.Context) (string, error) {
		return "", &github.AuthError{Op: "validate token"}
	}

	x.run(x.exec.InitialLoad())
	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, state.TokenExpiredMessage, x.state.Error)
	assert.Empty(t, x.store.Token())
	assert.Zero(t, x.fetches())
}

func TestLoadMoreAppendsSecondPage(t *testing.T) {
	x := listHarness(t, 140)
	assert.Len(t, x.state.Repositories, 100)
	assert.True(t, x.state.HasMore)
	assert.Equal(t, 1, x.state.CurrentPage)

	cmd := x.exec.LoadMore()
	require.NotNil(t, cmd)
	assert.Nil(t, x.exec.LoadMore(), "load more already in flight")
	assert.Nil(t, x.exec.Reload(), "reload while load more is in flight")
	x.run(cmd)

	assert.False(t, x.state.HasMore)
	assert.Equal(t, 2, x.state.CurrentPage)
	require.Len(t, x.state.Repositories, 140)
	for i, r := range x.state.Repositories {
		assert.Equal(t, int64(i+1), r.ID)
		assert.Equal(t, i, r.StarredOrder)
	}

	assert.Nil(t, x.exec.LoadMore(), "no page follows a short page")
	assert.Equal(t, 2, x.fetches())
}

func TestLoadMoreFailureKeepsList(t *testing.T) {
	x := listHarness(t, 200)
	x.client.FetchPageFunc = func(context.Context, int, int, domain.Sort) ([]domain.Repository, bool, error) {
		return nil, false, &github.TransportError{Op: "fetch starred repositories", Err: errors.New("connection reset")}
	}

	x.run(x.exec.LoadMore())
	assert.Len(t, x.state.Repositories, 100)
	assert.Equal(t, 1, x.state.CurrentPage)
	assert.True(t, x.state.HasMore)
	assert.Equal(t, "Failed to load more: fetch starred repositories: connection reset", x.state.Error)
}

func TestUnstarOneRemovesOnSuccess(t *testing.T) {
	x := listHarness(t, 3)
	x.exec.SelectAll()
	require.True(t, x.state.AllSelected())

	require.True(t, x.state.RequestUnstarOne(1))
	x.run(x.exec.Confirm())

	assert.Contains(t, x.client.Calls(), "unstar o/r1")
	assert.Len(t, x.state.Repositories, 2)
	assert.Equal(t, 2, x.state.SelectionCount())
	// computed against the two that remain
	assert.True(t, x.state.AllSelected())
	assert.Equal(t, "Unstarred o/r1", x.state.Status)
	x.assertSelectionSubset()
}

func TestUnstarOneOfPartialSelection(t *testing.T) {
	x := listHarness(t, 3)
	x.exec.ToggleSelection(1)
	x.exec.ToggleSelection(2)
	assert.False(t, x.state.AllSelected())

	require.True(t, x.state.RequestUnstarOne(3))
	x.run(x.exec.Confirm())
	assert.True(t, x.state.AllSelected())

	require.True(t, x.state.RequestUnstarOne(1))
	x.run(x.exec.Confirm())
	assert.Equal(t, 1, x.state.SelectionCount())
	assert.True(t, x.state.AllSelected())
	x.assertSelectionSubset()
}

func TestUnstarOneFailureKeepsRepository(t *testing.T) {
	x := listHarness(t, 2)
	x.client.UnstarFunc = func(_ context.Context, ref domain.RepoRef) error {
		return &github.RemoteError{Op: "unstar " + ref.String(), Status: 404, Message: "Not Found"}
	}

	require.True(t, x.state.RequestUnstarOne(2))
	x.run(x.exec.Confirm())
	assert.Len(t, x.state.Repositories, 2)
	assert.Equal(t, "Failed to unstar: unstar o/r2: HTTP 404: Not Found", x.state.Error)
	assert.Equal(t, state.ScreenRepositoryList, x.state.Screen)
}

func TestUnstarSelectedExpiredTokenLogsOutOnce(t *testing.T) {
	x := listHarness(t, 2)
	x.client.UnstarFunc = func(_ context.Context, ref domain.RepoRef) error {
		if ref.Name == "r2" {
			return &github.AuthError{Op: "unstar " + ref.String()}
		}
		return nil
	}
	x.exec.SelectAll()

	require.True(t, x.state.RequestUnstarSelected())
	x.run(x.exec.Confirm())

	assert.Equal(t, []string{"unstar o/r1", "unstar o/r2"}, x.client.Calls()[2:])
	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, state.TokenExpiredMessage, x.state.Error)
	assert.Nil(t, x.state.Client)
	assert.Nil(t, x.state.Pending)
	assert.Empty(t, x.state.Repositories)
	assert.Empty(t, x.store.Token())
	assert.Equal(t, 1, x.client.Forgotten())
}

func TestUnstarSelectedPartialFailure(t *testing.T) {
	x := listHarness(t, 4)
	x.client.UnstarFunc = func(_ context.Context, ref domain.RepoRef) error {
		if ref.Name == "r2" {
			return &github.RemoteError{Op: "unstar " + ref.String(), Status: 404, Message: "Not Found"}
		}
		return nil
	}
	x.exec.ToggleSelection(1)
	x.exec.ToggleSelection(2)
	x.exec.ToggleSelection(3)

	require.True(t, x.state.RequestUnstarSelected())
	x.run(x.exec.Confirm())

	var ids []int64
	for _, r := range x.state.Repositories {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{2, 4}, ids)
	assert.Equal(t, []int64{2}, x.state.SelectedIDs())
	assert.Equal(t, "Failed to unstar 1 of 3 repositories: unstar o/r2: HTTP 404: Not Found", x.state.Error)
	x.assertSelectionSubset()
}

func TestUnstarSelectedUsesCapturedTargets(t *testing.T) {
	x := listHarness(t, 3)
	x.exec.ToggleSelection(1)
	require.True(t, x.state.RequestUnstarSelected())

	// the popup is modal, but the batch must not depend on it
	x.exec.ToggleSelection(2)

	x.run(x.exec.Confirm())
	assert.Equal(t, []string{"unstar o/r1"}, x.client.Calls()[2:])
	assert.Equal(t, "Unstarred 1 repositories", x.state.Status)
}

func TestDoubleToggleWhileReloadInFlightReloadsOnce(t *testing.T) {
	x := listHarness(t, 3)
	before := x.fetches()

	first := x.exec.ToggleSortDirection()
	require.NotNil(t, first)
	assert.Nil(t, x.exec.ToggleSortDirection(), "rejected by the loading guard")
	assert.Nil(t, x.exec.ChangeSortField(domain.SortStarred), "rejected by the loading guard")

	x.run(first)
	assert.Equal(t, before+1, x.fetches())
	assert.Equal(t, domain.Sort{Field: domain.SortPushed, Direction: domain.SortDesc}, x.state.Sort)
	assert.Len(t, x.state.Repositories, 3)
}

func TestDoubleToggleAfterReloadCompletesReloadsTwice(t *testing.T) {
	x := listHarness(t, 3)
	before := x.fetches()

	x.run(x.exec.ToggleSortDirection())
	x.run(x.exec.ToggleSortDirection())

	assert.Equal(t, before+2, x.fetches())
	assert.Equal(t, domain.Sort{Field: domain.SortPushed, Direction: domain.SortAsc}, x.state.Sort)
	calls := x.client.Calls()
	assert.Equal(t, []string{"fetch 1 Pushed ↓", "fetch 1 Pushed ↑"}, calls[len(calls)-2:])
}

func TestChangeSortFieldResetsDirectionAndPersists(t *testing.T) {
	x := listHarness(t, 3)
	x.run(x.exec.ToggleSortDirection())
	x.exec.SelectAll()

	cmd := x.exec.ChangeSortField(domain.SortStarred)
	require.NotNil(t, cmd)
	assert.Zero(t, x.state.SelectionCount(), "reload clears the selection")
	x.run(cmd)

	assert.Equal(t, domain.Sort{Field: domain.SortStarred, Direction: domain.SortAsc}, x.state.Sort)
	saved := x.store.Load()
	assert.Equal(t, "starred", saved.UI.SortField)
	assert.Equal(t, "asc", saved.UI.SortDirection)
}

func TestReloadFailureUsesReloadLabel(t *testing.T) {
	x := listHarness(t, 3)
	x.client.FetchPageFunc = func(context.Context, int, int, domain.Sort) ([]domain.Repository, bool, error) {
		return nil, false, &github.RemoteError{Op: "fetch starred repositories", Status: 503}
	}

	x.run(x.exec.ToggleSortDirection())
	assert.Equal(t, "Failed to reload: fetch starred repositories: HTTP 503", x.state.Error)
	assert.Equal(t, state.ScreenRepositoryList, x.state.Screen)
	assert.False(t, x.state.Loading)
}

func TestResultsAfterLogoutAreDropped(t *testing.T) {
	x := listHarness(t, 250)

	more := x.exec.LoadMore()
	require.NotNil(t, more)

	require.True(t, x.state.RequestLogout())
	x.run(x.exec.Confirm())
	require.Equal(t, state.ScreenSetup, x.state.Screen)

	x.run(more)
	assert.Empty(t, x.state.Repositories)
	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, 1, x.state.CurrentPage)
}

// starredServer makes the fake client forget stars it unstarred, like GitHub
func starredServer(x *harness, total int) {
	removed := map[string]bool{}
	paged := githubtest.Paged(total)
	x.client.UnstarFunc = func(_ context.Context, ref domain.RepoRef) error {
		removed[ref.String()] = true
		return nil
	}
	x.client.FetchPageFunc = func(ctx context.Context, page, perPage int, sort domain.Sort) ([]domain.Repository, bool, error) {
		repos, hasMore, err := paged(ctx, page, perPage, sort)
		kept := repos[:0]
		for _, r := range repos {
			if !removed[r.Ref().String()] {
				kept = append(kept, r)
			}
		}
		return kept, hasMore, err
	}
}

func repoIDs(repos []domain.Repository) []int64 {
	ids := make([]int64, 0, len(repos))
	for _, r := range repos {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestUnstarFinishingAfterReloadStillRemoves(t *testing.T) {
	x := listHarness(t, 3)
	require.True(t, x.state.RequestUnstarOne(1))
	unstar := x.exec.Confirm()
	require.NotNil(t, unstar)

	x.run(x.exec.ToggleSortDirection())
	require.Len(t, x.state.Repositories, 3)

	x.run(unstar)
	assert.Equal(t, []int64{2, 3}, repoIDs(x.state.Repositories))
	assert.Empty(t, x.state.Error)
	assert.Equal(t, "Unstarred o/r1", x.state.Status)
}

func TestUnstarFinishingDuringReloadStillRemoves(t *testing.T) {
	x := listHarness(t, 3)
	starredServer(x, 3)
	require.True(t, x.state.RequestUnstarOne(1))
	unstar := x.exec.Confirm()

	reload := x.exec.ToggleSortDirection()
	require.NotNil(t, reload)

	x.run(unstar)
	assert.NotContains(t, x.state.Status, "Unstarring")
	x.run(reload)
	assert.Equal(t, []int64{2, 3}, repoIDs(x.state.Repositories))
}

func TestUnstarExpiredAfterReloadForcesLogout(t *testing.T) {
	x := listHarness(t, 3)
	x.client.UnstarFunc = func(context.Context, domain.RepoRef) error {
		return &github.AuthError{Op: "unstar"}
	}
	require.True(t, x.state.RequestUnstarOne(1))
	unstar := x.exec.Confirm()

	x.run(x.exec.ToggleSortDirection())
	x.run(unstar)

	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, state.TokenExpiredMessage, x.state.Error)
}

func TestUnstarExpiredDuringReloadForcesLogout(t *testing.T) {
	x := listHarness(t, 3)
	x.client.UnstarFunc = func(context.Context, domain.RepoRef) error {
		return &github.AuthError{Op: "unstar"}
	}
	require.True(t, x.state.RequestUnstarOne(1))
	unstar := x.exec.Confirm()
	reload := x.exec.ToggleSortDirection()
	require.NotNil(t, reload)

	x.run(unstar)
	x.run(reload)

	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, state.TokenExpiredMessage, x.state.Error)
	assert.Empty(t, x.state.Repositories, "the reload started before logout is dropped")
}

func TestUnstarBatchFinishingAfterReloadRemovesSucceeded(t *testing.T) {
	x := listHarness(t, 3)
	x.state.ToggleSelected(1)
	x.state.ToggleSelected(3)
	require.True(t, x.state.RequestUnstarSelected())
	batch := x.exec.Confirm()
	require.NotNil(t, batch)

	x.run(x.exec.ChangeSortField(domain.SortStarred))
	x.run(batch)

	assert.Equal(t, []int64{2}, repoIDs(x.state.Repositories))
	assert.Equal(t, "Unstarred 2 repositories", x.state.Status)
}

func TestUnstarFromPreviousSessionIsDropped(t *testing.T) {
	x := listHarness(t, 3)
	require.True(t, x.state.RequestUnstarOne(1))
	unstar := x.exec.Confirm()

	require.True(t, x.state.RequestLogout())
	x.run(x.exec.Confirm())
	x.run(unstar)

	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Empty(t, x.state.Status)
	assert.Empty(t, x.state.Error)
}

func TestLogoutStoreFailureStaysOnSetup(t *testing.T) {
	x := listHarness(t, 2)
	x.store.ClearErr = errors.New("permission denied")

	require.True(t, x.state.RequestLogout())
	x.run(x.exec.Confirm())
	assert.Equal(t, state.ScreenSetup, x.state.Screen)
	assert.Equal(t, "Failed to clear token: permission denied", x.state.Error)
	assert.Nil(t, x.state.Client)
}

func TestCancelOnlyClearsPending(t *testing.T) {
	x := listHarness(t, 2)
	x.exec.SelectAll()
	require.True(t, x.state.RequestUnstarSelected())

	assert.Nil(t, x.exec.Cancel())
	assert.Nil(t, x.state.Pending)
	assert.Equal(t, 2, x.state.SelectionCount())
	assert.Len(t, x.state.Repositories, 2)
	assert.Nil(t, x.exec.Confirm(), "nothing left to confirm")
}

func TestHandleIgnoresForeignMessages(t *testing.T) {
	x := newHarness(t, "")
	_, handled := x.h.Handle(tea.KeyMsg{})
	assert.False(t, handled)
}
