package state

import (
	"starcleaner/internal/domain"
)

// BeginLoad starts a fetch session from page 1. It refuses when a fetch is
// already in flight; otherwise it clears the list and selection and returns
// the generation the fetch must report back with. Flag check and flag set
// happen in this one call so two loads can never both pass the guard.
func (s *AppState) BeginLoad() (uint64, bool) {
	if s.Busy() {
		return 0, false
	}

	s.Generation++
	s.Loading = true
	s.Repositories = nil
	s.Selection.Clear()
	s.CurrentPage = 1
	s.HasMore = true
	s.Cursor = 0
	s.ViewportOffset = 0
	s.Error = ""
	return s.Generation, true
}

// BeginLoadMore reserves the next page. It refuses while any fetch is in
// flight, when the last page was short, or outside the list screen.
func (s *AppState) BeginLoadMore() (page int, gen uint64, ok bool) {
	if s.Screen != ScreenRepositoryList || s.Busy() || !s.HasMore {
		return 0, 0, false
	}
	s.LoadingMore = true
	return s.CurrentPage + 1, s.Generation, true
}

// InSession reports whether a mutation sent under session still belongs to
// the signed-in credential
func (s *AppState) InSession(session uint64) bool {
	return session == s.Session
}

// IsCurrent reports whether a completion launched under gen may be applied
func (s *AppState) IsCurrent(gen uint64) bool {
	return gen == s.Generation
}

// ApplyFirstPage replaces the list with page 1 and shows it. Stale results
// are dropped and false is returned.
func (s *AppState) ApplyFirstPage(gen uint64, repos []domain.Repository, hasMore bool) bool {
	if !s.IsCurrent(gen) {
		return false
	}

	s.Loading = false
	s.Repositories = repos
	s.CurrentPage = 1
	s.HasMore = hasMore
	s.Screen = ScreenRepositoryList
	s.clampCursor()

	s.publish(domain.PageLoadedEvent{Page: 1, Count: len(repos), HasMore: hasMore, Sort: s.Sort})
	return true
}

// ApplyNextPage appends a page in server order and advances the cursor.
// Only the page directly after CurrentPage is accepted.
func (s *AppState) ApplyNextPage(gen uint64, page int, repos []domain.Repository, hasMore bool) bool {
	if !s.IsCurrent(gen) {
		return false
	}

	s.LoadingMore = false
	if page != s.CurrentPage+1 {
		s.log.Warn().Int("page", page).Int("current", s.CurrentPage).Msg("dropping out of order page")
		return false
	}

	s.Repositories = append(s.Repositories, repos...)
	s.CurrentPage = page
	s.HasMore = hasMore

	s.publish(domain.PageLoadedEvent{Page: page, Count: len(repos), HasMore: hasMore, Sort: s.Sort})
	return true
}

// FailLoad ends the fetch launched under gen and routes err through
// HandleAPIError. Stale failures are dropped.
func (s *AppState) FailLoad(gen uint64, err error, label string) bool {
	if !s.IsCurrent(gen) {
		return false
	}
	s.Loading = false
	s.LoadingMore = false
	s.HandleAPIError(err, label)
	return true
}
