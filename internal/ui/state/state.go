package state

import (
	"fmt"

	"starcleaner/internal/config"
	"starcleaner/internal/domain"
	"starcleaner/internal/eventbus"
	"starcleaner/internal/github"
	"starcleaner/internal/logger"
)

// TokenExpiredMessage replaces any error caused by a rejected credential
const TokenExpiredMessage = "Token expired. Please login again."

// Screen is the top level mode of the application
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenLoading
	ScreenRepositoryList
)

func (s Screen) String() string {
	switch s {
	case ScreenSetup:
		return "setup"
	case ScreenLoading:
		return "loading"
	case ScreenRepositoryList:
		return "list"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// AppState contains all the application state. It has a single writer,
// the UI update loop; nothing in here is safe for concurrent use.
type AppState struct {
	Screen Screen
	Config *config.Config
	Client github.Client // nil until a credential was accepted

	// Repositories are kept in server order, never re-sorted locally
	Repositories []domain.Repository
	Selection    Selection

	Loading     bool
	LoadingMore bool
	Submitting  bool // credential validation in flight

	Error    string
	Status   string
	Username string

	CurrentPage int
	HasMore     bool
	Sort        domain.Sort

	Pending PendingAction // nil when nothing awaits confirmation

	// Generation changes whenever a fetch session starts or the session is
	// dropped; completions launched under an older generation are stale.
	Generation uint64

	// Session changes only when the credential is dropped. Unstars are
	// checked against it instead of Generation so a reload never hides a
	// change the server already made.
	Session uint64

	// UI state
	Cursor         int
	ViewportOffset int
	ViewportHeight int
	ShowHelp       bool

	store   config.Store
	factory github.Factory
	bus     eventbus.EventBus
	log     *logger.Logger
}

// New creates the state from the persisted config. The first screen is
// Loading when a credential is present and Setup otherwise.
func New(cfg *config.Config, store config.Store, factory github.Factory) *AppState {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	screen := ScreenSetup
	if cfg.HasToken() {
		screen = ScreenLoading
	}

	return &AppState{
		Screen:         screen,
		Config:         cfg,
		CurrentPage:    1,
		HasMore:        true,
		Sort:           cfg.Sort(),
		ViewportHeight: 20,
		store:          store,
		factory:        factory,
		log:            logger.Named("state"),
	}
}

// AttachBus publishes domain events on bus from now on
func (s *AppState) AttachBus(bus eventbus.EventBus) {
	s.bus = bus
}

func (s *AppState) publish(e domain.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// NewClient builds a client for token without touching the state
func (s *AppState) NewClient(token string) (github.Client, error) {
	return s.factory(token)
}

// SetToken stores the credential, builds a client for it and persists it.
// A malformed credential fails with a *github.ConfigError and changes nothing.
func (s *AppState) SetToken(token string) error {
	client, err := s.factory(token)
	if err != nil {
		return err
	}

	s.Config.GitHub.PersonalAccessToken = token
	s.Client = client

	if err := s.store.SaveToken(token); err != nil {
		return err
	}
	return nil
}

// SelectedRepos returns the selected repositories in list order
func (s *AppState) SelectedRepos() []domain.Repository {
	var out []domain.Repository
	for _, r := range s.Repositories {
		if s.Selection.IsSelected(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// SelectedPairs returns the owner/name of the selected repositories in list order
func (s *AppState) SelectedPairs() []domain.RepoRef {
	var out []domain.RepoRef
	for _, r := range s.Repositories {
		if s.Selection.IsSelected(r.ID) {
			out = append(out, r.Ref())
		}
	}
	return out
}

// SelectedIDs returns the ids of the selected repositories in list order
func (s *AppState) SelectedIDs() []int64 {
	var out []int64
	for _, r := range s.Repositories {
		if s.Selection.IsSelected(r.ID) {
			out = append(out, r.ID)
		}
	}
	return out
}

// RemoveRepos drops the repositories with the given ids from the list and
// the selection together
func (s *AppState) RemoveRepos(ids []int64) {
	if len(ids) == 0 {
		return
	}

	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := s.Repositories[:0]
	removed := make([]int64, 0, len(ids))
	for _, r := range s.Repositories {
		if _, ok := drop[r.ID]; ok {
			removed = append(removed, r.ID)
			continue
		}
		kept = append(kept, r)
	}
	clear(s.Repositories[len(kept):])
	s.Repositories = kept
	s.Selection.RemoveIDs(ids)
	s.clampCursor()

	if len(removed) > 0 {
		s.publish(domain.ReposRemovedEvent{IDs: removed})
	}
}

// Logout drops the session and clears the stored credential. The in-memory
// state is cleared even when the store fails; that failure is returned.
func (s *AppState) Logout() error {
	return s.logout(false)
}

func (s *AppState) logout(forced bool) error {
	if s.Client != nil {
		s.Client.Forget()
	}

	s.Client = nil
	s.Username = ""
	s.Repositories = nil
	s.Selection.Clear()
	s.Pending = nil
	s.Loading = false
	s.LoadingMore = false
	s.Submitting = false
	s.CurrentPage = 1
	s.HasMore = true
	s.Cursor = 0
	s.ViewportOffset = 0
	s.Status = ""
	s.Screen = ScreenSetup
	s.Generation++
	s.Session++
	s.Config.GitHub.PersonalAccessToken = ""

	s.publish(domain.LoggedOutEvent{Forced: forced})

	if err := s.store.ClearToken(); err != nil {
		s.log.Error().Err(err).Msg("failed to clear stored token")
		return err
	}
	return nil
}

// HandleAPIError is the single place remote failures are surfaced. A rejected
// credential forces a logout with a fixed message; anything else is reported
// as "<label>: <error>".
func (s *AppState) HandleAPIError(err error, label string) {
	if err == nil {
		return
	}

	if github.IsAuthError(err) {
		s.log.Warn().Err(err).Str("context", label).Msg("credential rejected, logging out")
		// The store failure is logged by logout; the expiry message wins
		_ = s.logout(true)
		s.SetError(TokenExpiredMessage)
		return
	}

	s.log.Error().Err(err).Str("context", label).Msg("remote call failed")
	s.Error = fmt.Sprintf("%s: %v", label, err)
	s.publish(domain.ErrorEvent{Message: s.Error, Err: err})
}

// SetError sets the message shown to the user
func (s *AppState) SetError(msg string) {
	s.Error = msg
	s.publish(domain.ErrorEvent{Message: msg})
}

// ClearError removes the error message
func (s *AppState) ClearError() {
	s.Error = ""
}

// Selection operations

// ToggleSelected flips the selection of the repository with id if it is loaded
func (s *AppState) ToggleSelected(id int64) {
	if _, ok := s.indexOf(id); !ok {
		return
	}
	s.Selection.Toggle(id)
}

// ToggleSelectAll deselects everything when all repositories are selected
// and selects every loaded repository otherwise
func (s *AppState) ToggleSelectAll() {
	if s.AllSelected() {
		s.Selection.Clear()
		return
	}
	s.Selection.SelectAll(s.Repositories)
}

// AllSelected reports whether every loaded repository is selected. It is
// computed against the current list, never cached.
func (s *AppState) AllSelected() bool {
	return len(s.Repositories) > 0 && s.Selection.Count() == len(s.Repositories)
}

// SelectionCount returns the number of selected repositories
func (s *AppState) SelectionCount() int {
	return s.Selection.Count()
}

// Pending actions

// RequestUnstarOne asks for confirmation to unstar the repository with id
func (s *AppState) RequestUnstarOne(id int64) bool {
	if s.Pending != nil {
		return false
	}
	i, ok := s.indexOf(id)
	if !ok {
		return false
	}
	r := s.Repositories[i]
	s.Pending = UnstarOneAction{ID: r.ID, Ref: r.Ref(), FullName: r.DisplayName()}
	return true
}

// RequestUnstarSelected asks for confirmation to unstar the current
// selection. The targets are captured now so the batch matches what the
// user confirmed.
func (s *AppState) RequestUnstarSelected() bool {
	if s.Pending != nil {
		return false
	}
	targets := s.SelectedRepos()
	if len(targets) == 0 {
		return false
	}
	s.Pending = UnstarSelectedAction{Count: len(targets), Targets: targets}
	return true
}

// RequestLogout asks for confirmation to log out
func (s *AppState) RequestLogout() bool {
	if s.Pending != nil {
		return false
	}
	s.Pending = LogoutAction{}
	return true
}

// TakePending clears the pending action and returns it
func (s *AppState) TakePending() (PendingAction, bool) {
	p := s.Pending
	s.Pending = nil
	return p, p != nil
}

// CancelPending clears the pending action
func (s *AppState) CancelPending() {
	s.Pending = nil
}

// Sort

// Busy reports whether a fetch is in flight
func (s *AppState) Busy() bool {
	return s.Loading || s.LoadingMore
}

// SetSortField switches the sort field, resetting the direction to
// ascending. It is rejected while a fetch is in flight.
func (s *AppState) SetSortField(field domain.SortField) bool {
	if s.Busy() {
		return false
	}
	s.Sort = s.Sort.WithField(field)
	s.Config.SetSort(s.Sort)
	return true
}

// ToggleSortDirection flips the direction in place. It is rejected while a
// fetch is in flight.
func (s *AppState) ToggleSortDirection() bool {
	if s.Busy() {
		return false
	}
	s.Sort = s.Sort.Toggled()
	s.Config.SetSort(s.Sort)
	return true
}

// SaveConfig persists the sort preference. It starts from the stored
// config so a credential given for this run only is never written.
func (s *AppState) SaveConfig() error {
	stored := s.store.Load()
	stored.SetSort(s.Config.Sort())
	return s.store.Save(stored)
}

// Cursor

// CurrentRepo returns the repository under the cursor
func (s *AppState) CurrentRepo() (domain.Repository, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Repositories) {
		return domain.Repository{}, false
	}
	return s.Repositories[s.Cursor], true
}

// MoveCursor moves the cursor by delta and keeps it in the viewport
func (s *AppState) MoveCursor(delta int) {
	s.SetCursor(s.Cursor + delta)
}

// SetCursor moves the cursor to index, clamped to the list
func (s *AppState) SetCursor(index int) {
	s.Cursor = index
	s.clampCursor()
}

// AtLastRow reports whether the cursor is on the last loaded repository
func (s *AppState) AtLastRow() bool {
	return len(s.Repositories) > 0 && s.Cursor == len(s.Repositories)-1
}

func (s *AppState) clampCursor() {
	if s.Cursor >= len(s.Repositories) {
		s.Cursor = len(s.Repositories) - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	s.ensureCursorVisible()
}

func (s *AppState) ensureCursorVisible() {
	h := s.ViewportHeight
	if h < 1 {
		h = 1
	}
	if s.Cursor < s.ViewportOffset {
		s.ViewportOffset = s.Cursor
	} else if s.Cursor >= s.ViewportOffset+h {
		s.ViewportOffset = s.Cursor - h + 1
	}
	if maxOffset := len(s.Repositories) - h; s.ViewportOffset > maxOffset {
		s.ViewportOffset = max(maxOffset, 0)
	}
}

func (s *AppState) indexOf(id int64) (int, bool) {
	for i, r := range s.Repositories {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}
