package commands

import (
	"starcleaner/internal/domain"
	"starcleaner/internal/github"
	"starcleaner/internal/ui/state"
)

// Completion messages. Each is produced by a tea.Cmd after its remote call
// returned and is applied to the state by the handlers package.

// TokenValidatedMsg reports the outcome of a credential submission
type TokenValidatedMsg struct {
	Token    string
	Username string
	Err      error
}

// FirstPageMsg carries page 1 of a fetch session
type FirstPageMsg struct {
	Gen      uint64
	Initial  bool   // entered from the Loading screen
	Username string // set when the initial load validated the credential
	Repos    []domain.Repository
	HasMore  bool
	Err      error
}

// NextPageMsg carries a page fetched by load more
type NextPageMsg struct {
	Gen     uint64
	Page    int
	Repos   []domain.Repository
	HasMore bool
	Err     error
}

// UnstarDoneMsg reports a confirmed single unstar
type UnstarDoneMsg struct {
	Session uint64
	Action  state.UnstarOneAction
	Err     error
}

// UnstarBatchDoneMsg reports a confirmed bulk unstar. Results line up
// with Action.Targets.
type UnstarBatchDoneMsg struct {
	Session uint64
	Action  state.UnstarSelectedAction
	Results []github.UnstarResult
}
