package state

import (
	"fmt"

	"starcleaner/internal/domain"
)

// PendingAction is an intent waiting for the user to confirm it.
// Implementations: UnstarOneAction, UnstarSelectedAction, LogoutAction.
type PendingAction interface {
	// Title and Message are shown in the confirmation popup
	Title() string
	Message() string

	pending()
}

// UnstarOneAction removes the star from a single repository
type UnstarOneAction struct {
	ID       int64
	Ref      domain.RepoRef
	FullName string
}

func (UnstarOneAction) Title() string { return "Confirm Unstar" }

func (a UnstarOneAction) Message() string {
	return fmt.Sprintf("Are you sure you want to unstar '%s'?", a.FullName)
}

func (UnstarOneAction) pending() {}

// UnstarSelectedAction removes the stars of the repositories that were
// selected when the request was made
type UnstarSelectedAction struct {
	Count   int
	Targets []domain.Repository
}

func (UnstarSelectedAction) Title() string { return "Confirm Unstar" }

func (a UnstarSelectedAction) Message() string {
	return fmt.Sprintf("Are you sure you want to unstar %d repositories?", a.Count)
}

func (UnstarSelectedAction) pending() {}

// LogoutAction drops the session and the stored credential
type LogoutAction struct{}

func (LogoutAction) Title() string { return "Confirm Logout" }

func (LogoutAction) Message() string { return "Are you sure you want to logout?" }

func (LogoutAction) pending() {}
