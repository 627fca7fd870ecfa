package types

import "starcleaner/internal/domain"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Selection actions
type SelectAction struct{}

func (a SelectAction) Type() string { return "select" }

type SelectAllAction struct{}

func (a SelectAllAction) Type() string { return "select_all" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
}

func (a SubmitTextAction) Type() string { return "submit_text" }

// Requests that need confirmation
type UnstarCurrentAction struct{}

func (a UnstarCurrentAction) Type() string { return "unstar_current" }

type UnstarSelectedAction struct{}

func (a UnstarSelectedAction) Type() string { return "unstar_selected" }

type LogoutAction struct{}

func (a LogoutAction) Type() string { return "logout" }

// Confirmation actions
type ConfirmAction struct{}

func (a ConfirmAction) Type() string { return "confirm" }

type CancelAction struct{}

func (a CancelAction) Type() string { return "cancel" }

// Sort actions
type SortByAction struct {
	Field domain.SortField
}

func (a SortByAction) Type() string { return "sort_by" }

type ToggleSortDirectionAction struct{}

func (a ToggleSortDirectionAction) Type() string { return "toggle_sort_direction" }

// Other list actions
type LoadMoreAction struct{}

func (a LoadMoreAction) Type() string { return "load_more" }

type OpenDetailsAction struct{}

func (a OpenDetailsAction) Type() string { return "open_details" }

type OpenInBrowserAction struct{}

func (a OpenInBrowserAction) Type() string { return "open_in_browser" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type DismissErrorAction struct{}

func (a DismissErrorAction) Type() string { return "dismiss_error" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
