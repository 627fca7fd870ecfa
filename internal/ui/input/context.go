package input

import (
	"starcleaner/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
}

// CurrentIndex returns the cursor position
func (c *ModelContext) CurrentIndex() int {
	return c.State.Cursor
}

// TotalItems returns the number of loaded repositories
func (c *ModelContext) TotalItems() int {
	return len(c.State.Repositories)
}

// HasSelection returns true if any repository is selected
func (c *ModelContext) HasSelection() bool {
	return c.State.SelectionCount() > 0
}

// SelectedCount returns the number of selected repositories
func (c *ModelContext) SelectedCount() int {
	return c.State.SelectionCount()
}

// HasCurrentRepository reports whether the cursor is on a repository
func (c *ModelContext) HasCurrentRepository() bool {
	_, ok := c.State.CurrentRepo()
	return ok
}

// HasMore reports whether another page may be loaded
func (c *ModelContext) HasMore() bool {
	return c.State.HasMore
}

// HelpVisible reports whether the help popup is open
func (c *ModelContext) HelpVisible() bool {
	return c.State.ShowHelp
}
