package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"starcleaner/internal/domain"
	"starcleaner/internal/logger"
	"starcleaner/internal/ui/state"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor. ctx bounds every remote call.
func NewExecutor(ctx context.Context, state *state.AppState) *Executor {
	return &Executor{
		ctx: &CommandContext{
			State: state,
			Ctx:   ctx,
			log:   logger.Named("commands"),
		},
	}
}

// SubmitToken creates and executes a submit token command
func (e *Executor) SubmitToken(token string) tea.Cmd {
	return NewSubmitTokenCommand(e.ctx, token).Execute()
}

// InitialLoad creates and executes an initial load command
func (e *Executor) InitialLoad() tea.Cmd {
	return NewInitialLoadCommand(e.ctx).Execute()
}

// Reload creates and executes a reload command
func (e *Executor) Reload() tea.Cmd {
	return NewReloadCommand(e.ctx).Execute()
}

// LoadMore creates and executes a load more command
func (e *Executor) LoadMore() tea.Cmd {
	return NewLoadMoreCommand(e.ctx).Execute()
}

// Confirm creates and executes a confirm command
func (e *Executor) Confirm() tea.Cmd {
	return NewConfirmCommand(e.ctx).Execute()
}

// Cancel creates and executes a cancel command
func (e *Executor) Cancel() tea.Cmd {
	return NewCancelCommand(e.ctx).Execute()
}

// ChangeSortField creates and executes a sort field command
func (e *Executor) ChangeSortField(field domain.SortField) tea.Cmd {
	return NewChangeSortFieldCommand(e.ctx, field).Execute()
}

// ToggleSortDirection creates and executes a sort direction command
func (e *Executor) ToggleSortDirection() tea.Cmd {
	return NewToggleSortDirectionCommand(e.ctx).Execute()
}

// ToggleSelection creates and executes a toggle selection command
func (e *Executor) ToggleSelection(id int64) tea.Cmd {
	return NewToggleSelectionCommand(e.ctx, id).Execute()
}

// SelectAll creates and executes a select all command
func (e *Executor) SelectAll() tea.Cmd {
	return NewSelectAllCommand(e.ctx).Execute()
}
