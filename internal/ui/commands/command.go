package commands

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"starcleaner/internal/domain"
	"starcleaner/internal/logger"
	"starcleaner/internal/ui/state"
)

// Command represents an executable action. Execute runs on the update loop:
// it checks guards and mutates state synchronously, and returns the remote
// part as a tea.Cmd whose message is applied later.
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	State *state.AppState
	// Ctx bounds remote calls; it is cancelled when the program exits
	Ctx context.Context
	log *logger.Logger
}

func (c *CommandContext) requestContext() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// SubmitTokenCommand validates a credential typed on the setup screen
type SubmitTokenCommand struct {
	ctx   *CommandContext
	token string
}

// NewSubmitTokenCommand creates a new submit token command
func NewSubmitTokenCommand(ctx *CommandContext, token string) *SubmitTokenCommand {
	return &SubmitTokenCommand{ctx: ctx, token: strings.TrimSpace(token)}
}

// Execute builds a client and validates the credential off the loop.
// Failures are assigned to the error field directly: there is no session
// yet that could have expired.
func (c *SubmitTokenCommand) Execute() tea.Cmd {
	s := c.ctx.State
	if s.Submitting {
		return nil
	}
	if c.token == "" {
		s.SetError("Please enter a Personal Access Token")
		return nil
	}

	client, err := s.NewClient(c.token)
	if err != nil {
		s.SetError(fmt.Sprintf("Invalid token: %v", err))
		return nil
	}

	s.ClearError()
	s.Submitting = true

	token, ctx := c.token, c.ctx.requestContext()
	return func() tea.Msg {
		login, err := client.Validate(ctx)
		return TokenValidatedMsg{Token: token, Username: login, Err: err}
	}
}

// LoadCommand fetches page 1 under the current sort. The initial variant
// runs on the Loading screen and validates the credential first; the reload
// variant runs on the list screen after a sort change.
type LoadCommand struct {
	ctx     *CommandContext
	initial bool
}

// NewInitialLoadCommand creates the load run when entering the Loading screen
func NewInitialLoadCommand(ctx *CommandContext) *LoadCommand {
	return &LoadCommand{ctx: ctx, initial: true}
}

// NewReloadCommand creates the load run after a sort change
func NewReloadCommand(ctx *CommandContext) *LoadCommand {
	return &LoadCommand{ctx: ctx}
}

// Execute starts the fetch session. It does nothing while another fetch is
// in flight.
func (c *LoadCommand) Execute() tea.Cmd {
	s := c.ctx.State
	gen, ok := s.BeginLoad()
	if !ok {
		c.ctx.log.Debug().Bool("initial", c.initial).Msg("load skipped, fetch in flight")
		return nil
	}

	client := s.Client
	if client == nil && c.initial {
		token := s.Config.Token()
		if token == "" {
			s.Loading = false
			s.Screen = state.ScreenSetup
			s.SetError("No token found")
			return nil
		}
		var err error
		client, err = s.NewClient(token)
		if err != nil {
			s.Loading = false
			s.Screen = state.ScreenSetup
			s.SetError(fmt.Sprintf("Failed to load: %v", err))
			return nil
		}
		s.Client = client
	}
	if client == nil {
		s.Loading = false
		return nil
	}

	initial, sort, perPage, ctx := c.initial, s.Sort, s.Config.PerPage(), c.ctx.requestContext()
	return func() tea.Msg {
		msg := FirstPageMsg{Gen: gen, Initial: initial}
		if initial {
			login, err := client.Validate(ctx)
			if err != nil {
				msg.Err = err
				return msg
			}
			msg.Username = login
		}
		msg.Repos, msg.HasMore, msg.Err = client.FetchPage(ctx, 1, perPage, sort)
		return msg
	}
}

// LoadMoreCommand fetches the page after CurrentPage
type LoadMoreCommand struct {
	ctx *CommandContext
}

// NewLoadMoreCommand creates a new load more command
func NewLoadMoreCommand(ctx *CommandContext) *LoadMoreCommand {
	return &LoadMoreCommand{ctx: ctx}
}

// Execute does nothing while a fetch is in flight or when no page follows
func (c *LoadMoreCommand) Execute() tea.Cmd {
	s := c.ctx.State
	page, gen, ok := s.BeginLoadMore()
	if !ok {
		return nil
	}
	client := s.Client
	if client == nil {
		s.LoadingMore = false
		return nil
	}

	sort, perPage, ctx := s.Sort, s.Config.PerPage(), c.ctx.requestContext()
	return func() tea.Msg {
		repos, hasMore, err := client.FetchPage(ctx, page, perPage, sort)
		return NextPageMsg{Gen: gen, Page: page, Repos: repos, HasMore: hasMore, Err: err}
	}
}

// UnstarOneCommand unstars a single confirmed repository
type UnstarOneCommand struct {
	ctx    *CommandContext
	action state.UnstarOneAction
}

// NewUnstarOneCommand creates a new unstar command
func NewUnstarOneCommand(ctx *CommandContext, action state.UnstarOneAction) *UnstarOneCommand {
	return &UnstarOneCommand{ctx: ctx, action: action}
}

// Execute sends the unstar; the list changes only once it succeeded
func (c *UnstarOneCommand) Execute() tea.Cmd {
	s := c.ctx.State
	client := s.Client
	if client == nil {
		return nil
	}

	s.Status = fmt.Sprintf("Unstarring %s...", c.action.FullName)
	action, session, ctx := c.action, s.Session, c.ctx.requestContext()
	return func() tea.Msg {
		return UnstarDoneMsg{Session: session, Action: action, Err: client.Unstar(ctx, action.Ref)}
	}
}

// UnstarSelectedCommand unstars the targets captured when the user asked
type UnstarSelectedCommand struct {
	ctx    *CommandContext
	action state.UnstarSelectedAction
}

// NewUnstarSelectedCommand creates a new bulk unstar command
func NewUnstarSelectedCommand(ctx *CommandContext, action state.UnstarSelectedAction) *UnstarSelectedCommand {
	return &UnstarSelectedCommand{ctx: ctx, action: action}
}

// Execute sends the batch in the captured order
func (c *UnstarSelectedCommand) Execute() tea.Cmd {
	s := c.ctx.State
	client := s.Client
	if client == nil || len(c.action.Targets) == 0 {
		return nil
	}

	refs := make([]domain.RepoRef, 0, len(c.action.Targets))
	for _, r := range c.action.Targets {
		refs = append(refs, r.Ref())
	}

	s.Status = fmt.Sprintf("Unstarring %d repositories...", len(refs))
	action, session, ctx := c.action, s.Session, c.ctx.requestContext()
	return func() tea.Msg {
		return UnstarBatchDoneMsg{Session: session, Action: action, Results: client.UnstarMany(ctx, refs)}
	}
}

// LogoutCommand drops the session after confirmation
type LogoutCommand struct {
	ctx *CommandContext
}

// NewLogoutCommand creates a new logout command
func NewLogoutCommand(ctx *CommandContext) *LogoutCommand {
	return &LogoutCommand{ctx: ctx}
}

// Execute logs out. A store failure is shown but never brings the session back.
func (c *LogoutCommand) Execute() tea.Cmd {
	if err := c.ctx.State.Logout(); err != nil {
		c.ctx.State.SetError(fmt.Sprintf("Failed to clear token: %v", err))
	}
	return nil
}

// ChangeSortFieldCommand switches the sort field and reloads
type ChangeSortFieldCommand struct {
	ctx   *CommandContext
	field domain.SortField
}

// NewChangeSortFieldCommand creates a new sort field command
func NewChangeSortFieldCommand(ctx *CommandContext, field domain.SortField) *ChangeSortFieldCommand {
	return &ChangeSortFieldCommand{ctx: ctx, field: field}
}

// Execute is rejected while a fetch is in flight
func (c *ChangeSortFieldCommand) Execute() tea.Cmd {
	if !c.ctx.State.SetSortField(c.field) {
		return nil
	}
	c.ctx.saveSort()
	return NewReloadCommand(c.ctx).Execute()
}

// ToggleSortDirectionCommand flips the sort direction and reloads
type ToggleSortDirectionCommand struct {
	ctx *CommandContext
}

// NewToggleSortDirectionCommand creates a new sort direction command
func NewToggleSortDirectionCommand(ctx *CommandContext) *ToggleSortDirectionCommand {
	return &ToggleSortDirectionCommand{ctx: ctx}
}

// Execute is rejected while a fetch is in flight
func (c *ToggleSortDirectionCommand) Execute() tea.Cmd {
	if !c.ctx.State.ToggleSortDirection() {
		return nil
	}
	c.ctx.saveSort()
	return NewReloadCommand(c.ctx).Execute()
}

// saveSort remembers the sort for the next run; failing to do so is not
// worth interrupting the user for
func (c *CommandContext) saveSort() {
	if err := c.State.SaveConfig(); err != nil {
		c.log.Warn().Err(err).Msg("failed to save sort preference")
	}
}

// ConfirmCommand runs the pending action
type ConfirmCommand struct {
	ctx *CommandContext
}

// NewConfirmCommand creates a new confirm command
func NewConfirmCommand(ctx *CommandContext) *ConfirmCommand {
	return &ConfirmCommand{ctx: ctx}
}

// Execute clears the pending action before anything else happens
func (c *ConfirmCommand) Execute() tea.Cmd {
	pending, ok := c.ctx.State.TakePending()
	if !ok {
		return nil
	}

	switch a := pending.(type) {
	case state.UnstarOneAction:
		return NewUnstarOneCommand(c.ctx, a).Execute()
	case state.UnstarSelectedAction:
		return NewUnstarSelectedCommand(c.ctx, a).Execute()
	case state.LogoutAction:
		return NewLogoutCommand(c.ctx).Execute()
	default:
		c.ctx.log.Error().Str("action", fmt.Sprintf("%T", pending)).Msg("unhandled pending action")
		return nil
	}
}

// CancelCommand drops the pending action
type CancelCommand struct {
	ctx *CommandContext
}

// NewCancelCommand creates a new cancel command
func NewCancelCommand(ctx *CommandContext) *CancelCommand {
	return &CancelCommand{ctx: ctx}
}

// Execute clears the pending action and nothing else
func (c *CancelCommand) Execute() tea.Cmd {
	c.ctx.State.CancelPending()
	return nil
}

// ToggleSelectionCommand toggles the selection of one repository
type ToggleSelectionCommand struct {
	ctx *CommandContext
	id  int64
}

// NewToggleSelectionCommand creates a new toggle selection command
func NewToggleSelectionCommand(ctx *CommandContext, id int64) *ToggleSelectionCommand {
	return &ToggleSelectionCommand{ctx: ctx, id: id}
}

// Execute toggles the selection
func (c *ToggleSelectionCommand) Execute() tea.Cmd {
	c.ctx.State.ToggleSelected(c.id)
	return nil
}

// SelectAllCommand toggles select all repositories
type SelectAllCommand struct {
	ctx *CommandContext
}

// NewSelectAllCommand creates a new select all command
func NewSelectAllCommand(ctx *CommandContext) *SelectAllCommand {
	return &SelectAllCommand{ctx: ctx}
}

// Execute toggles select all
func (c *SelectAllCommand) Execute() tea.Cmd {
	c.ctx.State.ToggleSelectAll()
	return nil
}
