package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"starcleaner/internal/logger"
	"starcleaner/internal/ui/commands"
	"starcleaner/internal/ui/handlers"
	"starcleaner/internal/ui/input"
	inputtypes "starcleaner/internal/ui/input/types"
	"starcleaner/internal/ui/state"
	"starcleaner/internal/ui/views"
)

// Model is the bubbletea model. Its Update method is the only place the
// application state is written.
type Model struct {
	state *state.AppState

	width   int
	height  int
	help    help.Model
	keys    views.KeyMap
	spinner spinner.Model

	renderer     *views.Renderer
	eventHandler *handlers.Handler
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler

	pager     Pager
	openURL   func(url string) error
	statusTTL time.Duration
	log       *logger.Logger
}

// Option customizes a Model
type Option func(*Model)

// WithPager replaces the ov based details pager
func WithPager(p Pager) Option {
	return func(m *Model) { m.pager = p }
}

// WithBrowser replaces the function that opens repository URLs
func WithBrowser(open func(url string) error) Option {
	return func(m *Model) { m.openURL = open }
}

// WithStatusTTL sets how long success messages stay visible; zero keeps them
func WithStatusTTL(d time.Duration) Option {
	return func(m *Model) { m.statusTTL = d }
}

// NewModel creates the UI model around appState. ctx bounds remote calls.
func NewModel(ctx context.Context, appState *state.AppState, opts ...Option) *Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

	m := &Model{
		state:        appState,
		help:         help.New(),
		keys:         views.DefaultKeyMap(),
		spinner:      sp,
		renderer:     views.NewRenderer(),
		inputHandler: input.New(),
		pager:        OvPager{},
		openURL:      openURL,
		statusTTL:    3 * time.Second,
		log:          logger.Named("ui"),
	}
	m.cmdExecutor = commands.NewExecutor(ctx, appState)
	m.eventHandler = handlers.New(appState, m.cmdExecutor)

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State exposes the application state, mainly for tests
func (m *Model) State() *state.AppState {
	return m.state
}

// Init starts the spinner and, with a stored credential, the initial load
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.syncInputMode()}
	if m.state.Screen == state.ScreenLoading {
		cmds = append(cmds, m.cmdExecutor.InitialLoad())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.state.ViewportHeight = views.ListViewportHeight(msg.Height)
		m.state.SetCursor(m.state.Cursor)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		cmds = append(cmds, m.syncInputMode())
		return m, tea.Batch(cmds...)

	case detailsClosedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("repo", msg.repo).Msg("details pager failed")
			m.state.SetError(fmt.Sprintf("Failed to show details: %v", msg.err))
		}
		return m, nil

	case browserOpenedMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("url", msg.url).Msg("failed to open browser")
			m.state.SetError(fmt.Sprintf("Failed to open browser: %v", msg.err))
		}
		return m, nil

	case clearStatusMsg:
		if m.state.Status == msg.status {
			m.state.Status = ""
		}
		return m, nil
	}

	status := m.state.Status
	if cmd, handled := m.eventHandler.Handle(msg); handled {
		return m, tea.Batch(cmd, m.afterStateChange(status))
	}

	// Cursor blink and other text input messages
	return m, m.inputHandler.Update(msg)
}

// View renders the UI
func (m *Model) View() string {
	s := m.state

	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Screen:         s.Screen,
		Username:       s.Username,
		Repositories:   s.Repositories,
		Selected:       make(map[int64]bool, s.SelectionCount()),
		Cursor:         s.Cursor,
		ViewportOffset: s.ViewportOffset,
		ViewportHeight: s.ViewportHeight,
		HasMore:        s.HasMore,
		Sort:           s.Sort,
		Loading:        s.Loading,
		LoadingMore:    s.LoadingMore,
		Submitting:     s.Submitting,
		Error:          s.Error,
		Status:         s.Status,
		ShowHelp:       s.ShowHelp,
		TokenInput:     m.inputHandler.TextInput().View(),
		Spinner:        m.spinner.View(),
		HelpModel:      m.help,
		Keys:           m.keys,
	}
	for _, id := range s.SelectedIDs() {
		vs.Selected[id] = true
	}
	if s.Pending != nil {
		vs.ConfirmTitle = s.Pending.Title()
		vs.ConfirmMessage = s.Pending.Message()
	}

	return m.renderer.Render(vs)
}

func (m *Model) inputContext() inputtypes.Context {
	return &input.ModelContext{State: m.state}
}

// afterStateChange keeps the input mode in line with the state after a
// completion and schedules clearing of the outcome message it reported
func (m *Model) afterStateChange(prevStatus string) tea.Cmd {
	cmds := []tea.Cmd{m.syncInputMode()}

	status := m.state.Status
	if status != "" && status != prevStatus && m.statusTTL > 0 {
		cmds = append(cmds, tea.Tick(m.statusTTL, func(time.Time) tea.Msg {
			return clearStatusMsg{status: status}
		}))
	}
	return tea.Batch(cmds...)
}

// syncInputMode derives the input mode from the state: the setup screen
// takes text, a pending confirmation is modal, everything else is the list
func (m *Model) syncInputMode() tea.Cmd {
	mode := inputtypes.ModeList
	switch {
	case m.state.Screen == state.ScreenSetup:
		mode = inputtypes.ModeSetup
	case m.state.Pending != nil:
		mode = inputtypes.ModeConfirm
	}

	actions, cmd := m.inputHandler.SetMode(mode, m.inputContext())
	cmds := []tea.Cmd{cmd}
	for _, action := range actions {
		cmds = append(cmds, m.processAction(action))
	}
	return tea.Batch(cmds...)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	s := m.state

	switch a := action.(type) {
	case inputtypes.NavigateAction:
		return m.navigate(a.Direction)

	case inputtypes.SelectAction:
		if repo, ok := s.CurrentRepo(); ok {
			return m.cmdExecutor.ToggleSelection(repo.ID)
		}

	case inputtypes.SelectAllAction:
		return m.cmdExecutor.SelectAll()

	case inputtypes.UpdateTextAction:
		// Typing replaces a stale validation error
		if !s.Submitting {
			s.ClearError()
		}

	case inputtypes.SubmitTextAction:
		return m.cmdExecutor.SubmitToken(a.Text)

	case inputtypes.UnstarCurrentAction:
		if repo, ok := s.CurrentRepo(); ok {
			s.RequestUnstarOne(repo.ID)
		}

	case inputtypes.UnstarSelectedAction:
		s.RequestUnstarSelected()

	case inputtypes.LogoutAction:
		s.RequestLogout()

	case inputtypes.ConfirmAction:
		return m.cmdExecutor.Confirm()

	case inputtypes.CancelAction:
		return m.cmdExecutor.Cancel()

	case inputtypes.SortByAction:
		return m.cmdExecutor.ChangeSortField(a.Field)

	case inputtypes.ToggleSortDirectionAction:
		return m.cmdExecutor.ToggleSortDirection()

	case inputtypes.LoadMoreAction:
		return m.cmdExecutor.LoadMore()

	case inputtypes.OpenDetailsAction:
		if repo, ok := s.CurrentRepo(); ok {
			name := repo.DisplayName()
			return tea.Exec(m.pager.Command(RenderDetails(repo)), func(err error) tea.Msg {
				return detailsClosedMsg{repo: name, err: err}
			})
		}

	case inputtypes.OpenInBrowserAction:
		if repo, ok := s.CurrentRepo(); ok && repo.HTMLURL != "" {
			url, open := repo.HTMLURL, m.openURL
			return func() tea.Msg {
				return browserOpenedMsg{url: url, err: open(url)}
			}
		}

	case inputtypes.ToggleHelpAction:
		s.ShowHelp = !s.ShowHelp

	case inputtypes.DismissErrorAction:
		if s.Error != "" {
			s.ClearError()
		} else {
			s.Status = ""
		}

	case inputtypes.QuitAction:
		return tea.Quit

	default:
		m.log.Warn().Str("action", action.Type()).Msg("unhandled action")
	}
	return nil
}

// navigate moves the cursor. Reaching the last loaded row fetches the next
// page when there is one.
func (m *Model) navigate(direction string) tea.Cmd {
	s := m.state
	page := max(s.ViewportHeight-1, 1)

	switch direction {
	case "up":
		s.MoveCursor(-1)
	case "down":
		s.MoveCursor(1)
	case "pageup":
		s.MoveCursor(-page)
	case "pagedown":
		s.MoveCursor(page)
	case "home":
		s.SetCursor(0)
	case "end":
		s.SetCursor(len(s.Repositories) - 1)
	}

	if s.AtLastRow() && s.HasMore && !s.Busy() {
		return m.cmdExecutor.LoadMore()
	}
	return nil
}
