package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"starcleaner/internal/domain"
	"starcleaner/internal/ui/input/types"
)

type ListMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewListMode() *ListMode {
	return &ListMode{}
}

func (m *ListMode) Name() string {
	return "list"
}

func (m *ListMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ListMode) Exit(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *ListMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	// While help is open any key closes it, except quitting
	if ctx.HelpVisible() && msg.Type != tea.KeyCtrlC {
		return []types.Action{types.ToggleHelpAction{}}, true
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		if ctx.HasCurrentRepository() {
			return []types.Action{types.OpenDetailsAction{}}, true
		}
		return nil, false
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case " ":
		if ctx.HasCurrentRepository() {
			return []types.Action{types.SelectAction{}}, true
		}
		return nil, true

	case "a", "A":
		return []types.Action{types.SelectAllAction{}}, true

	case "u":
		if ctx.HasCurrentRepository() {
			return []types.Action{types.UnstarCurrentAction{}}, true
		}
		return nil, true

	case "U":
		if ctx.HasSelection() {
			return []types.Action{types.UnstarSelectedAction{}}, true
		}
		return nil, true

	case "s":
		return []types.Action{types.SortByAction{Field: domain.SortStarred}}, true

	case "p":
		return []types.Action{types.SortByAction{Field: domain.SortPushed}}, true

	case "d":
		return []types.Action{types.ToggleSortDirectionAction{}}, true

	case "m":
		if ctx.HasMore() {
			return []types.Action{types.LoadMoreAction{}}, true
		}
		return nil, true

	case "o":
		if ctx.HasCurrentRepository() {
			return []types.Action{types.OpenDetailsAction{}}, true
		}
		return nil, true

	case "O":
		if ctx.HasCurrentRepository() {
			return []types.Action{types.OpenInBrowserAction{}}, true
		}
		return nil, true

	case "L":
		return []types.Action{types.LogoutAction{}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "esc":
		return []types.Action{types.DismissErrorAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg - go to top
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		m.lastKeyWasG = false
		return []types.Action{types.NavigateAction{Direction: "end"}}, true
	}

	m.lastKeyWasG = false
	return nil, false
}
