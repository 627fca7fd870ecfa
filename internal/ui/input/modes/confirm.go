package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"starcleaner/internal/ui/input/types"
)

// ConfirmMode answers the confirmation popup of a pending action
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y", "enter":
		return []types.Action{types.ConfirmAction{}}, true
	case "n", "N", "esc", "q":
		return []types.Action{types.CancelAction{}}, true
	}

	// The popup is modal
	return nil, true
}
