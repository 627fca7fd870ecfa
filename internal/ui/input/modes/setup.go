package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"starcleaner/internal/ui/input/types"
)

// SetupMode edits the credential on the setup screen. Keys it does not
// consume are forwarded to the shared text input by the handler.
type SetupMode struct {
	textInput *textinput.Model
}

func NewSetupMode(ti *textinput.Model) *SetupMode {
	return &SetupMode{textInput: ti}
}

func (m *SetupMode) Name() string {
	return "setup"
}

func (m *SetupMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Reset()
		m.textInput.Focus()
	}
	return nil
}

func (m *SetupMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
		m.textInput.Reset()
	}
	return nil
}

func (m *SetupMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "enter":
		text := ""
		if m.textInput != nil {
			text = m.textInput.Value()
		}
		return []types.Action{types.SubmitTextAction{Text: text}}, true
	default:
		return nil, false
	}
}
