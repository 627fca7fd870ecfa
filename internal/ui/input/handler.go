package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"starcleaner/internal/ui/input/modes"
	"starcleaner/internal/ui/input/types"
)

// Handler turns key presses into actions for the current mode. The mode is
// not chosen by keys: the model derives it from the state and calls SetMode.
type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // credential field of the setup screen
}

func New() *Handler {
	ti := textinput.New()
	ti.Placeholder = "ghp_..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 255
	ti.Prompt = ""

	h := &Handler{
		currentMode: types.ModeSetup,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeSetup] = modes.NewSetupMode(h.textInput)
	h.modes[types.ModeList] = modes.NewListMode()
	h.modes[types.ModeConfirm] = modes.NewConfirmMode()

	h.textInput.Focus()
	return h
}

// HandleKey dispatches msg to the current mode. Keys the setup mode does not
// consume go to the text input.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)
	if consumed {
		return actions, nil
	}
	if !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	*h.textInput, cmd = h.textInput.Update(msg)
	return []types.Action{types.UpdateTextAction{Text: h.textInput.Value()}}, cmd
}

// SetMode switches modes, running the exit and enter hooks. Switching to
// the current mode does nothing.
func (h *Handler) SetMode(mode types.Mode, ctx types.Context) ([]types.Action, tea.Cmd) {
	if mode == h.currentMode {
		return nil, nil
	}

	var actions []types.Action
	if old := h.modes[h.currentMode]; old != nil {
		actions = append(actions, old.Exit(ctx)...)
	}
	h.currentMode = mode
	if next := h.modes[mode]; next != nil {
		actions = append(actions, next.Enter(ctx)...)
	}

	if h.isTextMode(mode) {
		return actions, textinput.Blink
	}
	return actions, nil
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// TextInput returns the credential field
func (h *Handler) TextInput() *textinput.Model {
	return h.textInput
}

// ResetText clears the credential field
func (h *Handler) ResetText() {
	h.textInput.Reset()
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeSetup
}

// Update handles non-keyboard messages for the text input, e.g. cursor blink
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
