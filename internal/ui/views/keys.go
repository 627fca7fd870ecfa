package views

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap describes the list screen bindings for the help footer and popup.
// Key handling itself lives in the input modes.
type KeyMap struct {
	Up              key.Binding
	Down            key.Binding
	Top             key.Binding
	Bottom          key.Binding
	Toggle          key.Binding
	SelectAll       key.Binding
	Unstar          key.Binding
	UnstarSelected  key.Binding
	SortStarred     key.Binding
	SortPushed      key.Binding
	ToggleDirection key.Binding
	LoadMore        key.Binding
	Details         key.Binding
	Browser         key.Binding
	Logout          key.Binding
	Help            key.Binding
	Quit            key.Binding
}

var _ help.KeyMap = KeyMap{}

// DefaultKeyMap returns the bindings the list mode understands
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:              key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:            key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:             key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("gg/home", "top")),
		Bottom:          key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "bottom")),
		Toggle:          key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		SelectAll:       key.NewBinding(key.WithKeys("a", "A"), key.WithHelp("a", "select all")),
		Unstar:          key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unstar")),
		UnstarSelected:  key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "unstar selected")),
		SortStarred:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by starred")),
		SortPushed:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "sort by pushed")),
		ToggleDirection: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "flip direction")),
		LoadMore:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Details:         key.NewBinding(key.WithKeys("o", "enter"), key.WithHelp("o/enter", "details")),
		Browser:         key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "open in browser")),
		Logout:          key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Help:            key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Unstar, k.UnstarSelected, k.SortStarred, k.SortPushed, k.ToggleDirection, k.Help, k.Quit}
}

// FullHelp is shown in the help popup, one column per group
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.LoadMore},
		{k.Toggle, k.SelectAll, k.Unstar, k.UnstarSelected},
		{k.SortStarred, k.SortPushed, k.ToggleDirection},
		{k.Details, k.Browser, k.Logout, k.Help, k.Quit},
	}
}
