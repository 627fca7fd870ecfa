package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay centers the styled popup over mainContent. The
// background is turned grey so the popup stands out; cells left and right
// of the popup keep their text.
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)
	popupLines := strings.Split(styledPopup, "\n")

	modalW := lipgloss.Width(styledPopup)
	if width <= 0 {
		width = max(modalW, lipgloss.Width(mainContent))
	}
	baseLines := strings.Split(mainContent, "\n")
	if height <= 0 {
		height = len(baseLines)
	}
	if len(popupLines) > height {
		popupLines = popupLines[:height]
	}
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}

	x := max((width-modalW)/2, 0)
	y := max((height-len(popupLines))/2, 0)

	grey := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	out := make([]string, len(baseLines))
	for i, line := range baseLines {
		plain := ansi.Strip(line)
		row := i - y
		if row < 0 || row >= len(popupLines) {
			out[i] = greyLine(grey, plain)
			continue
		}

		left := ansi.Truncate(plain, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(plain, x+modalW, "")
		out[i] = greyLine(grey, left) + popupLines[row] + greyLine(grey, right)
	}
	return strings.Join(out, "\n")
}

func greyLine(grey lipgloss.Style, s string) string {
	if s == "" {
		return ""
	}
	return grey.Render(s)
}
