package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"starcleaner/internal/domain"
)

const (
	languageWidth = 12
	starsWidth    = 8
	pushedWidth   = 17
	minNameWidth  = 20
)

// RepositoryRenderer handles rendering of starred repository rows
type RepositoryRenderer struct {
	styles *Styles
}

// NewRepositoryRenderer creates a new repository renderer
func NewRepositoryRenderer(styles *Styles) *RepositoryRenderer {
	return &RepositoryRenderer{styles: styles}
}

// RenderRepository renders one row: checkbox, starred ordinal, full name,
// language, star count and the last push date. width is the usable width
// inside the main container.
func (r *RepositoryRenderer) RenderRepository(repo domain.Repository, isCursor, isSelected bool, width int) string {
	withBg := func(s lipgloss.Style) lipgloss.Style {
		if isCursor {
			return s.Background(lipgloss.Color("238"))
		}
		return s
	}
	plain := withBg(lipgloss.NewStyle())

	checkbox := "[ ]"
	checkStyle := plain
	if isSelected {
		checkbox = "[x]"
		checkStyle = withBg(r.styles.Highlight)
	}

	nameWidth := width - (3 + 1 + 5 + 2 + 2 + languageWidth + 1 + starsWidth + 1 + pushedWidth)
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}
	name := fit(repo.DisplayName(), nameWidth)
	nameStyle := plain
	if isCursor {
		nameStyle = nameStyle.Bold(true)
	}

	langStyle := withBg(lipgloss.NewStyle().Foreground(lipgloss.Color(GetLanguageColor(repo.Language))))
	lang := repo.Language
	if lang == "" {
		lang = "-"
	}

	parts := []string{
		checkStyle.Render(checkbox),
		plain.Render(" "),
		withBg(r.styles.Dim).Render(fmt.Sprintf("%5d", repo.StarredOrder+1)),
		plain.Render("  "),
		nameStyle.Render(name),
		plain.Render("  "),
		langStyle.Render(fit(lang, languageWidth)),
		plain.Render(" "),
		withBg(r.styles.Stars).Render(fit("★ "+FormatCount(repo.Stars), starsWidth)),
		plain.Render(" "),
		withBg(r.styles.Dim).Render(fit(formatPushed(repo), pushedWidth)),
	}
	return strings.Join(parts, "")
}

// FormatCount abbreviates large counts: 999, 1.2k, 34.5k, 1.0m
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fm", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatPushed(repo domain.Repository) string {
	if repo.PushedAt == nil {
		return "never pushed"
	}
	return "pushed " + repo.PushedAt.Format("2006-01-02")
}

// fit truncates s to width cells, or pads it with spaces
func fit(s string, width int) string {
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}
