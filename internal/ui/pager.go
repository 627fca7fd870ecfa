package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"starcleaner/internal/domain"
	"starcleaner/internal/ui/views"
)

// Pager shows long content outside of the TUI. The returned command runs
// with the terminal released by bubbletea.
type Pager interface {
	Command(content string) tea.ExecCommand
}

// OvPager pages content with the embedded ov viewer
type OvPager struct{}

func (OvPager) Command(content string) tea.ExecCommand {
	return &ovCommand{content: content}
}

type ovCommand struct {
	content string
}

// Run blocks until the viewer exits. ov opens the terminal itself, so the
// standard streams handed over by bubbletea are ignored.
func (c *ovCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(c.content))
	if err != nil {
		return err
	}

	// Don't write on exit, the TUI repaints the screen
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

func (c *ovCommand) SetStdin(io.Reader)  {}
func (c *ovCommand) SetStdout(io.Writer) {}
func (c *ovCommand) SetStderr(io.Writer) {}

// RenderDetails generates the repository details shown in the pager
func RenderDetails(repo domain.Repository) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))

	var b strings.Builder

	b.WriteString(titleStyle.Render(repo.DisplayName()))
	b.WriteString("\n")
	if repo.Description != "" {
		b.WriteString(repo.Description)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", label)), value)
	}

	row("URL", repo.HTMLURL)
	row("Language", repo.Language)
	row("License", repo.License)
	row("Stars", views.FormatCount(repo.Stars))
	row("Forks", views.FormatCount(repo.Forks))
	row("Issues", fmt.Sprintf("%d open", repo.OpenIssues))
	row("Starred", formatTime(repo.StarredAt))
	row("Pushed", formatTime(repo.PushedAt))
	if !repo.UpdatedAt.IsZero() {
		row("Updated", repo.UpdatedAt.Format("2006-01-02 15:04"))
	}

	if len(repo.Topics) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("  Topics"))
		b.WriteString("\n")
		for _, topic := range repo.Topics {
			fmt.Fprintf(&b, "    #%s\n", topic)
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press q to return"))
	return b.String()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
