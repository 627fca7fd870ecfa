package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"starcleaner/internal/domain"
	"starcleaner/internal/ui/state"
)

// ListChromeLines is the number of lines the list screen uses around the
// repository rows: container padding, title, header, scroll indicators,
// status line and footer.
const ListChromeLines = 11

// ListViewportHeight returns how many rows fit on a terminal of the given height
func ListViewportHeight(termHeight int) int {
	return max(termHeight-ListChromeLines, 1)
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int
	Screen state.Screen

	Username       string
	Repositories   []domain.Repository
	Selected       map[int64]bool
	Cursor         int
	ViewportOffset int
	ViewportHeight int
	HasMore        bool
	Sort           domain.Sort

	Loading     bool
	LoadingMore bool
	Submitting  bool
	Error       string
	Status      string

	// ConfirmTitle is empty when no confirmation is pending
	ConfirmTitle   string
	ConfirmMessage string
	ShowHelp       bool

	TokenInput string
	Spinner    string
	HelpModel  help.Model
	Keys       KeyMap
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	repoRender  *RepositoryRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		repoRender:  NewRepositoryRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(vs ViewState) string {
	var body string
	switch vs.Screen {
	case state.ScreenSetup:
		body = r.renderSetup(vs)
	case state.ScreenLoading:
		body = r.renderLoading(vs)
	default:
		body = r.renderList(vs)
	}

	mainStyle := r.styles.Main
	if vs.Height > 0 {
		mainStyle = mainStyle.MaxHeight(vs.Height)
	}
	finalContent := mainStyle.Render(body)

	// Confirmation wins over help; both can't be open from the keyboard anyway
	if vs.ConfirmTitle != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, r.renderConfirm(vs), vs.Height, vs.Width, r.styles.ConfirmBox)
	}
	if vs.ShowHelp && vs.Screen == state.ScreenRepositoryList {
		return r.popupRender.RenderPopupOverlay(finalContent, r.renderHelpContent(vs), vs.Height, vs.Width, r.styles.InfoBox)
	}
	return finalContent
}

func (r *Renderer) renderSetup(vs ViewState) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render("GitHub StarCleaner"))
	b.WriteString("\n\n")
	b.WriteString(r.styles.Subtitle.Render("Enter your GitHub Personal Access Token to manage your starred repositories."))
	b.WriteString("\n\n")
	b.WriteString("Personal Access Token")
	b.WriteString("\n")

	inputWidth := 60
	if vs.Width > 0 {
		inputWidth = min(inputWidth, max(vs.Width-10, 20))
	}
	b.WriteString(r.styles.Input.Width(inputWidth).Render(vs.TokenInput))
	b.WriteString("\n")

	switch {
	case vs.Submitting:
		b.WriteString(r.styles.StatusLoading.Render(vs.Spinner + " Validating token..."))
	case vs.Error != "":
		b.WriteString(r.styles.StatusError.Render(vs.Error))
	}
	b.WriteString("\n\n")

	b.WriteString(r.styles.Dim.Render("Token requires 'repo' or 'public_repo' scope for starring/unstarring."))
	b.WriteString("\n")
	b.WriteString(r.styles.Help.Render("enter connect • esc quit"))
	return b.String()
}

func (r *Renderer) renderLoading(vs ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("GitHub StarCleaner"))
	b.WriteString("\n\n")
	b.WriteString(r.styles.StatusLoading.Render(vs.Spinner + " Loading your starred repositories..."))
	if vs.Error != "" {
		b.WriteString("\n\n")
		b.WriteString(r.styles.StatusError.Render(vs.Error))
	}
	return b.String()
}

func (r *Renderer) renderList(vs ViewState) string {
	width := vs.Width
	if width <= 0 {
		width = 80
	}
	innerWidth := width - 4 // container padding

	lines := make([]string, 0, vs.ViewportHeight+8)
	lines = append(lines, r.renderTitleLine(vs, innerWidth), "")
	lines = append(lines, r.renderHeader(vs), "")
	lines = append(lines, r.renderRows(vs, innerWidth)...)
	lines = append(lines, "", r.renderStatusLine(vs))

	footer := vs.HelpModel.ShortHelpView(vs.Keys.ShortHelp())

	// Push the footer to the bottom; 2 lines are the container padding
	available := vs.Height - 2
	if available <= 0 {
		available = 22
	}
	if pad := available - len(lines) - 1; pad > 0 {
		lines = append(lines, make([]string, pad)...)
	}
	lines = append(lines, footer)
	return strings.Join(lines, "\n")
}

// renderTitleLine shows the title with the user and activity right-aligned
func (r *Renderer) renderTitleLine(vs ViewState, width int) string {
	logo := r.styles.Title.Render(fmt.Sprintf("Starred Repositories (%d)", len(vs.Repositories)))

	var indicators []string
	if vs.Loading {
		indicators = append(indicators, r.styles.Dim.Render(vs.Spinner+" Loading"))
	}
	if vs.LoadingMore {
		indicators = append(indicators, r.styles.Dim.Render(vs.Spinner+" Loading more"))
	}
	if vs.Username != "" {
		indicators = append(indicators, r.styles.Header.Render("@"+vs.Username))
	}
	if len(indicators) == 0 {
		return logo
	}

	right := strings.Join(indicators, r.styles.Dim.Render(" | "))
	padding := width - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderHeader(vs ViewState) string {
	parts := []string{
		fmt.Sprintf("%d repositories", len(vs.Repositories)),
	}
	if n := len(vs.Selected); n > 0 {
		parts = append(parts, r.styles.Highlight.Render(fmt.Sprintf("%d selected", n)))
	}
	parts = append(parts, "Sort: "+vs.Sort.String())
	if vs.HasMore {
		parts = append(parts, "more on GitHub")
	}
	return r.styles.Header.Render(strings.Join(parts, " · "))
}

// renderRows returns the scroll indicator lines around the visible rows.
// The indicator lines are always present so the layout height is fixed.
func (r *Renderer) renderRows(vs ViewState, width int) []string {
	total := len(vs.Repositories)
	if total == 0 {
		msg := "No starred repositories."
		if vs.Loading {
			msg = ""
		}
		return []string{"", r.styles.Dim.Render(msg), ""}
	}

	height := max(vs.ViewportHeight, 1)
	start := min(max(vs.ViewportOffset, 0), total-1)
	end := min(start+height, total)

	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", start)))
	} else {
		lines = append(lines, "")
	}

	for i := start; i < end; i++ {
		repo := vs.Repositories[i]
		lines = append(lines, r.repoRender.RenderRepository(repo, i == vs.Cursor, vs.Selected[repo.ID], width))
	}

	below := total - end
	switch {
	case below > 0:
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	case vs.LoadingMore:
		lines = append(lines, r.styles.StatusLoading.Render(vs.Spinner+" Loading more..."))
	case vs.HasMore:
		lines = append(lines, r.styles.Scroll.Render("Press m to load more"))
	default:
		lines = append(lines, "")
	}
	return lines
}

func (r *Renderer) renderStatusLine(vs ViewState) string {
	switch {
	case vs.Error != "":
		return r.styles.StatusError.Render(vs.Error) + r.styles.Dim.Render("  (esc to dismiss)")
	case strings.HasSuffix(vs.Status, "..."):
		return r.styles.StatusLoading.Render(vs.Spinner + " " + vs.Status)
	case vs.Status != "":
		return r.styles.StatusSuccess.Render(vs.Status)
	default:
		return ""
	}
}

func (r *Renderer) renderConfirm(vs ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Confirm.Render(vs.ConfirmTitle))
	b.WriteString("\n\n")
	b.WriteString(vs.ConfirmMessage)
	b.WriteString("\n\n")
	b.WriteString(r.styles.Help.Render("y confirm • n cancel"))
	return b.String()
}

// sortChoices lists the sort fields with the active one marked by its direction
func sortChoices(active domain.Sort) string {
	labels := make([]string, 0, len(domain.SortFields()))
	for _, f := range domain.SortFields() {
		label := f.Label()
		if f == active.Field {
			label += " " + active.Direction.Label()
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, " · ")
}

// renderHelpContent renders the help popup from the key map
func (r *Renderer) renderHelpContent(vs ViewState) string {
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	sections := []string{"Navigation", "Selection", "Sorting", "Other"}

	var help strings.Builder
	help.WriteString(r.styles.Title.Render("StarCleaner Help"))
	help.WriteString("\n")

	for i, column := range vs.Keys.FullHelp() {
		help.WriteString("\n")
		if i < len(sections) {
			help.WriteString(sectionStyle.Render(sections[i]))
			help.WriteString("\n")
		}
		for _, binding := range column {
			h := binding.Help()
			help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(fit(h.Key, 9)), descStyle.Render(h.Desc)))
		}
		if i < len(sections) && sections[i] == "Sorting" {
			help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(fit("now", 9)), descStyle.Render(sortChoices(vs.Sort))))
		}
	}
	help.WriteString("\n")
	help.WriteString(r.styles.Dim.Render("Press any key to close"))
	return help.String()
}
