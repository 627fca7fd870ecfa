package handlers

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"starcleaner/internal/github"
	"starcleaner/internal/logger"
	"starcleaner/internal/ui/commands"
	"starcleaner/internal/ui/state"
)

// Handler applies completion messages to the state. Every message becomes
// one state transition on the update loop.
type Handler struct {
	state *state.AppState
	exec  *commands.Executor
	log   *logger.Logger
}

// New creates a handler; exec is used for follow-up tasks
func New(appState *state.AppState, exec *commands.Executor) *Handler {
	return &Handler{
		state: appState,
		exec:  exec,
		log:   logger.Named("handlers"),
	}
}

// Handle applies msg and returns any follow-up command. handled is false
// for messages this package does not own.
func (h *Handler) Handle(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	switch m := msg.(type) {
	case commands.TokenValidatedMsg:
		return h.tokenValidated(m), true
	case commands.FirstPageMsg:
		h.firstPage(m)
		return nil, true
	case commands.NextPageMsg:
		h.nextPage(m)
		return nil, true
	case commands.UnstarDoneMsg:
		h.unstarDone(m)
		return nil, true
	case commands.UnstarBatchDoneMsg:
		h.unstarBatchDone(m)
		return nil, true
	}
	return nil, false
}

func (h *Handler) tokenValidated(m commands.TokenValidatedMsg) tea.Cmd {
	s := h.state
	s.Submitting = false

	if m.Err != nil {
		s.SetError(fmt.Sprintf("Invalid token: %v", m.Err))
		return nil
	}

	if err := s.SetToken(m.Token); err != nil {
		var ce *github.ConfigError
		if errors.As(err, &ce) {
			s.SetError(fmt.Sprintf("Invalid token: %v", err))
		} else {
			s.SetError(fmt.Sprintf("Failed to save token: %v", err))
		}
		return nil
	}

	h.log.Info().Str("user", m.Username).Msg("credential accepted")
	s.Username = m.Username
	s.Screen = state.ScreenLoading
	s.ClearError()
	return h.exec.InitialLoad()
}

func (h *Handler) firstPage(m commands.FirstPageMsg) {
	s := h.state
	if !s.IsCurrent(m.Gen) {
		h.log.Debug().Uint64("gen", m.Gen).Msg("dropping stale first page")
		return
	}

	if m.Err != nil {
		label := "Failed to reload"
		if m.Initial {
			label = "Failed to load"
		}
		s.FailLoad(m.Gen, m.Err, label)
		if m.Initial {
			s.Screen = state.ScreenSetup
		}
		return
	}

	if m.Username != "" {
		s.Username = m.Username
	}
	s.ApplyFirstPage(m.Gen, m.Repos, m.HasMore)
}

func (h *Handler) nextPage(m commands.NextPageMsg) {
	s := h.state
	if !s.IsCurrent(m.Gen) {
		h.log.Debug().Uint64("gen", m.Gen).Int("page", m.Page).Msg("dropping stale page")
		return
	}

	if m.Err != nil {
		s.FailLoad(m.Gen, m.Err, "Failed to load more")
		return
	}
	s.ApplyNextPage(m.Gen, m.Page, m.Repos, m.HasMore)
}

// unstarDone applies a single unstar even when a reload started meanwhile:
// removal is by id and the server has already acted
func (h *Handler) unstarDone(m commands.UnstarDoneMsg) {
	s := h.state
	if !s.InSession(m.Session) {
		h.log.Debug().Str("repo", m.Action.FullName).Msg("dropping unstar from a previous session")
		return
	}
	s.Status = ""

	if m.Err != nil {
		s.HandleAPIError(m.Err, "Failed to unstar")
		return
	}

	s.RemoveRepos([]int64{m.Action.ID})
	s.Status = fmt.Sprintf("Unstarred %s", m.Action.FullName)
}

// unstarBatchDone removes exactly the repositories whose unstar succeeded.
// A rejected credential anywhere in the batch ends the session once and no
// removals are applied.
func (h *Handler) unstarBatchDone(m commands.UnstarBatchDoneMsg) {
	s := h.state
	if !s.InSession(m.Session) {
		h.log.Debug().Int("count", len(m.Results)).Msg("dropping unstar batch from a previous session")
		return
	}
	s.Status = ""

	for _, r := range m.Results {
		if github.IsAuthError(r.Err) {
			s.HandleAPIError(r.Err, "Failed to unstar")
			return
		}
	}

	var (
		succeeded []int64
		firstErr  error
		failed    int
	)
	for i, r := range m.Results {
		if i >= len(m.Action.Targets) {
			break
		}
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		succeeded = append(succeeded, m.Action.Targets[i].ID)
	}

	s.RemoveRepos(succeeded)

	if failed > 0 {
		s.HandleAPIError(firstErr, fmt.Sprintf("Failed to unstar %d of %d repositories", failed, len(m.Results)))
		return
	}
	s.Status = fmt.Sprintf("Unstarred %d repositories", len(succeeded))
}
