package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"starcleaner/internal/config"
	"starcleaner/internal/eventbus"
	"starcleaner/internal/github"
	"starcleaner/internal/logger"
	"starcleaner/internal/ui"
	"starcleaner/internal/ui/state"
)

// App holds what the commands share
type App struct {
	Version string
	Commit  string

	viper      *viper.Viper
	identities *github.IdentityCache

	// runProgram runs the TUI; replaced in tests
	runProgram func(ctx context.Context, m tea.Model) error
}

// NewApp creates the application for the given build information
func NewApp(version, commit string) *App {
	return &App{
		Version:    version,
		Commit:     commit,
		viper:      config.NewViper(),
		identities: github.NewIdentityCache(),
		runProgram: runProgram,
	}
}

// NewRootCommand creates the root cobra command with all subcommands.
// Without a subcommand it starts the terminal UI.
func (a *App) NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "starcleaner",
		Short: "Browse your starred GitHub repositories and remove stars in bulk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	flags := rootCmd.PersistentFlags()
	flags.String("token", "", "GitHub Personal Access Token for this run (or GITHUB_TOKEN)")
	flags.String("config", "", "config file (default "+config.DefaultPath()+")")
	flags.Int("per-page", 0, "repositories per page, 1-100")
	flags.Duration("timeout", 0, "timeout for each GitHub request (default 30s)")
	flags.String("base-url", "", "GitHub API URL, for GitHub Enterprise")
	flags.String("log-file", "", "log file (default "+logger.DefaultPath()+")")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error or off")

	for key, flag := range map[string]string{
		config.KeyToken:    "token",
		config.KeyConfig:   "config",
		config.KeyPerPage:  "per-page",
		config.KeyTimeout:  "timeout",
		config.KeyBaseURL:  "base-url",
		config.KeyLogFile:  "log-file",
		config.KeyLogLevel: "log-level",
	} {
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(a.newLogoutCommand())

	return rootCmd
}

// Execute runs the command line and returns the process exit code
func (a *App) Execute(ctx context.Context, args []string) int {
	cmd := a.NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *App) settings() (config.Settings, error) {
	return config.LoadSettings(a.viper)
}

// clientFactory builds GitHub clients sharing one identity cache
func (a *App) clientFactory(s config.Settings) github.Factory {
	opts := []github.Option{github.WithIdentityCache(a.identities)}
	if s.Timeout > 0 {
		opts = append(opts, github.WithTimeout(s.Timeout))
	}
	if s.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(s.BaseURL))
	}
	return github.NewFactory(opts...)
}

// newState loads the config and builds the application state
func (a *App) newState(s config.Settings, bus eventbus.EventBus) *state.AppState {
	store := config.NewStoreWithBus(s.ConfigPath, bus)
	cfg := store.Load()
	s.Apply(cfg)

	appState := state.New(cfg, store, a.clientFactory(s))
	appState.AttachBus(bus)
	return appState
}

func (a *App) runTUI(parent context.Context) error {
	s, err := a.settings()
	if err != nil {
		return err
	}

	closeLog := initLogging(s)
	defer closeLog()
	log := logger.Named("cli")

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()
	subscribeEventLog(bus)

	appState := a.newState(s, bus)
	log.Info().Str("screen", appState.Screen.String()).Str("version", a.Version).Msg("starting")

	return a.runProgram(ctx, ui.NewModel(ctx, appState))
}

func runProgram(ctx context.Context, m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		// Interrupted by a signal
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
