package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"starcleaner/internal/domain"
	"starcleaner/internal/eventbus"
	"starcleaner/internal/logger"
)

// DefaultPerPage is the largest page size the starred endpoint accepts
const DefaultPerPage = 100

// Config represents the persisted application configuration
type Config struct {
	GitHub GitHubConfig `toml:"github"`
	UI     UISettings   `toml:"ui"`
}

// GitHubConfig holds the credential
type GitHubConfig struct {
	PersonalAccessToken string `toml:"personal_access_token,omitempty"`
}

// UISettings remembers list preferences between runs
type UISettings struct {
	PerPage       int    `toml:"per_page,omitempty"`
	SortField     string `toml:"sort_field,omitempty"`
	SortDirection string `toml:"sort_direction,omitempty"`
}

// HasToken reports whether a non-empty credential is configured
func (c *Config) HasToken() bool {
	return c.Token() != ""
}

// Token returns the configured credential with surrounding whitespace removed
func (c *Config) Token() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.GitHub.PersonalAccessToken)
}

// Sort returns the remembered sort, defaulting to pushed ascending
func (c *Config) Sort() domain.Sort {
	s := domain.Sort{Field: domain.SortPushed, Direction: domain.SortAsc}
	if f, ok := domain.ParseSortField(c.UI.SortField); ok {
		s.Field = f
	}
	if d, ok := domain.ParseSortDirection(c.UI.SortDirection); ok {
		s.Direction = d
	}
	return s
}

// SetSort stores s in the UI settings
func (c *Config) SetSort(s domain.Sort) {
	c.UI.SortField = strings.ToLower(s.Field.Label())
	c.UI.SortDirection = s.Direction.APIValue()
}

// PerPage returns the remembered page size clamped to 1..100
func (c *Config) PerPage() int {
	if c.UI.PerPage < 1 || c.UI.PerPage > DefaultPerPage {
		return DefaultPerPage
	}
	return c.UI.PerPage
}

// Store persists the configuration
type Store interface {
	// Load never fails; a missing or unreadable file yields DefaultConfig
	Load() *Config
	Save(cfg *Config) error
	SaveToken(token string) error
	ClearToken() error
}

// fileStore keeps the configuration in a TOML file
type fileStore struct {
	bus  eventbus.EventBus
	path string
	log  *logger.Logger
}

// NewStore creates a store backed by path. An empty path selects DefaultPath.
func NewStore(path string) Store {
	if path == "" {
		path = DefaultPath()
	}
	return &fileStore{path: path, log: logger.Named("config")}
}

// NewStoreWithBus creates a store that publishes token events on bus
func NewStoreWithBus(path string, bus eventbus.EventBus) Store {
	s := NewStore(path).(*fileStore)
	s.bus = bus
	return s
}

// DefaultPath is <user config dir>/github-starcleaner/config.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "github-starcleaner", "config.toml")
}

// Load reads the configuration file
func (s *fileStore) Load() *Config {
	cfg, err := s.read()
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("using default config")
		return DefaultConfig()
	}
	return cfg
}

func (s *fileStore) read() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration file, creating its directory
func (s *fileStore) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// The file holds a credential
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	s.publish(domain.ConfigSavedEvent{Path: s.path})
	return nil
}

// SaveToken stores token, keeping the other settings on disk
func (s *fileStore) SaveToken(token string) error {
	cfg := s.Load()
	cfg.GitHub.PersonalAccessToken = token
	if err := s.Save(cfg); err != nil {
		return err
	}
	s.publish(domain.TokenSavedEvent{})
	return nil
}

// ClearToken removes the stored token
func (s *fileStore) ClearToken() error {
	cfg := s.Load()
	cfg.GitHub.PersonalAccessToken = ""
	if err := s.Save(cfg); err != nil {
		return err
	}
	s.publish(domain.TokenClearedEvent{})
	return nil
}

func (s *fileStore) publish(e domain.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// DefaultConfig returns the configuration used when nothing is stored
func DefaultConfig() *Config {
	return &Config{
		UI: UISettings{
			PerPage: DefaultPerPage,
		},
	}
}
