// Package configtest provides an in-memory config.Store for tests
package configtest

import (
	"sync"

	"starcleaner/internal/config"
)

// Store keeps the configuration in memory. SaveErr and ClearErr make the
// corresponding operations fail.
type Store struct {
	SaveErr  error
	ClearErr error

	mu    sync.Mutex
	cfg   config.Config
	saves int
}

var _ config.Store = (*Store)(nil)

// New returns a store holding cfg, or the default config when cfg is nil
func New(cfg *config.Config) *Store {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Store{cfg: *cfg}
}

func (s *Store) Load() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	return &cfg
}

func (s *Store) Save(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.cfg = *cfg
	s.saves++
	return nil
}

func (s *Store) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.cfg.GitHub.PersonalAccessToken = token
	s.saves++
	return nil
}

func (s *Store) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.cfg.GitHub.PersonalAccessToken = ""
	s.saves++
	return nil
}

// Token returns the stored credential
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.GitHub.PersonalAccessToken
}

// Saves counts successful writes
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
