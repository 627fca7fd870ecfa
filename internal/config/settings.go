package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings are the runtime options resolved from flags and the environment.
// They are never written back to the config file.
type Settings struct {
	Token      string        `mapstructure:"token"`
	ConfigPath string        `mapstructure:"config"`
	PerPage    int           `mapstructure:"per_page" validate:"omitempty,min=1,max=100"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"min=0"`
	BaseURL    string        `mapstructure:"base_url" validate:"omitempty,url"`
	LogFile    string        `mapstructure:"log_file"`
	LogLevel   string        `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn warning error off disabled"`
}

// Setting keys shared with the command line flags
const (
	KeyToken    = "token"
	KeyConfig   = "config"
	KeyPerPage  = "per_page"
	KeyTimeout  = "timeout"
	KeyBaseURL  = "base_url"
	KeyLogFile  = "log_file"
	KeyLogLevel = "log_level"
)

// NewViper returns a viper instance with defaults and environment binding.
// STARCLEANER_<KEY> overrides any key; GITHUB_TOKEN is accepted for the token.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("STARCLEANER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyPerPage, 0)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	_ = v.BindEnv(KeyToken, "STARCLEANER_TOKEN", "GITHUB_TOKEN")
	return v
}

// LoadSettings decodes and validates the settings held by v
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.Token = strings.TrimSpace(s.Token)
	if err := validator.New().Struct(s); err != nil {
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Apply overlays the settings onto a loaded config. A token given on the
// command line or in the environment wins over the stored one for this run.
func (s Settings) Apply(cfg *Config) {
	if s.Token != "" {
		cfg.GitHub.PersonalAccessToken = s.Token
	}
	if s.PerPage > 0 {
		cfg.UI.PerPage = s.PerPage
	}
}
