// Package config handles loading and saving user settings for kanjicard.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file inside the config directory.
const FileName = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. KANJICARD_LOG_LEVEL.
const EnvPrefix = "KANJICARD"

// Settings holds all user configuration.
type Settings struct {
	Database DatabaseSettings `mapstructure:"database" yaml:"database"`
	Log      LogSettings      `mapstructure:"log" yaml:"log"`
	Speech   SpeechSettings   `mapstructure:"speech" yaml:"speech"`
	UI       UISettings       `mapstructure:"ui" yaml:"ui"`
	LLM      LLMSettings      `mapstructure:"llm" yaml:"llm"`
}

// DatabaseSettings selects the SQLite driver and file.
type DatabaseSettings struct {
	Driver string `mapstructure:"driver" yaml:"driver" validate:"required,oneof=sqlite sqlite3"`
	Path   string `mapstructure:"path" yaml:"path" validate:"required"`
}

// LogSettings controls the log file.
type LogSettings struct {
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
}

// SpeechSettings controls narration pace and the optional system voice.
type SpeechSettings struct {
	WordsPerMinute int    `mapstructure:"words_per_minute" yaml:"words_per_minute" validate:"gt=0,lte=600"`
	VoiceCommand   string `mapstructure:"voice_command" yaml:"voice_command"` // e.g. "say -v Kyoko"; empty autodetects
	Voice          bool   `mapstructure:"voice" yaml:"voice"`
}

// UISettings toggles optional card lines.
type UISettings struct {
	ShowRomaji        bool `mapstructure:"show_romaji" yaml:"show_romaji"`
	ShowPronunciation bool `mapstructure:"show_pronunciation" yaml:"show_pronunciation"`
}

// LLMSettings configures mnemonic generation.
type LLMSettings struct {
	Model string `mapstructure:"model" yaml:"model" validate:"required"`
}

var validate = validator.New()

// Default returns the settings used when nothing is configured. The database
// lives in dir.
func Default(dir string) *Settings {
	return &Settings{
		Database: DatabaseSettings{Driver: "sqlite", Path: filepath.Join(dir, "kanjicard.db")},
		Log:      LogSettings{Level: "info"},
		Speech:   SpeechSettings{WordsPerMinute: 90},
		UI:       UISettings{ShowRomaji: true, ShowPronunciation: true},
		LLM:      LLMSettings{Model: "claude-sonnet-4-20250514"},
	}
}

// Validate checks field constraints.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Load reads dir/config.yaml on top of the defaults and applies
// KANJICARD_* environment overrides. A missing file is not an error.
func Load(dir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, Default(dir))

	v.SetConfigFile(filepath.Join(dir, FileName))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("speech.words_per_minute", d.Speech.WordsPerMinute)
	v.SetDefault("speech.voice_command", d.Speech.VoiceCommand)
	v.SetDefault("speech.voice", d.Speech.Voice)
	v.SetDefault("ui.show_romaji", d.UI.ShowRomaji)
	v.SetDefault("ui.show_pronunciation", d.UI.ShowPronunciation)
	v.SetDefault("llm.model", d.LLM.Model)
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Save writes settings to dir/config.yaml.
func Save(dir string, s *Settings) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), out, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}

// LoadEnv loads KEY=value pairs from dir/.env and ./.env into the process
// environment. Variables already set are kept.
func LoadEnv(dir string) error {
	for _, path := range []string{filepath.Join(dir, ".env"), ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kanjicard"), nil
}

// EnsureDir creates dir if it doesn't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}
