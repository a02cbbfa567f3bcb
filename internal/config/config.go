// Package config loads the optional studytrack.yaml file. Preferences the
// user edits from the app (timer lengths, weekly goal, sound) live in the
// database settings table instead.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sadopc/studytrack/internal/store"
	"gopkg.in/yaml.v3"
)

const (
	appDir   = "studytrack"
	fileName = "config.yaml"
)

var validLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	DBPath   string `yaml:"db_path"`
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	// DefaultWeeklyGoalHours seeds the weekly goal when none has been saved.
	// Zero leaves the built-in default in place.
	DefaultWeeklyGoalHours float64 `yaml:"default_weekly_goal_hours,omitempty"`
}

// Overrides are command-line values; empty fields keep the file value.
type Overrides struct {
	DBPath   string
	LogFile  string
	LogLevel string
}

func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, appDir), nil
}

func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Defaults keeps the database, log and config file side by side.
func Defaults() (Config, error) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return Config{}, err
	}
	return Config{
		DBPath:   dbPath,
		LogFile:  filepath.Join(filepath.Dir(dbPath), "studytrack.log"),
		LogLevel: "info",
	}, nil
}

// Load reads path (DefaultPath when empty) over the defaults. A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Apply(o Overrides) Config {
	if o.DBPath != "" {
		c.DBPath = o.DBPath
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.LogLevel != "" {
		c.LogLevel = strings.ToLower(o.LogLevel)
	}
	return c
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must not be empty")
	}
	if !isValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q: must be one of %v", c.LogLevel, validLevels)
	}
	if g := c.DefaultWeeklyGoalHours; g != 0 && (g < 1 || g > 100) {
		return fmt.Errorf("default_weekly_goal_hours %g outside 1..100", g)
	}
	return nil
}

// Save writes c as YAML, creating the parent directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func isValidLevel(level string) bool {
	for _, l := range validLevels {
		if l == strings.ToLower(level) {
			return true
		}
	}
	return false
}
