package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stridelog/internal/analysis"
)

// Config represents the application configuration
type Config struct {
	Remote  RemoteConfig  `json:"remote"`
	Account AccountConfig `json:"account"`
	Display DisplayConfig `json:"display"`
}

// RemoteConfig holds the record-store endpoint and credentials. An
// empty base URL means local-only mode.
type RemoteConfig struct {
	BaseURL     string `json:"base_url"`
	AccessToken string `json:"access_token"`
	PollSeconds int    `json:"poll_seconds"`
}

// AccountConfig holds runner-specific settings
type AccountConfig struct {
	ID           string  `json:"id"`
	CoachID      string  `json:"coach_id"`
	BodyWeightKg float64 `json:"body_weight_kg"`
	DefaultPace  string  `json:"default_pace"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
	PaceUnit     string `json:"pace_unit"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			PollSeconds: 30,
		},
		Account: AccountConfig{
			BodyWeightKg: 60,
			DefaultPace:  "6'00\"",
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			PaceUnit:     "min/km",
		},
	}
}

// Load reads the configuration from ~/.stridelog/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Remote.PollSeconds == 0 {
		cfg.Remote.PollSeconds = defaults.Remote.PollSeconds
	}
	if cfg.Account.BodyWeightKg == 0 {
		cfg.Account.BodyWeightKg = defaults.Account.BodyWeightKg
	}
	if cfg.Account.DefaultPace == "" {
		cfg.Account.DefaultPace = defaults.Account.DefaultPace
	}
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if cfg.Display.PaceUnit == "" {
		cfg.Display.PaceUnit = defaults.Display.PaceUnit
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.stridelog/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Remote.BaseURL = "https://records.example.com"
	example.Remote.AccessToken = "YOUR_ACCESS_TOKEN"
	example.Account.ID = "YOUR_ACCOUNT_ID"

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Remote.BaseURL != "" {
		if c.Account.ID == "" || c.Account.ID == "YOUR_ACCOUNT_ID" {
			return errors.New("account.id is required when remote.base_url is set")
		}
		if c.Remote.AccessToken == "" || c.Remote.AccessToken == "YOUR_ACCESS_TOKEN" {
			return errors.New("remote.access_token is required when remote.base_url is set")
		}
	}
	if c.Remote.PollSeconds < 0 {
		return fmt.Errorf("remote.poll_seconds must not be negative, got %d", c.Remote.PollSeconds)
	}

	if c.Account.BodyWeightKg < 0 {
		return fmt.Errorf("account.body_weight_kg must not be negative, got %v", c.Account.BodyWeightKg)
	}
	if c.Account.DefaultPace != "" {
		if _, err := analysis.ParseClock(c.Account.DefaultPace); err != nil {
			return fmt.Errorf("account.default_pace: %w", err)
		}
	}

	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	return nil
}

// DefaultPaceSeconds returns the configured fallback pace in seconds
// per kilometer.
func (c *Config) DefaultPaceSeconds() float64 {
	sec, err := analysis.ParseClock(c.Account.DefaultPace)
	if err != nil {
		return 0
	}
	return float64(sec)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".stridelog", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".stridelog"), nil
}
